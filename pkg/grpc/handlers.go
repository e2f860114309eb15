package grpc

import (
	"context"
	"fmt"
	"time"

	z "github.com/Oudwins/zog"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/types/known/timestamppb"

	"liyu1981.xyz/insole-monitor-service/pkg/alert"
	"liyu1981.xyz/insole-monitor-service/pkg/common"
	pb "liyu1981.xyz/insole-monitor-service/pkg/grpc/telemetry_service"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

func validateDeviceID(deviceID *string) z.ZogIssueList {
	var deviceIdValidator = z.String().Min(1).Required()
	return deviceIdValidator.Validate(deviceID)
}

var alertTypeValidator = z.String().OneOf([]string{
	"",
	string(models.AlertTypeTemperature),
	string(models.AlertTypePressure),
	string(models.AlertTypeCirculation),
	string(models.AlertTypeGait),
	string(models.AlertTypeSystem),
})

var severityValidator = z.String().OneOf([]string{
	"",
	string(models.SeverityInfo),
	string(models.SeverityWarning),
	string(models.SeverityCritical),
})

func ok() *pb.StatusResponse {
	return &pb.StatusResponse{Success: true, Message: "OK"}
}

func failed(err error) *pb.StatusResponse {
	return &pb.StatusResponse{Success: false, Message: err.Error()}
}

func invalid(issues any) *pb.StatusResponse {
	return &pb.StatusResponse{Success: false, Message: fmt.Sprintf("validation error: %v", issues)}
}

func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func toPbAssessment(a models.RiskAssessment) *pb.Assessment {
	return &pb.Assessment{
		Timestamp:       timestamp(a.Timestamp),
		OverallScore:    int32(a.OverallScore),
		Level:           string(a.Level),
		Pressure:        int32(a.SubScores.Pressure),
		Temperature:     int32(a.SubScores.Temperature),
		Circulation:     int32(a.SubScores.Circulation),
		Gait:            int32(a.SubScores.Gait),
		Factors:         a.Factors,
		Recommendations: a.Recommendations,
	}
}

func toPbAlert(deviceID string) func(models.Alert) *pb.Alert {
	return func(a models.Alert) *pb.Alert {
		out := &pb.Alert{
			Id:         a.ID,
			DeviceId:   deviceID,
			Type:       string(a.Type),
			Severity:   string(a.Severity),
			Zone:       string(a.Zone),
			Message:    a.Message,
			CreatedAt:  timestamp(a.CreatedAt),
			LastSeenAt: timestamp(a.LastSeenAt),
			IsRead:     a.IsRead,
		}
		if a.ResolvedAt != nil {
			out.ResolvedAt = timestamppb.New(*a.ResolvedAt)
		}
		return out
	}
}

func (s *IOTServer) PostPacket(ctx context.Context, req *pb.PostPacketRequest) (*pb.PostPacketResponse, error) {
	if err := validateDeviceID(&req.DeviceId); err != nil {
		return &pb.PostPacketResponse{Status: invalid(err)}, nil
	}

	var at time.Time
	if req.Timestamp != nil {
		if err := req.Timestamp.CheckValid(); err != nil {
			return &pb.PostPacketResponse{Status: invalid(err)}, nil
		}
		at = req.Timestamp.AsTime()
	}

	out, err := s.Iot.Telemetry.IngestPacket(req.DeviceId, req.Packet, at)
	if err != nil {
		return &pb.PostPacketResponse{Status: failed(err)}, nil
	}

	toAlert := toPbAlert(req.DeviceId)
	return &pb.PostPacketResponse{
		Status:     ok(),
		Assessment: toPbAssessment(out.Assessment),
		Events: common.Mapper(out.Events, func(ev models.AlertEvent) *pb.AlertEvent {
			return &pb.AlertEvent{Kind: string(ev.Kind), Alert: toAlert(ev.Alert)}
		}),
	}, nil
}

func (s *IOTServer) GetAssessment(ctx context.Context, req *pb.DeviceRequest) (*pb.GetAssessmentResponse, error) {
	if err := validateDeviceID(&req.DeviceId); err != nil {
		return &pb.GetAssessmentResponse{Status: invalid(err)}, nil
	}

	a, err := s.Iot.Telemetry.GetAssessment(req.DeviceId)
	if err != nil {
		return &pb.GetAssessmentResponse{Status: failed(err)}, nil
	}

	return &pb.GetAssessmentResponse{Status: ok(), Assessment: toPbAssessment(a)}, nil
}

func (s *IOTServer) GetAlerts(ctx context.Context, req *pb.GetAlertsRequest) (*pb.GetAlertsResponse, error) {
	if err := validateDeviceID(&req.DeviceId); err != nil {
		return &pb.GetAlertsResponse{Status: invalid(err)}, nil
	}
	if err := alertTypeValidator.Validate(&req.Type); err != nil {
		return &pb.GetAlertsResponse{Status: invalid(err)}, nil
	}
	if err := severityValidator.Validate(&req.Severity); err != nil {
		return &pb.GetAlertsResponse{Status: invalid(err)}, nil
	}

	filter := alert.Filter{
		ActiveOnly: req.ActiveOnly,
		Type:       models.AlertType(req.Type),
		Severity:   models.Severity(req.Severity),
	}
	if req.Since != nil {
		filter.Since = req.Since.AsTime()
	}

	alerts, err := s.Iot.Alert.GetAlerts(req.DeviceId, filter)
	if err != nil {
		return &pb.GetAlertsResponse{
			Status: failed(err),
			Alerts: nil,
		}, nil
	}

	return &pb.GetAlertsResponse{
		Status: ok(),
		Alerts: common.Mapper(alerts, toPbAlert(req.DeviceId)),
	}, nil
}

func (s *IOTServer) MarkAlertRead(ctx context.Context, req *pb.MarkAlertReadRequest) (*pb.MarkAlertReadResponse, error) {
	if err := validateDeviceID(&req.DeviceId); err != nil {
		return &pb.MarkAlertReadResponse{Status: invalid(err)}, nil
	}

	var alertIdValidator = z.String().Min(1).Required()
	if err := alertIdValidator.Validate(&req.AlertId); err != nil {
		return &pb.MarkAlertReadResponse{Status: invalid(err)}, nil
	}

	a, err := s.Iot.Alert.MarkRead(req.DeviceId, req.AlertId)
	if err != nil {
		return &pb.MarkAlertReadResponse{Status: failed(err)}, nil
	}

	return &pb.MarkAlertReadResponse{Status: ok(), Alert: toPbAlert(req.DeviceId)(a)}, nil
}

func (s *IOTServer) PostLimiter(ctx context.Context, req *pb.PostLimiterRequest) (*pb.PostLimiterResponse, error) {
	if err := validateDeviceID(&req.DeviceId); err != nil {
		return &pb.PostLimiterResponse{Status: invalid(err)}, nil
	}

	var rateValidator = z.Float64().Required()
	if err := rateValidator.Validate(&req.DeviceRate); err != nil {
		return &pb.PostLimiterResponse{Status: invalid(err)}, nil
	}

	var burstValidator = z.Int32().Required()
	if err := burstValidator.Validate(&req.DeviceBurst); err != nil {
		return &pb.PostLimiterResponse{Status: invalid(err)}, nil
	}

	if s.RateLimiterStore == nil {
		return &pb.PostLimiterResponse{
			Status: &pb.StatusResponse{
				Success: false,
				Message: "RateLimiterStore is not used. No effect.",
			},
		}, nil
	}

	s.RateLimiterStore.SetLimiter(req.DeviceId, rate.Limit(req.DeviceRate), int(req.DeviceBurst))
	return &pb.PostLimiterResponse{Status: ok()}, nil
}
