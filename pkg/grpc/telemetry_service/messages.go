package telemetry_service

import (
	"google.golang.org/protobuf/types/known/timestamppb"
)

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DeviceRequest struct {
	DeviceId string `json:"device_id"`
}

func (r *DeviceRequest) GetDeviceId() string {
	if r == nil {
		return ""
	}
	return r.DeviceId
}

type PostPacketRequest struct {
	DeviceId string `json:"device_id"`
	// Packet is the raw 16-byte frame.
	Packet []byte `json:"packet"`
	// Timestamp is the arrival time; the server clock is used when unset.
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
}

func (r *PostPacketRequest) GetDeviceId() string {
	if r == nil {
		return ""
	}
	return r.DeviceId
}

type PostPacketResponse struct {
	Status     *StatusResponse `json:"status"`
	Assessment *Assessment     `json:"assessment,omitempty"`
	Events     []*AlertEvent   `json:"events,omitempty"`
}

type Assessment struct {
	Timestamp       *timestamppb.Timestamp `json:"timestamp"`
	OverallScore    int32                  `json:"overall_score"`
	Level           string                 `json:"level"`
	Pressure        int32                  `json:"pressure"`
	Temperature     int32                  `json:"temperature"`
	Circulation     int32                  `json:"circulation"`
	Gait            int32                  `json:"gait"`
	Factors         []string               `json:"factors"`
	Recommendations []string               `json:"recommendations"`
}

type GetAssessmentResponse struct {
	Status     *StatusResponse `json:"status"`
	Assessment *Assessment     `json:"assessment,omitempty"`
}

type Alert struct {
	Id         string                 `json:"id"`
	DeviceId   string                 `json:"device_id"`
	Type       string                 `json:"type"`
	Severity   string                 `json:"severity"`
	Zone       string                 `json:"zone,omitempty"`
	Message    string                 `json:"message"`
	CreatedAt  *timestamppb.Timestamp `json:"created_at"`
	LastSeenAt *timestamppb.Timestamp `json:"last_seen_at"`
	IsRead     bool                   `json:"is_read"`
	ResolvedAt *timestamppb.Timestamp `json:"resolved_at,omitempty"`
}

type AlertEvent struct {
	Kind  string `json:"kind"`
	Alert *Alert `json:"alert"`
}

type GetAlertsRequest struct {
	DeviceId   string                 `json:"device_id"`
	ActiveOnly bool                   `json:"active_only"`
	Type       string                 `json:"type,omitempty"`
	Severity   string                 `json:"severity,omitempty"`
	Since      *timestamppb.Timestamp `json:"since,omitempty"`
}

func (r *GetAlertsRequest) GetDeviceId() string {
	if r == nil {
		return ""
	}
	return r.DeviceId
}

type GetAlertsResponse struct {
	Status *StatusResponse `json:"status"`
	Alerts []*Alert        `json:"alerts"`
}

type MarkAlertReadRequest struct {
	DeviceId string `json:"device_id"`
	AlertId  string `json:"alert_id"`
}

func (r *MarkAlertReadRequest) GetDeviceId() string {
	if r == nil {
		return ""
	}
	return r.DeviceId
}

type MarkAlertReadResponse struct {
	Status *StatusResponse `json:"status"`
	Alert  *Alert          `json:"alert,omitempty"`
}

type PostLimiterRequest struct {
	DeviceId    string  `json:"device_id"`
	DeviceRate  float64 `json:"device_rate"`
	DeviceBurst int32   `json:"device_burst"`
}

func (r *PostLimiterRequest) GetDeviceId() string {
	if r == nil {
		return ""
	}
	return r.DeviceId
}

type PostLimiterResponse struct {
	Status *StatusResponse `json:"status"`
}
