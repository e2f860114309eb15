package grpc

import (
	"golang.org/x/time/rate"

	pb "liyu1981.xyz/insole-monitor-service/pkg/grpc/telemetry_service"
	"liyu1981.xyz/insole-monitor-service/pkg/iot"
)

type IOTServer struct {
	Iot              *iot.IOT
	RateLimiterStore *iot.RateLimiterStore
	pb.UnimplementedTelemetryServiceServer
}

func (i *IOTServer) GetLimiter(deviceID string) *rate.Limiter {
	if i.RateLimiterStore == nil {
		return nil
	} else {
		return i.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (i *IOTServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := i.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

// LimitedRequests lists the request types the rate-limit interceptor applies to.
func LimitedRequests() []any {
	return []any{
		&pb.PostPacketRequest{},
		&pb.DeviceRequest{},
		&pb.GetAlertsRequest{},
		&pb.MarkAlertReadRequest{},
	}
}
