package grpc

import (
	"context"
	"reflect"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
)

func (i *IOTServer) CreateRateLimitInterceptor(targetReqTypes []any) grpc.UnaryServerInterceptor {
	targetTypeMap := common.Reducer(targetReqTypes,
		func(m map[reflect.Type]bool, t any) map[reflect.Type]bool {
			m[reflect.TypeOf(t)] = true
			return m
		},
		map[reflect.Type]bool{},
	)

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if _, ok := targetTypeMap[reflect.TypeOf(req)]; ok {
			if r, ok := req.(interface{ GetDeviceId() string }); ok {
				deviceID := r.GetDeviceId()
				if !i.CheckDeviceLimiter(deviceID) {
					i.Iot.Metrics.Packet(metrics.PacketResultRateLimited)
					common.GetLoggerWith(common.LoggerNameGrpcServer).
						Debug("Rate limit exceeded", zap.String("device_id", deviceID), zap.String("method", info.FullMethod))
					return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded")
				}
			}
		}

		return handler(ctx, req)
	}
}
