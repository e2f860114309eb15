package telemetry_service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "insole.TelemetryService"

	TelemetryService_PostPacket_FullMethodName    = "/insole.TelemetryService/PostPacket"
	TelemetryService_GetAssessment_FullMethodName = "/insole.TelemetryService/GetAssessment"
	TelemetryService_GetAlerts_FullMethodName     = "/insole.TelemetryService/GetAlerts"
	TelemetryService_MarkAlertRead_FullMethodName = "/insole.TelemetryService/MarkAlertRead"
	TelemetryService_PostLimiter_FullMethodName   = "/insole.TelemetryService/PostLimiter"
)

type TelemetryServiceClient interface {
	PostPacket(ctx context.Context, in *PostPacketRequest, opts ...grpc.CallOption) (*PostPacketResponse, error)
	GetAssessment(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*GetAssessmentResponse, error)
	GetAlerts(ctx context.Context, in *GetAlertsRequest, opts ...grpc.CallOption) (*GetAlertsResponse, error)
	MarkAlertRead(ctx context.Context, in *MarkAlertReadRequest, opts ...grpc.CallOption) (*MarkAlertReadResponse, error)
	PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error)
}

type telemetryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewTelemetryServiceClient(cc grpc.ClientConnInterface) TelemetryServiceClient {
	return &telemetryServiceClient{cc}
}

func (c *telemetryServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *telemetryServiceClient) PostPacket(ctx context.Context, in *PostPacketRequest, opts ...grpc.CallOption) (*PostPacketResponse, error) {
	out := new(PostPacketResponse)
	if err := c.invoke(ctx, TelemetryService_PostPacket_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryServiceClient) GetAssessment(ctx context.Context, in *DeviceRequest, opts ...grpc.CallOption) (*GetAssessmentResponse, error) {
	out := new(GetAssessmentResponse)
	if err := c.invoke(ctx, TelemetryService_GetAssessment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryServiceClient) GetAlerts(ctx context.Context, in *GetAlertsRequest, opts ...grpc.CallOption) (*GetAlertsResponse, error) {
	out := new(GetAlertsResponse)
	if err := c.invoke(ctx, TelemetryService_GetAlerts_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryServiceClient) MarkAlertRead(ctx context.Context, in *MarkAlertReadRequest, opts ...grpc.CallOption) (*MarkAlertReadResponse, error) {
	out := new(MarkAlertReadResponse)
	if err := c.invoke(ctx, TelemetryService_MarkAlertRead_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *telemetryServiceClient) PostLimiter(ctx context.Context, in *PostLimiterRequest, opts ...grpc.CallOption) (*PostLimiterResponse, error) {
	out := new(PostLimiterResponse)
	if err := c.invoke(ctx, TelemetryService_PostLimiter_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

type TelemetryServiceServer interface {
	PostPacket(context.Context, *PostPacketRequest) (*PostPacketResponse, error)
	GetAssessment(context.Context, *DeviceRequest) (*GetAssessmentResponse, error)
	GetAlerts(context.Context, *GetAlertsRequest) (*GetAlertsResponse, error)
	MarkAlertRead(context.Context, *MarkAlertReadRequest) (*MarkAlertReadResponse, error)
	PostLimiter(context.Context, *PostLimiterRequest) (*PostLimiterResponse, error)
}

// UnimplementedTelemetryServiceServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedTelemetryServiceServer struct{}

func (UnimplementedTelemetryServiceServer) PostPacket(context.Context, *PostPacketRequest) (*PostPacketResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PostPacket not implemented")
}
func (UnimplementedTelemetryServiceServer) GetAssessment(context.Context, *DeviceRequest) (*GetAssessmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAssessment not implemented")
}
func (UnimplementedTelemetryServiceServer) GetAlerts(context.Context, *GetAlertsRequest) (*GetAlertsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAlerts not implemented")
}
func (UnimplementedTelemetryServiceServer) MarkAlertRead(context.Context, *MarkAlertReadRequest) (*MarkAlertReadResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MarkAlertRead not implemented")
}
func (UnimplementedTelemetryServiceServer) PostLimiter(context.Context, *PostLimiterRequest) (*PostLimiterResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PostLimiter not implemented")
}

func RegisterTelemetryServiceServer(s grpc.ServiceRegistrar, srv TelemetryServiceServer) {
	s.RegisterService(&TelemetryService_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](
	method string,
	call func(TelemetryServiceServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TelemetryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TelemetryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TelemetryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TelemetryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PostPacket",
			Handler:    unaryHandler(TelemetryService_PostPacket_FullMethodName, TelemetryServiceServer.PostPacket),
		},
		{
			MethodName: "GetAssessment",
			Handler:    unaryHandler(TelemetryService_GetAssessment_FullMethodName, TelemetryServiceServer.GetAssessment),
		},
		{
			MethodName: "GetAlerts",
			Handler:    unaryHandler(TelemetryService_GetAlerts_FullMethodName, TelemetryServiceServer.GetAlerts),
		},
		{
			MethodName: "MarkAlertRead",
			Handler:    unaryHandler(TelemetryService_MarkAlertRead_FullMethodName, TelemetryServiceServer.MarkAlertRead),
		},
		{
			MethodName: "PostLimiter",
			Handler:    unaryHandler(TelemetryService_PostLimiter_FullMethodName, TelemetryServiceServer.PostLimiter),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "insole/telemetry_service.json",
}
