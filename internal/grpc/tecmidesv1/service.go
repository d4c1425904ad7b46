package tecmidesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RuleService_GenerateRules_FullMethodName                 = "/tecmides.v1.RuleService/GenerateRules"
	RuleService_GenerateRulesByAttrRelativity_FullMethodName = "/tecmides.v1.RuleService/GenerateRulesByAttrRelativity"
	RuleService_HealthCheck_FullMethodName                   = "/tecmides.v1.RuleService/HealthCheck"
)

// RuleServiceClient is the client API for RuleService.
type RuleServiceClient interface {
	GenerateRules(ctx context.Context, in *GenerateRulesRequest, opts ...grpc.CallOption) (*RulesResponse, error)
	GenerateRulesByAttrRelativity(ctx context.Context, in *GenerateRulesByAttrRelativityRequest, opts ...grpc.CallOption) (*RulesResponse, error)
	HealthCheck(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error)
}

type ruleServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewRuleServiceClient returns a client that always requests the JSON codec.
func NewRuleServiceClient(cc grpc.ClientConnInterface) RuleServiceClient {
	return &ruleServiceClient{cc}
}

func (c *ruleServiceClient) GenerateRules(ctx context.Context, in *GenerateRulesRequest, opts ...grpc.CallOption) (*RulesResponse, error) {
	out := new(RulesResponse)
	if err := c.cc.Invoke(ctx, RuleService_GenerateRules_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ruleServiceClient) GenerateRulesByAttrRelativity(ctx context.Context, in *GenerateRulesByAttrRelativityRequest, opts ...grpc.CallOption) (*RulesResponse, error) {
	out := new(RulesResponse)
	if err := c.cc.Invoke(ctx, RuleService_GenerateRulesByAttrRelativity_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ruleServiceClient) HealthCheck(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.cc.Invoke(ctx, RuleService_HealthCheck_FullMethodName, in, out, withJSON(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withJSON(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

// RuleServiceServer is the server API for RuleService.
type RuleServiceServer interface {
	GenerateRules(context.Context, *GenerateRulesRequest) (*RulesResponse, error)
	GenerateRulesByAttrRelativity(context.Context, *GenerateRulesByAttrRelativityRequest) (*RulesResponse, error)
	HealthCheck(context.Context, *HealthRequest) (*HealthResponse, error)
}

// UnimplementedRuleServiceServer can be embedded to satisfy RuleServiceServer.
type UnimplementedRuleServiceServer struct{}

func (UnimplementedRuleServiceServer) GenerateRules(context.Context, *GenerateRulesRequest) (*RulesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateRules not implemented")
}

func (UnimplementedRuleServiceServer) GenerateRulesByAttrRelativity(context.Context, *GenerateRulesByAttrRelativityRequest) (*RulesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateRulesByAttrRelativity not implemented")
}

func (UnimplementedRuleServiceServer) HealthCheck(context.Context, *HealthRequest) (*HealthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method HealthCheck not implemented")
}

// RegisterRuleServiceServer attaches srv to s.
func RegisterRuleServiceServer(s grpc.ServiceRegistrar, srv RuleServiceServer) {
	s.RegisterService(&RuleService_ServiceDesc, srv)
}

func _RuleService_GenerateRules_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GenerateRulesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuleServiceServer).GenerateRules(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RuleService_GenerateRules_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RuleServiceServer).GenerateRules(ctx, req.(*GenerateRulesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RuleService_GenerateRulesByAttrRelativity_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GenerateRulesByAttrRelativityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuleServiceServer).GenerateRulesByAttrRelativity(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RuleService_GenerateRulesByAttrRelativity_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RuleServiceServer).GenerateRulesByAttrRelativity(ctx, req.(*GenerateRulesByAttrRelativityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RuleService_HealthCheck_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HealthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RuleServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RuleService_HealthCheck_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RuleServiceServer).HealthCheck(ctx, req.(*HealthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RuleService_ServiceDesc is the grpc.ServiceDesc for RuleService.
var RuleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "tecmides.v1.RuleService",
	HandlerType: (*RuleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateRules", Handler: _RuleService_GenerateRules_Handler},
		{MethodName: "GenerateRulesByAttrRelativity", Handler: _RuleService_GenerateRulesByAttrRelativity_Handler},
		{MethodName: "HealthCheck", Handler: _RuleService_HealthCheck_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tecmidesv1/service.go",
}
