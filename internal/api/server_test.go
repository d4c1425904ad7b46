package api

import (
	"context"
	"testing"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	tecmidesv1 "github.com/tecmides/tecmides/internal/grpc/tecmidesv1"
)

func TestRateLimitInterceptor(t *testing.T) {
	interceptor := RateLimitInterceptor(rate.NewLimiter(rate.Limit(0.001), 1))
	calls := 0
	handler := func(ctx context.Context, req any) (any, error) {
		calls++
		return "ok", nil
	}
	mine := &grpc.UnaryServerInfo{FullMethod: tecmidesv1.RuleService_GenerateRules_FullMethodName}

	if _, err := interceptor(context.Background(), nil, mine, handler); err != nil {
		t.Fatalf("first call should pass, got %v", err)
	}
	_, err := interceptor(context.Background(), nil, mine, handler)
	if status.Code(err) != codes.ResourceExhausted {
		t.Fatalf("expected resource exhausted, got %v", err)
	}

	health := &grpc.UnaryServerInfo{FullMethod: tecmidesv1.RuleService_HealthCheck_FullMethodName}
	if _, err := interceptor(context.Background(), nil, health, handler); err != nil {
		t.Fatalf("health checks must bypass the limiter, got %v", err)
	}
	other := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	if _, err := interceptor(context.Background(), nil, other, handler); err != nil {
		t.Fatalf("other services must bypass the limiter, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls)
	}
}

func TestNewLimiterBurst(t *testing.T) {
	if got := newLimiter(0.5, 0).Burst(); got != 1 {
		t.Fatalf("expected minimum burst 1, got %d", got)
	}
	if got := newLimiter(20, 0).Burst(); got != 20 {
		t.Fatalf("expected burst to follow rate, got %d", got)
	}
	if got := newLimiter(20, 3).Burst(); got != 3 {
		t.Fatalf("expected explicit burst, got %d", got)
	}
}
