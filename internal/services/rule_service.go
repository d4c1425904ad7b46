package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tecmides/tecmides/internal/api"
	"github.com/tecmides/tecmides/internal/engine"
	tecmidesv1 "github.com/tecmides/tecmides/internal/grpc/tecmidesv1"
	"github.com/tecmides/tecmides/internal/models"
	"github.com/tecmides/tecmides/internal/utils"
)

// RuleService implements the gRPC tecmides.v1.RuleService.
type RuleService struct {
	tecmidesv1.UnimplementedRuleServiceServer

	logger    *slog.Logger
	pipeline  *engine.Pipeline
	latencies *utils.LatencyTracker
}

// NewRuleService constructs the rule service facade.
func NewRuleService(logger *slog.Logger, pipeline *engine.Pipeline) *RuleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleService{
		logger:    logger,
		pipeline:  pipeline,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// GenerateRules mines and filters rules over the request dataset.
func (s *RuleService) GenerateRules(ctx context.Context, req *tecmidesv1.GenerateRulesRequest) (*tecmidesv1.RulesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if s.pipeline == nil {
		return nil, status.Error(codes.FailedPrecondition, "pipeline not configured")
	}

	domainReq, err := api.FromProtoGenerateRulesRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	domainReq = withRequestID(domainReq)
	s.logger.Debug("GenerateRules called", slog.String("request_id", domainReq.RequestID), slog.Int("num_rules", domainReq.MaxRules))

	return s.respond(domainReq, func() ([]models.Rule, error) {
		return s.pipeline.GenerateRules(ctx, domainReq)
	})
}

// GenerateRulesByAttrRelativity mines rules over the attributes selected for the class index.
func (s *RuleService) GenerateRulesByAttrRelativity(ctx context.Context, req *tecmidesv1.GenerateRulesByAttrRelativityRequest) (*tecmidesv1.RulesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request cannot be nil")
	}
	if s.pipeline == nil {
		return nil, status.Error(codes.FailedPrecondition, "pipeline not configured")
	}

	domainReq, classIndex, err := api.FromProtoRelativityRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	domainReq = withRequestID(domainReq)
	s.logger.Debug("GenerateRulesByAttrRelativity called",
		slog.String("request_id", domainReq.RequestID),
		slog.Int("num_rules", domainReq.MaxRules),
		slog.Int("class_index", classIndex),
	)

	return s.respond(domainReq, func() ([]models.Rule, error) {
		return s.pipeline.GenerateRulesByAttrRelativity(ctx, domainReq, classIndex)
	})
}

func (s *RuleService) respond(req models.MiningRequest, run func() ([]models.Rule, error)) (*tecmidesv1.RulesResponse, error) {
	start := time.Now()
	rules, err := run()
	duration := time.Since(start)
	if err != nil {
		return nil, toStatus(err)
	}

	s.latencies.Observe(duration)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("mining latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}
	return api.ToProtoRulesResponse(req.RequestID, rules), nil
}

// HealthCheck returns the current health state.
func (s *RuleService) HealthCheck(ctx context.Context, req *tecmidesv1.HealthRequest) (*tecmidesv1.HealthResponse, error) {
	resp := &tecmidesv1.HealthResponse{
		Status:       "SERVING",
		LatencyP95Ms: float64(s.LatencyP95()) / float64(time.Millisecond),
	}
	if s.pipeline == nil {
		resp.Status = "NOT_SERVING"
	} else {
		resp.ErrorPolicy = s.pipeline.Policy().String()
	}
	return resp, nil
}

// LatencyP95 returns the current p95 mining latency.
func (s *RuleService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func withRequestID(req models.MiningRequest) models.MiningRequest {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return req
}

// toStatus maps a strict-mode pipeline error onto a gRPC status.
func toStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	switch models.ErrorClass(err) {
	case "parse", "empty_dataset", "invalid_class_index", "invalid_parameter":
		return status.Error(codes.InvalidArgument, err.Error())
	case "mining":
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, "rule generation failed")
}
