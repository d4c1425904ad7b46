package api

import (
	"fmt"
	"math"

	tecmidesv1 "github.com/tecmides/tecmides/internal/grpc/tecmidesv1"
	"github.com/tecmides/tecmides/internal/models"
)

// FromProtoGenerateRulesRequest maps the gRPC request into a domain MiningRequest.
// Threshold ranges are checked by the pipeline so the error policy applies to them.
func FromProtoGenerateRulesRequest(req *tecmidesv1.GenerateRulesRequest) (models.MiningRequest, error) {
	if req == nil {
		return models.MiningRequest{}, fmt.Errorf("request is nil")
	}
	return models.MiningRequest{
		RequestID:     req.GetRequestId(),
		Dataset:       req.GetDataset(),
		MaxRules:      int(req.GetNumRules()),
		MinSupport:    req.GetMinSupport(),
		MinConfidence: req.GetMinConfidence(),
	}, nil
}

// FromProtoRelativityRequest maps the relativity request and returns its class index.
func FromProtoRelativityRequest(req *tecmidesv1.GenerateRulesByAttrRelativityRequest) (models.MiningRequest, int, error) {
	if req == nil {
		return models.MiningRequest{}, 0, fmt.Errorf("request is nil")
	}
	domainReq, err := FromProtoGenerateRulesRequest(&req.GenerateRulesRequest)
	if err != nil {
		return models.MiningRequest{}, 0, err
	}
	return domainReq, int(req.GetClassIndex()), nil
}

// ToProtoRulesResponse converts domain rules into the wire representation.
func ToProtoRulesResponse(requestID string, rules []models.Rule) *tecmidesv1.RulesResponse {
	resp := &tecmidesv1.RulesResponse{
		Rules:     make([]*tecmidesv1.Rule, 0, len(rules)),
		RequestId: requestID,
	}
	for _, rule := range rules {
		resp.Rules = append(resp.Rules, ToProtoRule(rule))
	}
	return resp
}

// ToProtoRule converts one rule; infinite conviction becomes a null value plus a flag.
func ToProtoRule(rule models.Rule) *tecmidesv1.Rule {
	out := &tecmidesv1.Rule{
		Antecedent: toProtoConditions(rule.Antecedent),
		Consequent: toProtoConditions(rule.Consequent),
		Support:    rule.Support,
		Confidence: rule.Confidence,
		Lift:       rule.Lift,
	}
	switch {
	case rule.ConvictionInfinite():
		out.ConvictionInfinite = true
	case math.IsNaN(rule.Conviction):
	default:
		conviction := rule.Conviction
		out.Conviction = &conviction
	}
	return out
}

func toProtoConditions(conds []models.Condition) []*tecmidesv1.Condition {
	out := make([]*tecmidesv1.Condition, 0, len(conds))
	for _, c := range conds {
		out = append(out, &tecmidesv1.Condition{Attribute: c.Attribute, Value: c.Value})
	}
	return out
}
