package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/tecmides/tecmides/internal/arff"
	"github.com/tecmides/tecmides/internal/association"
	"github.com/tecmides/tecmides/internal/filter"
	"github.com/tecmides/tecmides/internal/metrics"
	"github.com/tecmides/tecmides/internal/models"
	"github.com/tecmides/tecmides/internal/selection"
	"github.com/tecmides/tecmides/internal/utils"
)

// Loader turns raw dataset text into a relation.
type Loader interface {
	Load(ctx context.Context, text string) (*models.Relation, error)
}

// Selector narrows a relation to the attributes relevant to a class attribute.
type Selector interface {
	Select(ctx context.Context, rel *models.Relation, classIndex int) (*models.Relation, error)
}

// Miner derives association rules from a relation.
type Miner interface {
	Mine(ctx context.Context, rel *models.Relation, maxRules int, minSupport, minConfidence float64) ([]models.Rule, error)
}

// RuleFilter narrows a rule list.
type RuleFilter interface {
	Filter(rules []models.Rule) []models.Rule
}

// ErrorPolicy decides what callers see when a stage fails.
type ErrorPolicy int

const (
	// PolicyCompat logs the failure and returns an empty rule list without error.
	PolicyCompat ErrorPolicy = iota
	// PolicyStrict returns the failure to the caller.
	PolicyStrict
)

func (p ErrorPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "compat"
}

// ParseErrorPolicy maps "compat" or "strict" to an ErrorPolicy; empty means compat.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "compat":
		return PolicyCompat, nil
	case "strict":
		return PolicyStrict, nil
	}
	return PolicyCompat, fmt.Errorf("unknown error policy %q", name)
}

// Pipeline orchestrates loading, optional attribute selection, mining and filtering.
type Pipeline struct {
	logger   *slog.Logger
	loader   Loader
	selector Selector
	miner    Miner
	filter   RuleFilter
	policy   ErrorPolicy
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy sets the error policy.
func WithPolicy(policy ErrorPolicy) Option {
	return func(p *Pipeline) { p.policy = policy }
}

// NewPipeline constructs a pipeline; nil strategies fall back to the ARFF
// loader, CFS selector, Apriori miner and the default conviction/lift chain.
func NewPipeline(
	logger *slog.Logger,
	loader Loader,
	selector Selector,
	miner Miner,
	ruleFilter RuleFilter,
	opts ...Option,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = arff.NewLoader()
	}
	if selector == nil {
		selector = selection.NewCfsSelector(selection.WithLogger(logger))
	}
	if miner == nil {
		miner = association.NewAprioriMiner(logger, association.Config{})
	}
	if ruleFilter == nil {
		ruleFilter = filter.Default(filter.DefaultMinConviction, filter.DefaultMinLift)
	}

	p := &Pipeline{
		logger:   logger,
		loader:   loader,
		selector: selector,
		miner:    miner,
		filter:   ruleFilter,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Policy reports the configured error policy.
func (p *Pipeline) Policy() ErrorPolicy {
	return p.policy
}

// GenerateRules loads the dataset, mines it and filters the rules.
func (p *Pipeline) GenerateRules(ctx context.Context, req models.MiningRequest) ([]models.Rule, error) {
	return p.run(ctx, metrics.FlowPlain, req, func(ctx context.Context, rel *models.Relation) (*models.Relation, error) {
		return rel, nil
	})
}

// GenerateRulesByAttrRelativity restricts the dataset to the attributes most
// correlated with the class attribute before mining.
func (p *Pipeline) GenerateRulesByAttrRelativity(ctx context.Context, req models.MiningRequest, classIndex int) ([]models.Rule, error) {
	return p.run(ctx, metrics.FlowRelativity, req, func(ctx context.Context, rel *models.Relation) (*models.Relation, error) {
		if err := rel.SetClassIndex(classIndex); err != nil {
			return nil, utils.NewStageError(utils.StageClass, err)
		}
		selected, err := p.selector.Select(ctx, rel, classIndex)
		if err != nil {
			return nil, utils.NewStageError(utils.StageSelect, err)
		}
		return selected, nil
	})
}

type prepareFunc func(ctx context.Context, rel *models.Relation) (*models.Relation, error)

func (p *Pipeline) run(ctx context.Context, flow string, req models.MiningRequest, prepare prepareFunc) ([]models.Rule, error) {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	logger := p.logger.With(slog.String("request_id", req.RequestID), slog.String("flow", flow))

	start := time.Now()
	rules, err := p.execute(ctx, logger, req, prepare)
	duration := time.Since(start)

	if err != nil {
		stage := "unknown"
		var stageErr *utils.StageError
		if errors.As(err, &stageErr) {
			stage = string(stageErr.Stage)
		}
		class := models.ErrorClass(err)
		metrics.ObserveStageFailure(stage, class)
		metrics.ObserveMining(flow, duration, metrics.OutcomeError, 0)
		logger.Warn("rule generation failed",
			slog.String("stage", stage),
			slog.String("error_class", class),
			slog.String("policy", p.policy.String()),
			slog.Any("error", err),
		)
		if p.policy == PolicyStrict {
			return nil, err
		}
		return []models.Rule{}, nil
	}

	metrics.ObserveMining(flow, duration, metrics.OutcomeSuccess, len(rules))
	logger.Info("rules generated", slog.Int("rules", len(rules)), slog.Duration("duration", duration))
	return rules, nil
}

func (p *Pipeline) execute(ctx context.Context, logger *slog.Logger, req models.MiningRequest, prepare prepareFunc) ([]models.Rule, error) {
	if err := req.Validate(); err != nil {
		return nil, utils.NewStageError(utils.StageValidate, err)
	}
	if req.MaxRules == 0 {
		return []models.Rule{}, nil
	}

	rel, err := p.loader.Load(ctx, req.Dataset)
	if err != nil {
		return nil, utils.NewStageError(utils.StageLoad, err)
	}
	logger.Debug("dataset loaded",
		slog.String("relation", rel.Name),
		slog.Int("attributes", rel.NumAttributes()),
		slog.Int("instances", rel.NumInstances()),
	)

	rel, err = prepare(ctx, rel)
	if err != nil {
		return nil, err
	}

	mined, err := p.miner.Mine(ctx, rel, req.MaxRules, req.MinSupport, req.MinConfidence)
	if err != nil {
		return nil, utils.NewStageError(utils.StageMine, err)
	}

	rules := p.filter.Filter(mined)
	logger.Debug("rules filtered", slog.Int("mined", len(mined)), slog.Int("kept", len(rules)))
	if rules == nil {
		rules = []models.Rule{}
	}
	return rules, nil
}
