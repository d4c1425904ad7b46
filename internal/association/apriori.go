// Package association mines association rules with the Apriori algorithm.
package association

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/tecmides/tecmides/internal/discretize"
	"github.com/tecmides/tecmides/internal/models"
)

const (
	// DefaultUpperBoundSupport is the support level the adaptive search starts from.
	DefaultUpperBoundSupport = 1.0
	// DefaultDelta is the amount support is lowered by between iterations.
	DefaultDelta = 0.05

	tolerance = 1e-9
)

// Config tunes the adaptive support search.
type Config struct {
	UpperBoundSupport float64
	Delta             float64
	Bins              int
}

// AprioriMiner derives association rules from frequent itemsets, lowering the
// support threshold step by step until enough rules qualify.
type AprioriMiner struct {
	logger      *slog.Logger
	discretizer *discretize.EqualWidth
	upperBound  float64
	delta       float64
}

// NewAprioriMiner constructs a miner; zero config values take the defaults.
func NewAprioriMiner(logger *slog.Logger, cfg Config) *AprioriMiner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UpperBoundSupport <= 0 || cfg.UpperBoundSupport > 1 {
		cfg.UpperBoundSupport = DefaultUpperBoundSupport
	}
	if cfg.Delta <= 0 || cfg.Delta > 1 {
		cfg.Delta = DefaultDelta
	}
	return &AprioriMiner{
		logger:      logger,
		discretizer: discretize.NewEqualWidth(cfg.Bins),
		upperBound:  cfg.UpperBoundSupport,
		delta:       cfg.Delta,
	}
}

// Mine returns at most maxRules rules with support >= minSupport and
// confidence >= minConfidence, ordered by confidence, support and antecedent.
func (m *AprioriMiner) Mine(ctx context.Context, rel *models.Relation, maxRules int, minSupport, minConfidence float64) ([]models.Rule, error) {
	if err := models.ValidateThresholds(maxRules, minSupport, minConfidence); err != nil {
		return nil, err
	}
	if maxRules == 0 {
		return []models.Rule{}, nil
	}
	if rel == nil || rel.NumInstances() == 0 {
		return nil, errors.Mark(errors.New("cannot mine a relation without instances"), models.ErrEmptyDataset)
	}

	data := m.discretizer.Apply(rel)
	n := data.NumInstances()

	var (
		rules        []models.Rule
		lastCount    = -1
		usedSupport  float64
		numFrequent  int
		levelsTested int
	)
	for step := 0; ; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		support := m.upperBound - float64(step)*m.delta
		floor := support <= minSupport+tolerance
		if floor {
			support = minSupport
		}
		minCount := supportCount(support, n)
		if minCount == lastCount && !floor {
			continue
		}
		lastCount = minCount
		levelsTested++

		frequent, err := frequentItemsets(ctx, data, minCount)
		if err != nil {
			return nil, err
		}
		if len(frequent.all) > 0 {
			rules = deriveRules(data, frequent, minConfidence)
			usedSupport = support
			numFrequent = len(frequent.all)
		}
		if floor {
			if len(frequent.all) == 0 {
				return nil, errors.WithDetailf(
					errors.Mark(errors.Newf("no itemset reaches minimum support %.4f", minSupport), models.ErrMining),
					"%d instances, minimum count %d", n, minCount,
				)
			}
			break
		}
		if len(rules) >= maxRules {
			break
		}
	}

	sortRules(rules)
	if len(rules) > maxRules {
		rules = rules[:maxRules]
	}

	m.logger.Debug("apriori finished",
		slog.String("relation", rel.Name),
		slog.Float64("support", usedSupport),
		slog.Int("levels", levelsTested),
		slog.Int("frequent_itemsets", numFrequent),
		slog.Int("rules", len(rules)),
	)
	return rules, nil
}

func supportCount(support float64, n int) int {
	count := int(math.Ceil(support*float64(n) - tolerance))
	if count < 1 {
		return 1
	}
	return count
}

// sortRules orders by confidence desc, support desc, then antecedent names.
func sortRules(rules []models.Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		a, b := rules[i], rules[j]
		if math.Abs(a.Confidence-b.Confidence) > tolerance {
			return a.Confidence > b.Confidence
		}
		if math.Abs(a.Support-b.Support) > tolerance {
			return a.Support > b.Support
		}
		if ka, kb := a.AntecedentKey(), b.AntecedentKey(); ka != kb {
			return ka < kb
		}
		return a.String() < b.String()
	})
}
