// Package selection narrows a relation to the attributes most relevant to a
// class attribute using correlation-based feature selection (CFS).
package selection

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tecmides/tecmides/internal/discretize"
	"github.com/tecmides/tecmides/internal/models"
)

const (
	// DefaultMaxStale is the number of non-improving expansions tolerated by the search.
	DefaultMaxStale = 5
	// DefaultMaxNodes bounds the number of subsets evaluated per selection.
	DefaultMaxNodes = 1000

	meritEpsilon = 1e-12
)

// CfsSelector ranks attribute subsets by CFS merit and returns the best one
// found by a bounded best-first forward search.
type CfsSelector struct {
	logger      *slog.Logger
	discretizer *discretize.EqualWidth
	maxStale    int
	maxNodes    int
}

// Option configures a CfsSelector.
type Option func(*CfsSelector)

// WithMaxStale sets how many consecutive non-improving expansions end the search.
func WithMaxStale(n int) Option { return func(s *CfsSelector) { s.maxStale = n } }

// WithMaxNodes caps the number of evaluated subsets.
func WithMaxNodes(n int) Option { return func(s *CfsSelector) { s.maxNodes = n } }

// WithBins sets the number of ranges used for numeric attributes.
func WithBins(n int) Option {
	return func(s *CfsSelector) { s.discretizer = discretize.NewEqualWidth(n) }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return func(s *CfsSelector) { s.logger = logger } }

// NewCfsSelector constructs a selector with Weka-like defaults.
func NewCfsSelector(opts ...Option) *CfsSelector {
	s := &CfsSelector{
		discretizer: discretize.NewEqualWidth(discretize.DefaultBins),
		maxStale:    DefaultMaxStale,
		maxNodes:    DefaultMaxNodes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.maxStale <= 0 {
		s.maxStale = DefaultMaxStale
	}
	if s.maxNodes <= 0 {
		s.maxNodes = DefaultMaxNodes
	}
	return s
}

// Select returns rel restricted to the selected attributes plus the class
// attribute, in their original order, with the class index set.
func (s *CfsSelector) Select(ctx context.Context, rel *models.Relation, classIndex int) (*models.Relation, error) {
	if rel == nil {
		return nil, errors.Mark(errors.New("relation is nil"), models.ErrEmptyDataset)
	}
	if classIndex < 0 || classIndex >= rel.NumAttributes() {
		return nil, errors.Mark(
			errors.Newf("class index %d outside [0, %d)", classIndex, rel.NumAttributes()),
			models.ErrInvalidClassIndex,
		)
	}

	eval := newEvaluator(s.discretizer.Apply(rel), classIndex)
	selected, merit, evaluated, err := s.search(ctx, eval)
	if err != nil {
		return nil, err
	}

	indices := append(append([]int(nil), selected...), classIndex)
	sort.Ints(indices)
	out := rel.Project(indices)
	for i, idx := range indices {
		if idx == classIndex {
			out.ClassIndex = i
		}
	}

	s.logger.Debug("attribute selection finished",
		slog.String("class", rel.Attributes[classIndex].Name),
		slog.String("selected", attributeNames(rel, selected)),
		slog.Float64("merit", merit),
		slog.Int("evaluated", evaluated),
	)
	return out, nil
}

type searchNode struct {
	subset []int
	merit  float64
	seq    int
}

func (s *CfsSelector) search(ctx context.Context, eval *evaluator) ([]int, float64, int, error) {
	var (
		open      = []searchNode{{}}
		visited   = map[string]struct{}{"": {}}
		best      searchNode
		seq       = 1
		evaluated = 0
		stale     = 0
	)

	for len(open) > 0 && stale < s.maxStale && evaluated < s.maxNodes {
		if err := ctx.Err(); err != nil {
			return nil, 0, evaluated, err
		}
		var current searchNode
		current, open = popBest(open)

		improved := false
		for f := 0; f < eval.numAttributes() && evaluated < s.maxNodes; f++ {
			if f == eval.class || contains(current.subset, f) {
				continue
			}
			child := withAttribute(current.subset, f)
			key := subsetKey(child)
			if _, ok := visited[key]; ok {
				continue
			}
			visited[key] = struct{}{}

			node := searchNode{subset: child, merit: eval.merit(child), seq: seq}
			seq++
			evaluated++
			open = append(open, node)
			if node.merit > best.merit+meritEpsilon {
				best = node
				improved = true
			}
		}
		if improved {
			stale = 0
		} else {
			stale++
		}
	}
	return best.subset, best.merit, evaluated, nil
}

// popBest removes the node with the highest merit; ties go to the oldest node.
func popBest(open []searchNode) (searchNode, []searchNode) {
	bestIdx := 0
	for i := 1; i < len(open); i++ {
		if open[i].merit > open[bestIdx].merit+meritEpsilon ||
			(math.Abs(open[i].merit-open[bestIdx].merit) <= meritEpsilon && open[i].seq < open[bestIdx].seq) {
			bestIdx = i
		}
	}
	node := open[bestIdx]
	open = append(open[:bestIdx], open[bestIdx+1:]...)
	return node, open
}

func withAttribute(subset []int, f int) []int {
	out := make([]int, 0, len(subset)+1)
	out = append(out, subset...)
	out = append(out, f)
	sort.Ints(out)
	return out
}

func contains(subset []int, f int) bool {
	for _, v := range subset {
		if v == f {
			return true
		}
	}
	return false
}

func subsetKey(subset []int) string {
	parts := make([]string, len(subset))
	for i, v := range subset {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func attributeNames(rel *models.Relation, indices []int) string {
	names := make([]string, len(indices))
	for i, idx := range indices {
		names[i] = rel.Attributes[idx].Name
	}
	return strings.Join(names, ",")
}

// evaluator computes CFS merit with cached pairwise correlations.
type evaluator struct {
	rel       *models.Relation
	class     int
	classCorr []float64
	pairCorr  [][]float64
}

func newEvaluator(rel *models.Relation, class int) *evaluator {
	n := rel.NumAttributes()
	e := &evaluator{
		rel:       rel,
		class:     class,
		classCorr: make([]float64, n),
		pairCorr:  make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		e.pairCorr[i] = make([]float64, n)
		for j := range e.pairCorr[i] {
			e.pairCorr[i][j] = math.NaN()
		}
		if i != class {
			e.classCorr[i] = symmetricUncertainty(rel, i, class)
		}
	}
	return e
}

func (e *evaluator) numAttributes() int {
	return e.rel.NumAttributes()
}

// merit is k*mean(r_cf) / sqrt(k + k(k-1)*mean(r_ff)).
func (e *evaluator) merit(subset []int) float64 {
	if len(subset) == 0 {
		return 0
	}
	num := 0.0
	for _, f := range subset {
		num += e.classCorr[f]
	}
	den := float64(len(subset))
	for i := 0; i < len(subset); i++ {
		for j := i + 1; j < len(subset); j++ {
			den += 2 * e.correlation(subset[i], subset[j])
		}
	}
	if den <= 0 {
		return 0
	}
	return num / math.Sqrt(den)
}

func (e *evaluator) correlation(a, b int) float64 {
	if v := e.pairCorr[a][b]; !math.IsNaN(v) {
		return v
	}
	v := symmetricUncertainty(e.rel, a, b)
	e.pairCorr[a][b] = v
	e.pairCorr[b][a] = v
	return v
}
