// Package filter drops association rules whose interestingness measures fall
// below a threshold.
package filter

import (
	"fmt"
	"math"

	"github.com/tecmides/tecmides/internal/models"
)

// Metric names a rule measure a ThresholdFilter compares against.
type Metric string

const (
	MetricLift       Metric = "lift"
	MetricConviction Metric = "conviction"
	MetricConfidence Metric = "confidence"
)

// DefaultMinLift and DefaultMinConviction are the thresholds applied by the
// default chain.
const (
	DefaultMinLift       = 1.1
	DefaultMinConviction = 1.1
)

// Value reads the metric from a rule.
func (m Metric) Value(r models.Rule) float64 {
	switch m {
	case MetricLift:
		return r.Lift
	case MetricConviction:
		return r.Conviction
	case MetricConfidence:
		return r.Confidence
	}
	return math.NaN()
}

// ThresholdFilter keeps rules whose Metric is at least Threshold.
type ThresholdFilter struct {
	Metric    Metric
	Threshold float64
}

// Filter returns the qualifying rules in their original order. The input
// slice is never modified.
func (f ThresholdFilter) Filter(rules []models.Rule) []models.Rule {
	out := make([]models.Rule, 0, len(rules))
	for _, r := range rules {
		// NaN never passes; +Inf always does.
		if f.Metric.Value(r) >= f.Threshold {
			out = append(out, r)
		}
	}
	return out
}

func (f ThresholdFilter) String() string {
	return fmt.Sprintf("%s>=%g", f.Metric, f.Threshold)
}

// FilterByMinLift keeps rules with lift >= threshold.
func FilterByMinLift(rules []models.Rule, threshold float64) []models.Rule {
	return ThresholdFilter{Metric: MetricLift, Threshold: threshold}.Filter(rules)
}

// FilterByMinConviction keeps rules with conviction >= threshold.
func FilterByMinConviction(rules []models.Rule, threshold float64) []models.Rule {
	return ThresholdFilter{Metric: MetricConviction, Threshold: threshold}.Filter(rules)
}

// RuleFilter is satisfied by anything that narrows a rule list.
type RuleFilter interface {
	Filter(rules []models.Rule) []models.Rule
}

// Chain applies filters left to right.
type Chain []RuleFilter

// Filter runs every filter in order. An empty chain returns a copy of rules.
func (c Chain) Filter(rules []models.Rule) []models.Rule {
	out := append([]models.Rule(nil), rules...)
	for _, f := range c {
		out = f.Filter(out)
	}
	if out == nil {
		out = []models.Rule{}
	}
	return out
}

// Default returns the conviction-then-lift chain with the given thresholds.
func Default(minConviction, minLift float64) Chain {
	return Chain{
		ThresholdFilter{Metric: MetricConviction, Threshold: minConviction},
		ThresholdFilter{Metric: MetricLift, Threshold: minLift},
	}
}
