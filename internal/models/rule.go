package models

import (
	"math"
	"strconv"
	"strings"
)

// Item is a single attribute=value test. Value is the nominal domain index.
type Item struct {
	Attribute int
	Value     int
}

// Itemset is a set of items ordered by attribute position.
type Itemset struct {
	Items   []Item
	Count   int
	Support float64
}

// Condition is the display form of an Item inside a rule.
type Condition struct {
	Attribute string
	Value     string
}

func (c Condition) String() string {
	return c.Attribute + "=" + c.Value
}

// Rule is an association rule with its quality measures.
type Rule struct {
	Antecedent []Condition
	Consequent []Condition
	Support    float64
	Confidence float64
	Lift       float64
	Conviction float64
}

// String renders the rule as "a=x b=y ==> c=z".
func (r Rule) String() string {
	return joinConditions(r.Antecedent) + " ==> " + joinConditions(r.Consequent)
}

// ConvictionInfinite reports whether the rule has confidence 1.
func (r Rule) ConvictionInfinite() bool {
	return math.IsInf(r.Conviction, 1)
}

// AntecedentKey joins the antecedent attribute names; used for deterministic ordering.
func (r Rule) AntecedentKey() string {
	names := make([]string, len(r.Antecedent))
	for i, c := range r.Antecedent {
		names[i] = c.Attribute
	}
	return strings.Join(names, ",")
}

// Lift computes confidence / consequent support.
func Lift(confidence, consequentSupport float64) float64 {
	if consequentSupport <= 0 {
		return 0
	}
	return confidence / consequentSupport
}

// Conviction computes (1 - consequent support) / (1 - confidence), +Inf at confidence 1.
func Conviction(confidence, consequentSupport float64) float64 {
	if confidence >= 1 {
		return math.Inf(1)
	}
	return (1 - consequentSupport) / (1 - confidence)
}

func joinConditions(conds []Condition) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
