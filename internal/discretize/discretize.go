// Package discretize turns numeric attributes into nominal ranges so that
// itemset mining and entropy-based selection can treat them as categories.
package discretize

import (
	"math"
	"strconv"

	"github.com/tecmides/tecmides/internal/models"
)

// DefaultBins is the number of ranges produced when none is configured.
const DefaultBins = 10

// EqualWidth splits every numeric attribute into Bins ranges of equal width
// over the observed minimum and maximum.
type EqualWidth struct {
	Bins int
}

// NewEqualWidth constructs a discretizer; non-positive bins fall back to DefaultBins.
func NewEqualWidth(bins int) *EqualWidth {
	if bins <= 0 {
		bins = DefaultBins
	}
	return &EqualWidth{Bins: bins}
}

// Apply returns a relation in which all numeric attributes are nominal. The
// input is not modified; it is returned as-is when it holds no numeric attribute.
func (d *EqualWidth) Apply(rel *models.Relation) *models.Relation {
	if !hasNumeric(rel) {
		return rel
	}

	bins := d.Bins
	if bins <= 0 {
		bins = DefaultBins
	}

	attrs := make([]models.Attribute, len(rel.Attributes))
	instances := make([]models.Instance, len(rel.Instances))
	for n, inst := range rel.Instances {
		instances[n] = append(models.Instance(nil), inst...)
	}

	for i, attr := range rel.Attributes {
		if attr.IsNominal() {
			attrs[i] = attr
			attrs[i].Values = append([]string(nil), attr.Values...)
			continue
		}
		cuts := cutPoints(rel.Instances, i, bins)
		attrs[i] = models.Attribute{Name: attr.Name, Kind: models.KindNominal, Values: labels(cuts)}
		for n := range instances {
			v := instances[n][i]
			if models.IsMissing(v) {
				continue
			}
			instances[n][i] = float64(binOf(v, cuts))
		}
	}

	out := models.NewRelation(rel.Name, attrs, instances)
	out.ClassIndex = rel.ClassIndex
	return out
}

func hasNumeric(rel *models.Relation) bool {
	for _, attr := range rel.Attributes {
		if !attr.IsNominal() {
			return true
		}
	}
	return false
}

// cutPoints returns the inner boundaries for column col; nil means a single bin.
// The range spans finite values only; infinities land in the outer bins.
func cutPoints(instances []models.Instance, col, bins int) []float64 {
	min, max := 0.0, 0.0
	seen := false
	for _, inst := range instances {
		v := inst[col]
		if models.IsMissing(v) || math.IsInf(v, 0) {
			continue
		}
		if !seen {
			min, max = v, v
			seen = true
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !seen || max == min {
		return nil
	}

	width := (max - min) / float64(bins)
	cuts := make([]float64, bins-1)
	for i := range cuts {
		cuts[i] = min + float64(i+1)*width
	}
	return cuts
}

func binOf(v float64, cuts []float64) int {
	for i, c := range cuts {
		if v <= c {
			return i
		}
	}
	return len(cuts)
}

func labels(cuts []float64) []string {
	if len(cuts) == 0 {
		return []string{"'All'"}
	}
	for _, precision := range []int{6, -1} {
		out := rangeLabels(cuts, precision)
		if distinct(out) {
			return out
		}
	}
	return rangeLabels(cuts, -1)
}

func rangeLabels(cuts []float64, precision int) []string {
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', precision, 64) }
	out := make([]string, 0, len(cuts)+1)
	out = append(out, "'(-inf-"+format(cuts[0])+"]'")
	for i := 1; i < len(cuts); i++ {
		out = append(out, "'("+format(cuts[i-1])+"-"+format(cuts[i])+"]'")
	}
	return append(out, "'("+format(cuts[len(cuts)-1])+"-inf)'")
}

func distinct(values []string) bool {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}
