package association

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/tecmides/tecmides/internal/models"
)

// frequentSet holds every frequent itemset found, grouped by size, plus a
// count index keyed by itemKey.
type frequentSet struct {
	levels [][]models.Itemset
	all    []models.Itemset
	counts map[string]int
}

// frequentItemsets runs the level-wise Apriori search at the given minimum count.
func frequentItemsets(ctx context.Context, rel *models.Relation, minCount int) (*frequentSet, error) {
	n := float64(rel.NumInstances())
	fs := &frequentSet{counts: make(map[string]int)}

	level := frequentSingletons(rel, minCount)
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := range level {
			level[i].Support = float64(level[i].Count) / n
			fs.counts[itemKey(level[i].Items)] = level[i].Count
		}
		fs.levels = append(fs.levels, level)
		fs.all = append(fs.all, level...)

		candidates := joinCandidates(level, fs.counts)
		level = countCandidates(rel, candidates, minCount)
	}
	return fs, nil
}

func frequentSingletons(rel *models.Relation, minCount int) []models.Itemset {
	var out []models.Itemset
	for a, attr := range rel.Attributes {
		counts := make([]int, len(attr.Values))
		for _, inst := range rel.Instances {
			v := inst[a]
			if models.IsMissing(v) {
				continue
			}
			counts[int(v)]++
		}
		for v, c := range counts {
			if c >= minCount {
				out = append(out, models.Itemset{Items: []models.Item{{Attribute: a, Value: v}}, Count: c})
			}
		}
	}
	return out
}

// joinCandidates builds (k+1)-itemsets from pairs of frequent k-itemsets that
// share their first k-1 items, dropping any candidate with an infrequent subset.
func joinCandidates(level []models.Itemset, counts map[string]int) [][]models.Item {
	var candidates [][]models.Item
	for i := 0; i < len(level); i++ {
		a := level[i].Items
		k := len(a)
		for j := i + 1; j < len(level); j++ {
			b := level[j].Items
			if !samePrefix(a, b, k-1) {
				break
			}
			lastA, lastB := a[k-1], b[k-1]
			if lastA.Attribute == lastB.Attribute {
				continue
			}
			candidate := make([]models.Item, 0, k+1)
			candidate = append(candidate, a...)
			candidate = append(candidate, lastB)
			if lastB.Attribute < lastA.Attribute {
				candidate[k-1], candidate[k] = lastB, lastA
			}
			if allSubsetsFrequent(candidate, counts) {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates
}

func samePrefix(a, b []models.Item, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func allSubsetsFrequent(candidate []models.Item, counts map[string]int) bool {
	if len(candidate) <= 2 {
		return true
	}
	subset := make([]models.Item, 0, len(candidate)-1)
	for skip := range candidate {
		subset = subset[:0]
		for i, item := range candidate {
			if i != skip {
				subset = append(subset, item)
			}
		}
		if _, ok := counts[itemKey(subset)]; !ok {
			return false
		}
	}
	return true
}

func countCandidates(rel *models.Relation, candidates [][]models.Item, minCount int) []models.Itemset {
	if len(candidates) == 0 {
		return nil
	}
	counts := make([]int, len(candidates))
	for _, inst := range rel.Instances {
		for c, items := range candidates {
			if covers(inst, items) {
				counts[c]++
			}
		}
	}

	var out []models.Itemset
	for c, items := range candidates {
		if counts[c] >= minCount {
			out = append(out, models.Itemset{Items: items, Count: counts[c]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessItems(out[i].Items, out[j].Items) })
	return out
}

func covers(inst models.Instance, items []models.Item) bool {
	for _, item := range items {
		v := inst[item.Attribute]
		if models.IsMissing(v) || int(v) != item.Value {
			return false
		}
	}
	return true
}

func lessItems(a, b []models.Item) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].Attribute != b[i].Attribute {
			return a[i].Attribute < b[i].Attribute
		}
		if a[i].Value != b[i].Value {
			return a[i].Value < b[i].Value
		}
	}
	return len(a) < len(b)
}

func itemKey(items []models.Item) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(item.Attribute))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(item.Value))
	}
	return b.String()
}

// deriveRules splits every frequent itemset of size >= 2 into all
// antecedent/consequent pairs and keeps those meeting minConfidence.
func deriveRules(rel *models.Relation, fs *frequentSet, minConfidence float64) []models.Rule {
	n := float64(rel.NumInstances())
	var rules []models.Rule
	for size := 1; size < len(fs.levels); size++ {
		for _, set := range fs.levels[size] {
			items := set.Items
			full := uint64(1)<<uint(len(items)) - 1
			for mask := uint64(1); mask < full; mask++ {
				ante, cons := split(items, mask)
				anteCount := fs.counts[itemKey(ante)]
				if anteCount == 0 {
					continue
				}
				confidence := float64(set.Count) / float64(anteCount)
				if confidence+tolerance < minConfidence {
					continue
				}
				consSupport := float64(fs.counts[itemKey(cons)]) / n
				rules = append(rules, models.Rule{
					Antecedent: conditions(rel, ante),
					Consequent: conditions(rel, cons),
					Support:    float64(set.Count) / n,
					Confidence: confidence,
					Lift:       models.Lift(confidence, consSupport),
					Conviction: models.Conviction(confidence, consSupport),
				})
			}
		}
	}
	return rules
}

func split(items []models.Item, mask uint64) ([]models.Item, []models.Item) {
	ante := make([]models.Item, 0, len(items))
	cons := make([]models.Item, 0, len(items))
	for i, item := range items {
		if mask&(1<<uint(i)) != 0 {
			ante = append(ante, item)
		} else {
			cons = append(cons, item)
		}
	}
	return ante, cons
}

func conditions(rel *models.Relation, items []models.Item) []models.Condition {
	out := make([]models.Condition, len(items))
	for i, item := range items {
		attr := rel.Attributes[item.Attribute]
		out[i] = models.Condition{Attribute: attr.Name, Value: attr.Label(float64(item.Value))}
	}
	return out
}
