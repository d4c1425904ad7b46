package selection

import (
	"math"

	"github.com/tecmides/tecmides/internal/models"
)

// symmetricUncertainty measures the correlation of two nominal columns as
// 2*(H(X)+H(Y)-H(X,Y)) / (H(X)+H(Y)), using instances where both are present.
func symmetricUncertainty(rel *models.Relation, a, b int) float64 {
	ax, bx := rel.Attributes[a], rel.Attributes[b]
	na, nb := len(ax.Values), len(bx.Values)
	if na == 0 || nb == 0 {
		return 0
	}

	joint := make([]int, na*nb)
	rowTotals := make([]int, na)
	colTotals := make([]int, nb)
	total := 0
	for _, inst := range rel.Instances {
		va, vb := inst[a], inst[b]
		if models.IsMissing(va) || models.IsMissing(vb) {
			continue
		}
		i, j := int(va), int(vb)
		joint[i*nb+j]++
		rowTotals[i]++
		colTotals[j]++
		total++
	}
	if total == 0 {
		return 0
	}

	hx := entropyFromCounts(rowTotals, total)
	hy := entropyFromCounts(colTotals, total)
	denom := hx + hy
	if denom == 0 {
		return 0
	}
	hxy := entropyFromCounts(joint, total)
	su := 2 * (hx + hy - hxy) / denom
	if su < 0 {
		return 0
	}
	return su
}

func entropyFromCounts(counts []int, total int) float64 {
	n := float64(total)
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		h -= p * math.Log2(p)
	}
	return h
}
