package discretize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecmides/tecmides/internal/models"
)

func numericRelation(values ...float64) *models.Relation {
	instances := make([]models.Instance, len(values))
	for i, v := range values {
		instances[i] = models.Instance{v, float64(i % 2)}
	}
	rel := models.NewRelation("r", []models.Attribute{
		{Name: "x", Kind: models.KindNumeric},
		{Name: "flag", Kind: models.KindNominal, Values: []string{"no", "yes"}},
	}, instances)
	rel.ClassIndex = 1
	return rel
}

func TestEqualWidthBinsNumericAttributes(t *testing.T) {
	rel := numericRelation(0, 2.5, 5, 7.5, 10, models.Missing)

	out := NewEqualWidth(4).Apply(rel)

	require.NotSame(t, rel, out)
	x := out.Attributes[0]
	assert.Equal(t, models.KindNominal, x.Kind)
	assert.Equal(t, []string{"'(-inf-2.5]'", "'(2.5-5]'", "'(5-7.5]'", "'(7.5-inf)'"}, x.Values)

	got := make([]float64, 0, 5)
	for _, inst := range out.Instances[:5] {
		got = append(got, inst[0])
	}
	assert.Equal(t, []float64{0, 0, 1, 2, 3}, got)
	assert.True(t, models.IsMissing(out.Instances[5][0]))

	assert.Equal(t, 1, out.ClassIndex)
	assert.Equal(t, []string{"no", "yes"}, out.Attributes[1].Values)
	assert.Equal(t, models.KindNumeric, rel.Attributes[0].Kind, "input must not be modified")
	assert.Equal(t, 7.5, rel.Instances[3][0])
}

func TestEqualWidthConstantColumn(t *testing.T) {
	out := NewEqualWidth(3).Apply(numericRelation(4, 4, 4))

	assert.Equal(t, []string{"'All'"}, out.Attributes[0].Values)
	for _, inst := range out.Instances {
		assert.Equal(t, 0.0, inst[0])
	}
}

func TestEqualWidthIgnoresInfinitiesForRange(t *testing.T) {
	out := NewEqualWidth(3).Apply(numericRelation(1, 2, 3, math.Inf(1), math.Inf(-1)))

	x := out.Attributes[0]
	assert.Equal(t, []string{"'(-inf-1.66667]'", "'(1.66667-2.33333]'", "'(2.33333-inf)'"}, x.Values)

	got := make([]float64, 0, 5)
	for _, inst := range out.Instances {
		got = append(got, inst[0])
	}
	assert.Equal(t, []float64{0, 1, 2, 2, 0}, got)
}

func TestEqualWidthNominalOnlyIsPassthrough(t *testing.T) {
	rel := models.NewRelation("r", []models.Attribute{
		{Name: "a", Kind: models.KindNominal, Values: []string{"t"}},
	}, []models.Instance{{0}})

	assert.Same(t, rel, NewEqualWidth(0).Apply(rel))
}

func TestNewEqualWidthDefaults(t *testing.T) {
	assert.Equal(t, DefaultBins, NewEqualWidth(-1).Bins)
}
