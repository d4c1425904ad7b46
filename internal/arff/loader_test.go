package arff

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecmides/tecmides/internal/models"
)

const weatherARFF = `% weather sample
@relation weather

@attribute outlook {sunny, overcast, rainy}
@attribute temperature numeric
@attribute 'play tennis' {yes,no}

@data
sunny,85,no
overcast,83,yes
rainy,?,yes
'sunny',70,"yes"
`

func TestLoadDenseDataset(t *testing.T) {
	rel, err := Load(weatherARFF)
	require.NoError(t, err)

	assert.Equal(t, "weather", rel.Name)
	require.Equal(t, 3, rel.NumAttributes())
	assert.Equal(t, 4, rel.NumInstances())
	assert.Equal(t, -1, rel.ClassIndex)

	assert.Equal(t, models.KindNominal, rel.Attributes[0].Kind)
	assert.Equal(t, []string{"sunny", "overcast", "rainy"}, rel.Attributes[0].Values)
	assert.Equal(t, models.KindNumeric, rel.Attributes[1].Kind)
	assert.Equal(t, "play tennis", rel.Attributes[2].Name)
	assert.Equal(t, 2, rel.Attributes[2].Index)

	assert.Equal(t, 1.0, rel.Instances[1][0])
	assert.Equal(t, 83.0, rel.Instances[1][1])
	assert.True(t, models.IsMissing(rel.Instances[2][1]))
	assert.Equal(t, 0.0, rel.Instances[3][2])
}

func TestLoadSparseRows(t *testing.T) {
	text := `@RELATION basket
@ATTRIBUTE bread {f,t}
@ATTRIBUTE milk {f,t}
@ATTRIBUTE price NUMERIC
@DATA
{0 t, 2 3.5}
{1 t}
{}
`
	rel, err := Load(text)
	require.NoError(t, err)
	require.Equal(t, 3, rel.NumInstances())

	assert.Equal(t, models.Instance{1, 0, 3.5}, rel.Instances[0])
	assert.Equal(t, models.Instance{0, 1, 0}, rel.Instances[1])
	assert.Equal(t, models.Instance{0, 0, 0}, rel.Instances[2])
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty text",
			text:    "",
			wantErr: models.ErrParse,
			wantMsg: "missing @relation",
		},
		{
			name:    "missing data section",
			text:    "@relation r\n@attribute a {x,y}\n",
			wantErr: models.ErrParse,
			wantMsg: "missing @data",
		},
		{
			name:    "attribute before relation",
			text:    "@attribute a {x,y}\n@relation r\n@data\nx\n",
			wantErr: models.ErrParse,
			wantMsg: "before @relation",
		},
		{
			name:    "row arity",
			text:    "@relation r\n@attribute a {x,y}\n@attribute b {x,y}\n@data\nx,y\nx\n",
			wantErr: models.ErrParse,
			wantMsg: "line 6: expected 2 values, found 1",
		},
		{
			name:    "unknown kind",
			text:    "@relation r\n@attribute a blob\n@data\n",
			wantErr: models.ErrParse,
			wantMsg: "unknown attribute type",
		},
		{
			name:    "unsupported kind",
			text:    "@relation r\n@attribute a string\n@data\n",
			wantErr: models.ErrParse,
			wantMsg: "unsupported attribute type",
		},
		{
			name:    "value outside domain",
			text:    "@relation r\n@attribute a {x,y}\n@data\nz\n",
			wantErr: models.ErrParse,
			wantMsg: "not in domain",
		},
		{
			name:    "bad number",
			text:    "@relation r\n@attribute a numeric\n@data\nten\n",
			wantErr: models.ErrParse,
			wantMsg: "invalid numeric value",
		},
		{
			name:    "infinite number",
			text:    "@relation r\n@attribute x numeric\n@attribute y {a,b}\n@data\n1,a\n2,a\n3,b\nInf,b\n",
			wantErr: models.ErrParse,
			wantMsg: "non-finite numeric value",
		},
		{
			name:    "nan number",
			text:    "@relation r\n@attribute a numeric\n@data\nNaN\n",
			wantErr: models.ErrParse,
			wantMsg: "non-finite numeric value",
		},
		{
			name:    "duplicate attribute",
			text:    "@relation r\n@attribute a numeric\n@attribute a numeric\n@data\n",
			wantErr: models.ErrParse,
			wantMsg: "duplicate attribute",
		},
		{
			name:    "bad sparse index",
			text:    "@relation r\n@attribute a numeric\n@data\n{4 1}\n",
			wantErr: models.ErrParse,
			wantMsg: "invalid sparse index",
		},
		{
			name:    "no instances",
			text:    "@relation r\n@attribute a {x,y}\n@data\n% nothing here\n",
			wantErr: models.ErrEmptyDataset,
			wantMsg: "no instances",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rel, err := Load(tc.text)
			require.Error(t, err)
			assert.Nil(t, rel)
			assert.True(t, errors.Is(err, tc.wantErr), "unexpected error class: %v", err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestLoaderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader().Load(ctx, weatherARFF)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitValuesKeepsQuotedCommas(t *testing.T) {
	tokens, err := splitValues(`'a,b', "c\"d", ?, '?'`)
	require.NoError(t, err)
	require.Len(t, tokens, 4)

	assert.Equal(t, token{text: "a,b", quoted: true}, tokens[0])
	assert.Equal(t, token{text: `c"d`, quoted: true}, tokens[1])
	assert.Equal(t, token{text: "?"}, tokens[2])
	assert.Equal(t, token{text: "?", quoted: true}, tokens[3])

	_, err = splitValues(`'open`)
	assert.Error(t, err)
}

func TestParseLargeHeaderName(t *testing.T) {
	name := strings.Repeat("x", 100)
	rel, err := Load("@relation " + name + "\n@attribute a {t}\n@data\nt\n")
	require.NoError(t, err)
	assert.Equal(t, name, rel.Name)
}
