package main

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecmides/tecmides/internal/api"
	"github.com/tecmides/tecmides/internal/config"
	"github.com/tecmides/tecmides/internal/engine"
	"github.com/tecmides/tecmides/internal/models"
	"github.com/tecmides/tecmides/internal/services"
)

const contactLensesARFF = `@relation contact-lenses
@attribute age {young,pre-presbyopic,presbyopic}
@attribute astigmatism {no,yes}
@attribute tear-prod-rate {reduced,normal}
@attribute contact-lenses {soft,hard,none}
@data
young,no,reduced,none
young,no,normal,soft
young,yes,reduced,none
young,yes,normal,hard
pre-presbyopic,no,reduced,none
pre-presbyopic,no,normal,soft
pre-presbyopic,yes,reduced,none
pre-presbyopic,yes,normal,hard
presbyopic,no,reduced,none
presbyopic,no,normal,none
presbyopic,yes,reduced,none
presbyopic,yes,normal,hard
`

func defaultMineOptions() mineOptions {
	return mineOptions{numRules: 10, minSupport: 0.1, minConfidence: 0.9, timeout: time.Minute}
}

func TestRunMineLocal(t *testing.T) {
	t.Setenv("TECMIDES_CONFIG", "")

	rules, err := runMine(context.Background(), "", contactLensesARFF, defaultMineOptions(), false)
	require.NoError(t, err)
	require.NotEmpty(t, rules)

	found := false
	for _, r := range rules {
		if r.String() == "tear-prod-rate=reduced ==> contact-lenses=none" {
			found = true
			assert.Equal(t, 1.0, r.Confidence)
			assert.True(t, r.ConvictionInfinite())
		}
	}
	assert.True(t, found, "rules: %v", rules)
}

func TestRunMineStrictReportsErrors(t *testing.T) {
	t.Setenv("TECMIDES_CONFIG", "")

	opts := defaultMineOptions()
	opts.strict = true
	opts.classIndex = 9
	_, err := runMine(context.Background(), "", contactLensesARFF, opts, true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidClassIndex))

	opts.strict = false
	rules, err := runMine(context.Background(), "", contactLensesARFF, opts, true)
	require.NoError(t, err)
	assert.Empty(t, rules)
}

func TestRunMineRejectsStrictWithRemote(t *testing.T) {
	opts := defaultMineOptions()
	opts.strict = true
	opts.remote = "127.0.0.1:1"

	_, err := runMine(context.Background(), "", contactLensesARFF, opts, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--remote")
}

func TestRunMineRemote(t *testing.T) {
	pipeline := engine.NewPipeline(nil, nil, nil, nil, nil, engine.WithPolicy(engine.PolicyStrict))
	server, err := api.NewServer(config.ServerConfig{Address: "127.0.0.1:0"}, services.NewRuleService(nil, pipeline))
	require.NoError(t, err)
	go func() { _ = server.Start() }()
	t.Cleanup(func() { server.Shutdown(context.Background()) })

	opts := defaultMineOptions()
	opts.remote = server.Address()
	rules, err := runMine(context.Background(), "", contactLensesARFF, opts, false)
	require.NoError(t, err)

	found := false
	for _, r := range rules {
		if r.String() == "tear-prod-rate=reduced ==> contact-lenses=none" {
			found = true
			assert.True(t, r.ConvictionInfinite())
		}
	}
	assert.True(t, found, "rules: %v", rules)
}

func TestMineCommandRendersTable(t *testing.T) {
	t.Setenv("TECMIDES_CONFIG", "")
	path := filepath.Join(t.TempDir(), "lenses.arff")
	require.NoError(t, os.WriteFile(path, []byte(contactLensesARFF), 0o600))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"mine", path, "--rules", "5", "--class", "3"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Antecedent")
	assert.Contains(t, out.String(), "contact-lenses=")
}

func TestFormatMeasure(t *testing.T) {
	assert.Equal(t, "inf", formatMeasure(math.Inf(1)))
	assert.Equal(t, "-", formatMeasure(math.NaN()))
	assert.Equal(t, "1.250", formatMeasure(1.25))
}
