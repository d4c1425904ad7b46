package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tecmides/tecmides/internal/config"
	"github.com/tecmides/tecmides/internal/engine"
	"github.com/tecmides/tecmides/internal/models"
	"github.com/tecmides/tecmides/internal/utils"
	"github.com/tecmides/tecmides/pkg/client"
)

type mineOptions struct {
	classIndex    int
	numRules      int
	minSupport    float64
	minConfidence float64
	remote        string
	strict        bool
	timeout       time.Duration
}

func newMineCommand(configPath *string) *cobra.Command {
	opts := mineOptions{}

	cmd := &cobra.Command{
		Use:   "mine <file.arff>",
		Short: "Mine association rules from an ARFF file",
		Long: "Mine association rules from an ARFF file, locally or against a running server.\n" +
			"With --class the attributes are first narrowed by correlation with that class attribute.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read dataset: %w", err)
			}
			rules, err := runMine(cmd.Context(), *configPath, string(data), opts, cmd.Flags().Changed("class"))
			if err != nil {
				pterm.Error.Println(err.Error())
				return err
			}
			return renderRules(cmd.OutOrStdout(), rules)
		},
	}

	cmd.Flags().IntVar(&opts.classIndex, "class", -1, "Class attribute index; enables attribute selection")
	cmd.Flags().IntVar(&opts.numRules, "rules", 10, "Maximum number of rules")
	cmd.Flags().Float64Var(&opts.minSupport, "support", 0.1, "Minimum support in (0,1]")
	cmd.Flags().Float64Var(&opts.minConfidence, "confidence", 0.9, "Minimum confidence in (0,1]")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "Address of a tecmides server; mines locally when empty")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Report pipeline errors instead of returning no rules (local mining only)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "Overall deadline")
	return cmd
}

func runMine(ctx context.Context, configPath, dataset string, opts mineOptions, relativity bool) ([]models.Rule, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	req := models.MiningRequest{
		Dataset:       dataset,
		MaxRules:      opts.numRules,
		MinSupport:    opts.minSupport,
		MinConfidence: opts.minConfidence,
	}

	if opts.remote != "" {
		if opts.strict {
			return nil, errors.New("--strict cannot be combined with --remote; the server's error policy applies")
		}
		return mineRemote(ctx, opts.remote, req, opts.classIndex, relativity)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if opts.strict {
		cfg.Mining.ErrorPolicy = engine.PolicyStrict.String()
	}
	logger := utils.NewLoggerTo(os.Stderr, cfg.Logging.Level, cfg.Logging.JSON)
	pipeline, err := buildPipeline(cfg, logger)
	if err != nil {
		return nil, err
	}
	if relativity {
		return pipeline.GenerateRulesByAttrRelativity(ctx, req, opts.classIndex)
	}
	return pipeline.GenerateRules(ctx, req)
}

func mineRemote(ctx context.Context, address string, req models.MiningRequest, classIndex int, relativity bool) ([]models.Rule, error) {
	c, err := client.Dial(address)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	remoteReq := client.Request{
		RequestID:     req.RequestID,
		Dataset:       req.Dataset,
		MaxRules:      req.MaxRules,
		MinSupport:    req.MinSupport,
		MinConfidence: req.MinConfidence,
	}
	var rules []client.Rule
	if relativity {
		rules, err = c.GenerateRulesByAttrRelativity(ctx, remoteReq, classIndex)
	} else {
		rules, err = c.GenerateRules(ctx, remoteReq)
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, models.Rule{
			Antecedent: fromClientConditions(r.Antecedent),
			Consequent: fromClientConditions(r.Consequent),
			Support:    r.Support,
			Confidence: r.Confidence,
			Lift:       r.Lift,
			Conviction: r.Conviction,
		})
	}
	return out, nil
}

func fromClientConditions(conds []client.Condition) []models.Condition {
	out := make([]models.Condition, len(conds))
	for i, c := range conds {
		out[i] = models.Condition{Attribute: c.Attribute, Value: c.Value}
	}
	return out
}

func renderRules(w io.Writer, rules []models.Rule) error {
	if len(rules) == 0 {
		pterm.Warning.WithWriter(w).Println("no rules passed the thresholds")
		return nil
	}

	data := pterm.TableData{{"#", "Antecedent", "Consequent", "Support", "Confidence", "Lift", "Conviction"}}
	for i, r := range rules {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			joinConditions(r.Antecedent),
			joinConditions(r.Consequent),
			formatMeasure(r.Support),
			formatMeasure(r.Confidence),
			formatMeasure(r.Lift),
			formatMeasure(r.Conviction),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}

func joinConditions(conds []models.Condition) string {
	parts := make([]string, len(conds))
	for i, c := range conds {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

func formatMeasure(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsNaN(v):
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}
