package main

import (
	"context"
	_ "embed"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/tecmides/tecmides/internal/utils"
	"github.com/tecmides/tecmides/pkg/client"
)

//go:embed weather.arff
var weatherARFF string

func main() {
	var (
		address     string
		classIndex  int
		numRules    int
		datasetPath string
	)
	flag.StringVar(&address, "address", "localhost:50051", "tecmides gRPC address")
	flag.IntVar(&classIndex, "class", 4, "Class attribute index for the relativity call")
	flag.IntVar(&numRules, "rules", 10, "Maximum rules per call")
	flag.StringVar(&datasetPath, "dataset", "", "ARFF file to send instead of the bundled weather data")
	flag.Parse()

	logger := utils.NewLogger("info", false)

	dataset := weatherARFF
	if datasetPath != "" {
		data, err := os.ReadFile(datasetPath)
		if err != nil {
			logger.Error("read dataset", slog.Any("error", err))
			os.Exit(1)
		}
		dataset = string(data)
	}

	c, err := client.Dial(address)
	if err != nil {
		logger.Error("dial", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	state, err := c.Health(ctx)
	if err != nil {
		logger.Error("health check failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server health", slog.String("status", state))

	req := client.Request{Dataset: dataset, MaxRules: numRules, MinSupport: 0.1, MinConfidence: 0.9}

	start := time.Now()
	plain, err := c.GenerateRules(ctx, req)
	if err != nil {
		logger.Error("GenerateRules failed", slog.Any("error", err))
		os.Exit(1)
	}
	logRules(logger, "GenerateRules", plain, time.Since(start))

	start = time.Now()
	relative, err := c.GenerateRulesByAttrRelativity(ctx, req, classIndex)
	if err != nil {
		logger.Error("GenerateRulesByAttrRelativity failed", slog.Any("error", err))
		os.Exit(1)
	}
	logRules(logger, "GenerateRulesByAttrRelativity", relative, time.Since(start))
}

func logRules(logger *slog.Logger, method string, rules []client.Rule, took time.Duration) {
	logger.Info(method, slog.Int("rules", len(rules)), slog.Duration("took", took))
	for _, r := range rules {
		logger.Info("rule",
			slog.String("rule", r.String()),
			slog.Float64("support", r.Support),
			slog.Float64("confidence", r.Confidence),
			slog.Float64("lift", r.Lift),
			slog.Float64("conviction", r.Conviction),
		)
	}
}
