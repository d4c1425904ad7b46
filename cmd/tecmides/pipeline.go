package main

import (
	"log/slog"

	"github.com/tecmides/tecmides/internal/arff"
	"github.com/tecmides/tecmides/internal/association"
	"github.com/tecmides/tecmides/internal/config"
	"github.com/tecmides/tecmides/internal/engine"
	"github.com/tecmides/tecmides/internal/filter"
	"github.com/tecmides/tecmides/internal/selection"
)

// buildPipeline wires the mining strategies from configuration.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*engine.Pipeline, error) {
	policy, err := engine.ParseErrorPolicy(cfg.Mining.ErrorPolicy)
	if err != nil {
		return nil, err
	}

	selector := selection.NewCfsSelector(
		selection.WithLogger(logger),
		selection.WithBins(cfg.Mining.DiscretizeBins),
		selection.WithMaxStale(cfg.Selection.MaxStale),
		selection.WithMaxNodes(cfg.Selection.MaxNodes),
	)
	miner := association.NewAprioriMiner(logger, association.Config{
		UpperBoundSupport: cfg.Mining.UpperBoundSupport,
		Delta:             cfg.Mining.Delta,
		Bins:              cfg.Mining.DiscretizeBins,
	})
	rules := filter.Default(cfg.Mining.MinConviction, cfg.Mining.MinLift)

	return engine.NewPipeline(logger, arff.NewLoader(), selector, miner, rules, engine.WithPolicy(policy)), nil
}
