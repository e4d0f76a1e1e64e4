package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-evaluator/internal/config"
	"github.com/jonathan/resume-evaluator/internal/evaluation"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/rules"
)

// loadConfig reads the config file and environment, then applies the global flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("rules") {
		cfg.RulesPath = rulesPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.Log)
	return cfg, nil
}

// newPipeline builds the evaluation pipeline described by cfg
func newPipeline(cfg *config.Config) (*evaluation.Pipeline, error) {
	r, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	return evaluation.NewPipeline(r, cfg.ScoringWeights(), evaluation.WithReportValidation(cfg.ValidateReports))
}
