package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
)

var validateRulesCmd = &cobra.Command{
	Use:   "validate-rules",
	Short: "Validate a rules file",
	Long:  "Checks a JSON or YAML rules file against the rules schema and the cross-table constraints, then verifies that a pipeline can be built from it.",
	RunE:  runValidateRules,
}

var validateRulesFile string

func init() {
	validateRulesCmd.Flags().StringVarP(&validateRulesFile, "file", "f", "", "Path to the rules file (defaults to --rules, then the embedded rules)")
	rootCmd.AddCommand(validateRulesCmd)
}

func runValidateRules(cmd *cobra.Command, _ []string) error {
	path := validateRulesFile
	if path == "" {
		path = rulesPath
	}

	r, err := rules.Load(path)
	if err != nil {
		var rulesErr *rules.RulesError
		if errors.As(err, &rulesErr) {
			return fmt.Errorf("validation failed: %w", err)
		}
		return fmt.Errorf("failed to load rules: %w", err)
	}
	if _, err := scoring.NewScorers(r); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded rules"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Validation passed: %s (%d keywords, %d skills, %d roles)\n",
		source, len(r.KeywordUniverse()), len(r.Skills.Vocabulary), len(r.Roles))
	return nil
}
