package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the role table used for role suggestions",
	RunE:  runRoles,
}

func init() {
	rootCmd.AddCommand(rolesCmd)
}

func runRoles(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	r := pipeline.Rules()
	out := cmd.OutOrStdout()
	for _, role := range r.Roles {
		_, _ = fmt.Fprintf(out, "%-22s %s\n", role.Name, strings.Join(role.Keywords, ", "))
	}
	_, _ = fmt.Fprintf(out, "\nFallback: %s (top %d roles are suggested)\n", r.FallbackRole, r.MaxSuggestedRoles)
	return nil
}
