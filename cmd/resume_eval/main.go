// Package main provides the resume_eval CLI: offline evaluation, rule checks and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_eval",
	Short: "Rule-based resume scoring",
	Long: `resume_eval scores PDF and DOCX resumes against declarative rule tables:
ATS compliance, keyword coverage, grammar, structure and skills, combined into
an overall score with ordered suggestions and suggested roles.`,
	SilenceUsage: true,
}

var (
	configPath string
	logLevel   string
	rulesPath  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a JSON or YAML rules file (defaults to the embedded rules)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
