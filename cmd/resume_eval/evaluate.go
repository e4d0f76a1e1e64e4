package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-evaluator/internal/extraction"
	"github.com/jonathan/resume-evaluator/internal/ingestion"
	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/jonathan/resume-evaluator/internal/observability"
	"github.com/jonathan/resume-evaluator/internal/types"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a resume file",
	Long: `Extracts the text of a PDF or DOCX resume, runs the five scorers and prints the
overall score, suggestions and suggested roles. An optional job description (file, text or posting URL) biases
keyword scoring and enables the job description match percentage.`,
	RunE: runEvaluate,
}

var (
	evaluateFile    string
	evaluateFormat  string
	evaluateJob     string
	evaluateJobText string
	evaluateJobURL  string
	evaluateOutput  string
	evaluateJSON    bool
	evaluateVerbose bool
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateFile, "file", "f", "", "Path to the resume file (.pdf or .docx) (required)")
	evaluateCmd.Flags().StringVar(&evaluateFormat, "format", "", "Document format, overriding the file extension (pdf, docx)")
	evaluateCmd.Flags().StringVarP(&evaluateJob, "job", "j", "", "Path to a job description text file")
	evaluateCmd.Flags().StringVar(&evaluateJobText, "job-text", "", "Job description text (mutually exclusive with --job)")
	evaluateCmd.Flags().StringVar(&evaluateJobURL, "job-url", "", "URL of a job posting to fetch as the job description")
	evaluateCmd.Flags().StringVarP(&evaluateOutput, "out", "o", "", "Path to write the ScoreReport JSON")
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "Print the ScoreReport JSON instead of the summary")
	evaluateCmd.Flags().BoolVarP(&evaluateVerbose, "verbose", "v", false, "Print scoring evidence and the full improvement plan")

	if err := evaluateCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}
	evaluateCmd.MarkFlagsMutuallyExclusive("job", "job-text", "job-url")

	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	format, err := documentFormat(evaluateFormat, evaluateFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(evaluateFile)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	ctx := logger.WithContext(context.Background())
	target, jobMeta, err := ingestion.NewLoader(nil).Load(ctx, ingestion.Source{
		Path: evaluateJob,
		Text: evaluateJobText,
		URL:  evaluateJobURL,
	})
	if err != nil {
		return err
	}

	report, err := pipeline.Evaluate(ctx, types.EvaluationRequest{
		Document:          types.Document{Name: evaluateFile, Format: format, Data: data},
		TargetDescription: target,
	})
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if evaluateOutput != "" {
		if err := os.WriteFile(evaluateOutput, reportJSON, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if evaluateJSON {
		_, _ = fmt.Fprintln(out, string(reportJSON))
		return nil
	}

	printer := observability.NewPrinter(out)
	if jobMeta != nil && jobMeta.URL != "" {
		_, _ = fmt.Fprintf(out, "Job description: %s (%s, %d chars)\n", jobMeta.URL, jobMeta.Platform, len(target))
	}
	if evaluateVerbose {
		printer.PrintEvidence(report)
		printer.PrintReport(report)
	} else {
		printer.PrintScoreSummary(report)
		printer.PrintSuggestions(report.Suggestions)
		printer.PrintRoles(report.SuggestedRoles)
	}
	if evaluateOutput != "" {
		_, _ = fmt.Fprintf(out, "Report written to %s\n", evaluateOutput)
	}
	return nil
}

// documentFormat prefers an explicit format over the file extension
func documentFormat(tag, path string) (types.Format, error) {
	if tag != "" {
		return extraction.ParseFormat(tag)
	}
	return extraction.FormatFromFilename(path)
}
