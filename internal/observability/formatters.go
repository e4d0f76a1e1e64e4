// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a full score bar
	barWidth = 20
)

// Printer handles formatted report output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// pad right-pads s with spaces to n runes
func pad(s string, n int) string {
	if l := len([]rune(s)); l < n {
		return s + strings.Repeat(" ", n-l)
	}
	return s
}

// bar renders a 0-100 value as a fixed width bar
func bar(value float64) string {
	filled := int(value/100*barWidth + 0.5)
	filled = max(0, min(barWidth, filled))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// list writes up to limit items as bullets followed by a remainder line
func list(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
}

// PrintReport outputs every section of a report
func (p *Printer) PrintReport(report *types.ScoreReport) {
	if report == nil {
		return
	}
	p.PrintScoreSummary(report)
	p.PrintSuggestions(report.Suggestions)
	p.PrintRoles(report.SuggestedRoles)
	p.PrintGaps(report.Gaps)
	p.PrintImprovementPlan(report.Improvements)
	p.PrintActionVerbHints(report.ActionVerbHints)
	p.PrintExamplePhrases(report.ExamplePhrases)
}

// PrintScoreSummary outputs the overall score, its label and one bar per sub-score
func (p *Printer) PrintScoreSummary(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Overall:  %.2f / 100 (%s)\n", report.Overall, report.Label)
	if report.JDMatch > 0 {
		fmt.Fprintf(&sb, "JD match: %.2f%%\n", report.JDMatch)
	}
	sb.WriteString("\n")

	for _, s := range report.SubScores {
		fmt.Fprintf(&sb, "%-22s %s %6.2f\n", s.Name.DisplayName(), bar(s.Value), s.Value)
	}

	p.printBox("RESUME SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvidence outputs the evidence, matches and misses of every sub-score
func (p *Printer) PrintEvidence(report *types.ScoreReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for i, s := range report.SubScores {
		fmt.Fprintf(&sb, "%s (%.2f)\n", s.Name.DisplayName(), s.Value)
		list(&sb, s.Evidence, maxItemsToShow)
		if len(s.Matched) > 0 {
			fmt.Fprintf(&sb, "  matched: %s\n", strings.Join(s.Matched, ", "))
		}
		if len(s.Missing) > 0 {
			fmt.Fprintf(&sb, "  missing: %s\n", strings.Join(s.Missing, ", "))
		}
		if i < len(report.SubScores)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCORING EVIDENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSuggestions outputs the ordered suggestion list
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad("✅ NO SUGGESTIONS", boxWidth-4))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, s := range suggestions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoles outputs the suggested roles
func (p *Printer) PrintRoles(roles []string) {
	if len(roles) == 0 {
		return
	}
	var sb strings.Builder
	list(&sb, roles, maxItemsToShow)
	p.printBox("SUGGESTED ROLES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGaps outputs the sub-scores furthest from the target score
func (p *Printer) PrintGaps(gaps []types.ScoreGap) {
	if len(gaps) == 0 {
		return
	}

	var sb strings.Builder
	for _, g := range gaps {
		fmt.Fprintf(&sb, "%-22s %6.2f → %.0f  (gap %.2f, %s)\n", g.Category, g.CurrentScore, g.TargetScore, g.Gap, g.Priority)
	}
	p.printBox("SCORE GAPS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintImprovementPlan outputs each improvement category with its priority
func (p *Printer) PrintImprovementPlan(plan []types.ImprovementCategory) {
	if len(plan) == 0 {
		return
	}

	var sb strings.Builder
	for i, c := range plan {
		fmt.Fprintf(&sb, "[%s] %s\n", c.Priority, c.Category)
		list(&sb, c.Suggestions, 3)
		if i < len(plan)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("IMPROVEMENT PLAN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintActionVerbHints outputs unused action verbs per category
func (p *Printer) PrintActionVerbHints(hints []types.ActionVerbHint) {
	if len(hints) == 0 {
		return
	}

	var sb strings.Builder
	for _, h := range hints {
		fmt.Fprintf(&sb, "%s: %s\n", h.Category, strings.Join(h.Verbs, ", "))
	}
	p.printBox("ACTION VERB IDEAS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExamplePhrases outputs example bullet phrasing for the top suggested role
func (p *Printer) PrintExamplePhrases(phrases []string) {
	if len(phrases) == 0 {
		return
	}
	var sb strings.Builder
	list(&sb, phrases, maxItemsToShow)
	p.printBox("EXAMPLE PHRASES", strings.TrimSuffix(sb.String(), "\n"))
}
