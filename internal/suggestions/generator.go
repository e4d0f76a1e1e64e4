// Package suggestions turns sub-score evidence into actionable advice, role recommendations
// and the detailed improvement plan of a report.
package suggestions

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Result holds everything the generator derives from one set of sub-scores
type Result struct {
	Suggestions     []string
	SuggestedRoles  []string
	Improvements    []types.ImprovementCategory
	Gaps            []types.ScoreGap
	ActionVerbHints []types.ActionVerbHint
	ExamplePhrases  []string
}

// Generator maps evidence to suggestions using the rule tables it was built with.
// It keeps no state between calls.
type Generator struct {
	rules *rules.Rules
}

// NewGenerator creates a suggestion generator over r
func NewGenerator(r *rules.Rules) *Generator {
	return &Generator{rules: r}
}

// Generate derives every suggestion output. text may be nil; it is only used for action verb hints.
func (g *Generator) Generate(subScores []types.SubScore, text *types.ExtractedText, target string) Result {
	roles := g.Roles(subScores)

	resumeText := ""
	if text != nil {
		resumeText = text.Text
	}

	return Result{
		Suggestions:     g.Suggestions(subScores),
		SuggestedRoles:  roles,
		Improvements:    g.Improvements(subScores, strings.TrimSpace(target) != ""),
		Gaps:            g.Gaps(subScores),
		ActionVerbHints: g.ActionVerbHints(resumeText),
		ExamplePhrases:  g.ExamplePhrases(roles[0]),
	}
}

// Suggestions returns the ordered, duplicate-free suggestion list.
// Sub-scores are visited from lowest to highest value, ties in scorer order. A sub-score below
// its threshold contributes its evidence-driven messages followed by its general messages.
func (g *Generator) Suggestions(subScores []types.SubScore) []string {
	out := make([]string, 0)

	for _, s := range subScores {
		if isInsufficient(s) {
			out = append(out, g.rules.Suggestions.Templates.InsufficientText)
			break
		}
	}

	for _, s := range ascending(subScores) {
		if s.Value >= g.rules.Suggestions.Thresholds.For(string(s.Name)) {
			continue
		}
		if !isInsufficient(s) {
			out = append(out, g.evidenceMessages(s)...)
		}
		out = append(out, g.rules.Suggestions.Messages.For(string(s.Name))...)
	}

	return dedupe(out)
}

func (g *Generator) evidenceMessages(s types.SubScore) []string {
	tpl := g.rules.Suggestions.Templates
	var out []string

	switch s.Name {
	case types.ScorerATS:
		for _, missing := range s.Missing {
			switch missing {
			case scoring.MissingContact:
				out = append(out, tpl.MissingContact)
			case scoring.MissingActionBullets:
				out = append(out, tpl.WeakBullets)
			default:
				out = append(out, rules.Render(tpl.MissingSection, map[string]string{"Section": sectionTitle(missing)}))
			}
		}

	case types.ScorerKeywords:
		if len(s.Missing) > 0 {
			missing := s.Missing
			if len(missing) > g.rules.Suggestions.MaxMissingKeywords {
				missing = missing[:g.rules.Suggestions.MaxMissingKeywords]
			}
			out = append(out, rules.Render(tpl.MissingKeywords, map[string]string{"Keywords": strings.Join(missing, ", ")}))
		}

	case types.ScorerGrammar:
		if len(s.Evidence) > 0 {
			out = append(out, tpl.GrammarIssues)
		}

	case types.ScorerStructure:
		for _, missing := range s.Missing {
			out = append(out, rules.Render(tpl.MissingSection, map[string]string{"Section": sectionTitle(missing)}))
		}
		for _, e := range s.Evidence {
			switch {
			case strings.HasPrefix(e, scoring.EvidenceNoBullets):
				out = append(out, tpl.NoBullets)
			case strings.HasPrefix(e, scoring.EvidenceLowBulletDensity):
				out = append(out, tpl.LowBulletDensity)
			case strings.HasPrefix(e, scoring.EvidenceWordCount):
				band := g.rules.Structure.IdealWords
				out = append(out, rules.Render(tpl.WordCount, map[string]string{
					"Min": strconv.Itoa(band.Min),
					"Max": strconv.Itoa(band.Max),
				}))
			}
		}
	}

	return out
}

// ascending returns a copy of subScores sorted by value, ties in fixed scorer order
func ascending(subScores []types.SubScore) []types.SubScore {
	sorted := make([]types.SubScore, len(subScores))
	copy(sorted, subScores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Value != sorted[j].Value {
			return sorted[i].Value < sorted[j].Value
		}
		return scorerIndex(sorted[i].Name) < scorerIndex(sorted[j].Name)
	})
	return sorted
}

func scorerIndex(name types.ScorerName) int {
	for i, n := range types.ScorerNames {
		if n == name {
			return i
		}
	}
	return len(types.ScorerNames)
}

func isInsufficient(s types.SubScore) bool {
	return len(s.Evidence) == 1 && s.Evidence[0] == scoring.EvidenceInsufficientText
}

// sectionTitle capitalizes each word of a canonical section name
func sectionTitle(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
