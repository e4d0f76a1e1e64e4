package suggestions

import (
	"math"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/scoring"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Improvements returns the improvement categories whose trigger applies, in rule order
func (g *Generator) Improvements(subScores []types.SubScore, hasTarget bool) []types.ImprovementCategory {
	out := make([]types.ImprovementCategory, 0, len(g.rules.Improvements))

	for _, rule := range g.rules.Improvements {
		if !triggered(rule, subScores, hasTarget) {
			continue
		}
		out = append(out, types.ImprovementCategory{
			Category:    rule.Category,
			Priority:    types.Priority(rule.Priority),
			Suggestions: append([]string{}, rule.Suggestions...),
		})
	}
	return out
}

func triggered(rule rules.ImprovementRule, subScores []types.SubScore, hasTarget bool) bool {
	switch rule.When {
	case rules.TriggerAlways:
		return true
	case rules.TriggerTarget:
		return hasTarget
	case rules.TriggerBelow:
		for _, s := range subScores {
			if string(s.Name) == rule.Scorer {
				return s.Value < rule.Below
			}
		}
	}
	return false
}

// Gaps lists the sub-scores below the target score, lowest first
func (g *Generator) Gaps(subScores []types.SubScore) []types.ScoreGap {
	target := g.rules.Gaps.Target
	out := make([]types.ScoreGap, 0)

	for _, s := range ascending(subScores) {
		if s.Value >= target {
			continue
		}
		gap := round2(target - s.Value)
		priority := types.PriorityMedium
		if gap > g.rules.Gaps.HighPriorityGap {
			priority = types.PriorityHigh
		}
		out = append(out, types.ScoreGap{
			Category:     s.Name.DisplayName(),
			CurrentScore: s.Value,
			TargetScore:  target,
			Gap:          gap,
			Priority:     priority,
		})
	}
	return out
}

// ActionVerbHints suggests unused verbs for each verb category the resume barely uses
func (g *Generator) ActionVerbHints(text string) []types.ActionVerbHint {
	used := make(map[string]bool)
	for _, tok := range scoring.Tokenize(text) {
		used[tok] = true
	}

	out := make([]types.ActionVerbHint, 0)
	for _, category := range g.rules.ActionVerbCategories {
		found := 0
		unused := make([]string, 0, g.rules.VerbHints.MaxHints)
		for _, verb := range category.Verbs {
			if used[verb] {
				found++
				continue
			}
			if len(unused) < g.rules.VerbHints.MaxHints {
				unused = append(unused, verb)
			}
		}
		if found < g.rules.VerbHints.MinUsed && len(unused) > 0 {
			out = append(out, types.ActionVerbHint{Category: category.Name, Verbs: unused})
		}
	}
	return out
}

// ExamplePhrases returns example resume phrases for role, or the generic ones
func (g *Generator) ExamplePhrases(role string) []string {
	return append([]string{}, g.rules.PhrasesFor(role)...)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
