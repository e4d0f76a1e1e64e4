package evaluation

import (
	"sort"

	"github.com/jonathan/resume-evaluator/internal/suggestions"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Assemble packages the outputs of one evaluation into a report.
// Sub-scores are put in fixed scorer order and every slice is copied,
// so the report shares no memory with its inputs.
func Assemble(subScores []types.SubScore, overall float64, label types.Label, s suggestions.Result, jdMatch float64) *types.ScoreReport {
	scores := make([]types.SubScore, len(subScores))
	for i, sub := range subScores {
		scores[i] = types.SubScore{
			Name:     sub.Name,
			Value:    sub.Value,
			Evidence: copyStrings(sub.Evidence),
			Matched:  copyStrings(sub.Matched),
			Missing:  copyStrings(sub.Missing),
		}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scorerIndex(scores[i].Name) < scorerIndex(scores[j].Name)
	})

	report := &types.ScoreReport{
		SubScores:       scores,
		Overall:         overall,
		Label:           label,
		Suggestions:     copyStrings(s.Suggestions),
		SuggestedRoles:  copyStrings(s.SuggestedRoles),
		JDMatch:         jdMatch,
		Improvements:    make([]types.ImprovementCategory, len(s.Improvements)),
		Gaps:            append([]types.ScoreGap{}, s.Gaps...),
		ActionVerbHints: make([]types.ActionVerbHint, len(s.ActionVerbHints)),
		ExamplePhrases:  copyStrings(s.ExamplePhrases),
	}
	for i, imp := range s.Improvements {
		report.Improvements[i] = types.ImprovementCategory{
			Category:    imp.Category,
			Priority:    imp.Priority,
			Suggestions: copyStrings(imp.Suggestions),
		}
	}
	for i, hint := range s.ActionVerbHints {
		report.ActionVerbHints[i] = types.ActionVerbHint{
			Category: hint.Category,
			Verbs:    copyStrings(hint.Verbs),
		}
	}
	return report
}

func copyStrings(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func scorerIndex(name types.ScorerName) int {
	for i, n := range types.ScorerNames {
		if n == name {
			return i
		}
	}
	return len(types.ScorerNames)
}
