package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// StructureScorer subtracts penalties from 100 for missing expected sections,
// a word count outside the accepted bands and missing or sparse bullets
type StructureScorer struct {
	minWords int
	rules    rules.StructureRules
}

// NewStructureScorer creates a structure scorer
func NewStructureScorer(r *rules.Rules) *StructureScorer {
	return &StructureScorer{minWords: r.MinWords, rules: r.Structure}
}

// Name returns types.ScorerStructure
func (s *StructureScorer) Name() types.ScorerName {
	return types.ScorerStructure
}

// Score computes the structure sub-score. Missing lists the absent expected sections.
func (s *StructureScorer) Score(text *types.ExtractedText, _ string) types.SubScore {
	if insufficient(text, s.minWords) {
		return minimumScore(types.ScorerStructure)
	}

	result := newSubScore(types.ScorerStructure)
	penalty := 0.0

	for _, section := range s.rules.ExpectedSections {
		if text.HasSection(section) {
			result.Matched = append(result.Matched, section)
			continue
		}
		result.Missing = append(result.Missing, section)
		penalty += s.rules.MissingSectionPenalty
	}
	if len(result.Missing) > 0 {
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("missing sections: %s", strings.Join(result.Missing, ", ")))
	}

	words := len(strings.Fields(text.Text))
	switch {
	case !s.rules.AcceptableWords.Contains(words):
		penalty += s.rules.OutsideAcceptablePenalty
		result.Evidence = append(result.Evidence, fmt.Sprintf("%s %d outside %d-%d",
			EvidenceWordCount, words, s.rules.AcceptableWords.Min, s.rules.AcceptableWords.Max))
	case !s.rules.IdealWords.Contains(words):
		penalty += s.rules.OutsideIdealPenalty
		result.Evidence = append(result.Evidence, fmt.Sprintf("%s %d outside %d-%d",
			EvidenceWordCount, words, s.rules.IdealWords.Min, s.rules.IdealWords.Max))
	}

	lines := len(textLines(text))
	switch {
	case len(text.Bullets) == 0:
		penalty += s.rules.NoBulletsPenalty
		result.Evidence = append(result.Evidence, EvidenceNoBullets)
	case lines > 0 && float64(len(text.Bullets))/float64(lines) < s.rules.MinBulletDensity:
		penalty += s.rules.LowDensityPenalty
		result.Evidence = append(result.Evidence, fmt.Sprintf("%s %.2f", EvidenceLowBulletDensity,
			float64(len(text.Bullets))/float64(lines)))
	}

	result.Value = round2(math.Max(0, 100-penalty))
	return result
}
