package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// SkillsScorer counts distinct recognized skills against a minimum expected count
type SkillsScorer struct {
	minWords   int
	vocabulary []string
	threshold  int
}

// NewSkillsScorer creates a skills assessment scorer
func NewSkillsScorer(r *rules.Rules) *SkillsScorer {
	return &SkillsScorer{
		minWords:   r.MinWords,
		vocabulary: CanonicalTerms(r.Skills.Vocabulary),
		threshold:  r.Skills.Threshold,
	}
}

// Name returns types.ScorerSkills
func (s *SkillsScorer) Name() types.ScorerName {
	return types.ScorerSkills
}

// Score computes min(100, found/threshold×100). Matched lists distinct skills in vocabulary order;
// spelling variants of one skill, such as "go" and "golang", count once.
func (s *SkillsScorer) Score(text *types.ExtractedText, _ string) types.SubScore {
	if insufficient(text, s.minWords) {
		return minimumScore(types.ScorerSkills)
	}

	result := newSubScore(types.ScorerSkills)
	ix := newTermIndex(text.Text)
	for _, skill := range s.vocabulary {
		if ix.has(skill) {
			result.Matched = append(result.Matched, skill)
		}
	}

	if s.threshold > 0 {
		result.Value = round2(math.Min(100, float64(len(result.Matched))/float64(s.threshold)*100))
	}
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("%d distinct skills recognized, %d expected", len(result.Matched), s.threshold))
	return result
}

// JDMatch is the percentage of distinct target words of at least minLetters letters
// that also occur in the resume. It is 0 without a target.
func JDMatch(resume, target string, minLetters int) float64 {
	targetWords := make(map[string]bool)
	for _, w := range letterWords(target, minLetters) {
		targetWords[w] = true
	}
	if len(targetWords) == 0 {
		return 0
	}

	common := 0
	resumeWords := make(map[string]bool)
	for _, w := range letterWords(resume, minLetters) {
		resumeWords[w] = true
	}
	for w := range targetWords {
		if resumeWords[w] {
			common++
		}
	}
	return round2(clamp(float64(common) / float64(len(targetWords)) * 100))
}
