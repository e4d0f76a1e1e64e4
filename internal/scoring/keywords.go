package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// KeywordScorer measures how much of a keyword universe the resume covers.
// Without a target the universe is the fixed technical and soft-skill set;
// with a target it is the target's recognized keywords followed by its most frequent terms.
type KeywordScorer struct {
	rules *rules.Rules
}

// NewKeywordScorer creates a keyword optimization scorer
func NewKeywordScorer(r *rules.Rules) *KeywordScorer {
	return &KeywordScorer{rules: r}
}

// Name returns types.ScorerKeywords
func (s *KeywordScorer) Name() types.ScorerName {
	return types.ScorerKeywords
}

// Score computes matched/|universe|×100 with Matched and Missing in universe order
func (s *KeywordScorer) Score(text *types.ExtractedText, target string) types.SubScore {
	if insufficient(text, s.rules.MinWords) {
		return minimumScore(types.ScorerKeywords)
	}

	result := newSubScore(types.ScorerKeywords)
	universe := s.Universe(target)
	ix := newTermIndex(text.Text)

	for _, kw := range universe {
		if ix.has(kw) {
			result.Matched = append(result.Matched, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}

	if len(universe) > 0 {
		result.Value = round2(float64(len(result.Matched)) / float64(len(universe)) * 100)
	}

	source := "standard keyword set"
	if strings.TrimSpace(target) != "" {
		source = "target description"
	}
	result.Evidence = append(result.Evidence,
		fmt.Sprintf("matched %d of %d keywords from the %s", len(result.Matched), len(universe), source))
	return result
}

// Universe returns the keywords a resume is measured against for the given target
func (s *KeywordScorer) Universe(target string) []string {
	if strings.TrimSpace(target) == "" {
		return CanonicalTerms(s.rules.KeywordUniverse())
	}

	tix := newTermIndex(target)
	universe := make([]string, 0)
	for _, kw := range s.rules.KeywordUniverse() {
		if tix.has(kw) {
			universe = append(universe, kw)
		}
	}
	universe = append(universe, TopTerms(target, s.rules.Keywords.TargetTopTerms,
		s.rules.Keywords.TargetMinLetters, s.rules.IsStopword)...)
	return CanonicalTerms(universe)
}
