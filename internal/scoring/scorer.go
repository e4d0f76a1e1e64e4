// Package scoring provides the five rule-based feature scorers and the weighted aggregator.
// Scorers are pure: they read extracted text and rule tables and never share mutable state.
package scoring

import (
	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// Evidence markers shared with the suggestion generator
const (
	EvidenceInsufficientText = "insufficient text"
	EvidenceNoBullets        = "no bullet points"
	EvidenceLowBulletDensity = "low bullet density"
	EvidenceWordCount        = "word count"
	EvidenceRepeatedWord     = "repeated word"
)

// Missing markers used by the ATS scorer besides section names
const (
	MissingContact       = "contact"
	MissingActionBullets = "action-verb bullets"
)

// Scorer computes one bounded sub-score from extracted text and an optional target description
type Scorer interface {
	Name() types.ScorerName
	Score(text *types.ExtractedText, target string) types.SubScore
}

// NewScorers builds the five scorers in fixed declaration order
func NewScorers(r *rules.Rules) ([]Scorer, error) {
	ats, err := NewATSScorer(r)
	if err != nil {
		return nil, err
	}
	return []Scorer{
		ats,
		NewKeywordScorer(r),
		NewGrammarScorer(r),
		NewStructureScorer(r),
		NewSkillsScorer(r),
	}, nil
}

// insufficient reports whether text has too few tokens to be scored
func insufficient(text *types.ExtractedText, minWords int) bool {
	if text == nil {
		return true
	}
	return len(Tokenize(text.Text)) < minWords
}

// minimumScore is the sub-score for empty or near-empty text
func minimumScore(name types.ScorerName) types.SubScore {
	return types.SubScore{
		Name:     name,
		Value:    0,
		Evidence: []string{EvidenceInsufficientText},
		Matched:  []string{},
		Missing:  []string{},
	}
}

func newSubScore(name types.ScorerName) types.SubScore {
	return types.SubScore{
		Name:     name,
		Evidence: []string{},
		Matched:  []string{},
		Missing:  []string{},
	}
}
