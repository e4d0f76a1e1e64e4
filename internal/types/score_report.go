package types

// ScorerName identifies one of the five feature scorers
type ScorerName string

// Scorer names in their fixed declaration order
const (
	ScorerATS       ScorerName = "ats"
	ScorerKeywords  ScorerName = "keywords"
	ScorerGrammar   ScorerName = "grammar"
	ScorerStructure ScorerName = "structure"
	ScorerSkills    ScorerName = "skills"
)

// ScorerNames lists the scorers in fixed order. Reports always carry sub-scores in this order.
var ScorerNames = []ScorerName{ScorerATS, ScorerKeywords, ScorerGrammar, ScorerStructure, ScorerSkills}

// DisplayName returns the human readable title of a scorer
func (n ScorerName) DisplayName() string {
	switch n {
	case ScorerATS:
		return "ATS Compliance"
	case ScorerKeywords:
		return "Keyword Optimization"
	case ScorerGrammar:
		return "Grammar Quality"
	case ScorerStructure:
		return "Resume Structure"
	case ScorerSkills:
		return "Skills Assessment"
	default:
		return string(n)
	}
}

// SubScore is one bounded [0,100] component score with the evidence that justifies it
type SubScore struct {
	Name     ScorerName `json:"name"`
	Value    float64    `json:"value"`
	Evidence []string   `json:"evidence"`
	// Matched and Missing hold recognized terms for the keyword and skills scorers
	Matched []string `json:"matched,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Label is the qualitative rating derived from the overall score
type Label string

// Labels from best to worst
const (
	LabelExcellent        Label = "Excellent"
	LabelGood             Label = "Good"
	LabelAverage          Label = "Average"
	LabelNeedsImprovement Label = "NeedsImprovement"
)

// Priority ranks improvement categories and gaps
type Priority string

// Priorities in descending urgency
const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// ImprovementCategory groups detailed advice for one area of the resume
type ImprovementCategory struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Suggestions []string `json:"suggestions"`
}

// ScoreGap describes how far a sub-score sits below the target score
type ScoreGap struct {
	Category     string   `json:"category"`
	CurrentScore float64  `json:"current_score"`
	TargetScore  float64  `json:"target_score"`
	Gap          float64  `json:"gap"`
	Priority     Priority `json:"priority"`
}

// ActionVerbHint lists unused action verbs for an under-represented verb category
type ActionVerbHint struct {
	Category string   `json:"category"`
	Verbs    []string `json:"verbs"`
}

// ScoreReport is the complete result of one evaluation.
// It contains no timestamps or identifiers so identical input yields an identical report.
type ScoreReport struct {
	SubScores       []SubScore            `json:"sub_scores"`
	Overall         float64               `json:"overall"`
	Label           Label                 `json:"label"`
	Suggestions     []string              `json:"suggestions"`
	SuggestedRoles  []string              `json:"suggested_roles"`
	JDMatch         float64               `json:"jd_match_percentage"`
	Improvements    []ImprovementCategory `json:"improvements,omitempty"`
	Gaps            []ScoreGap            `json:"gaps,omitempty"`
	ActionVerbHints []ActionVerbHint      `json:"action_verb_hints,omitempty"`
	ExamplePhrases  []string              `json:"example_phrases,omitempty"`
}

// SubScore returns the sub-score with the given name and whether it was found
func (r *ScoreReport) SubScore(name ScorerName) (SubScore, bool) {
	for _, s := range r.SubScores {
		if s.Name == name {
			return s, true
		}
	}
	return SubScore{}, false
}

// Value returns the value of the named sub-score, or 0 when absent
func (r *ScoreReport) Value(name ScorerName) float64 {
	s, _ := r.SubScore(name)
	return s.Value
}
