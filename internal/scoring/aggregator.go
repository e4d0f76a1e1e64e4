package scoring

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// weightSumTolerance is the accepted floating point error of the weight sum
const weightSumTolerance = 1e-9

// Label thresholds on the rounded overall score
const (
	excellentThreshold = 85.0
	goodThreshold      = 70.0
	averageThreshold   = 50.0
)

// Weights are the fixed coefficients of the overall score
type Weights struct {
	ATS       float64 `json:"ats"`
	Keywords  float64 `json:"keywords"`
	Grammar   float64 `json:"grammar"`
	Structure float64 `json:"structure"`
	Skills    float64 `json:"skills"`
}

// DefaultWeights returns ats .25, keywords .25, grammar .15, structure .20, skills .15
func DefaultWeights() Weights {
	return Weights{
		ATS:       0.25,
		Keywords:  0.25,
		Grammar:   0.15,
		Structure: 0.20,
		Skills:    0.15,
	}
}

// For returns the weight of the named scorer
func (w Weights) For(name types.ScorerName) float64 {
	switch name {
	case types.ScorerATS:
		return w.ATS
	case types.ScorerKeywords:
		return w.Keywords
	case types.ScorerGrammar:
		return w.Grammar
	case types.ScorerStructure:
		return w.Structure
	case types.ScorerSkills:
		return w.Skills
	default:
		return 0
	}
}

// Validate checks that every weight lies in [0,1] and that the weights sum to 1
func (w Weights) Validate() error {
	sum := 0.0
	for _, name := range types.ScorerNames {
		v := w.For(name)
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &ConfigurationError{Message: fmt.Sprintf("weight for %s must be in [0,1], got %v", name, v)}
		}
		sum += v
	}
	if math.Abs(sum-1) > weightSumTolerance {
		return &ConfigurationError{Message: fmt.Sprintf("weights must sum to 1, got %v", sum)}
	}
	return nil
}

// Aggregator combines the five sub-scores into the overall score and label
type Aggregator struct {
	weights Weights
}

// NewAggregator validates the weights once so aggregation itself cannot fail on configuration
func NewAggregator(w Weights) (*Aggregator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Aggregator{weights: w}, nil
}

// Weights returns the aggregator's weights
func (a *Aggregator) Weights() Weights {
	return a.weights
}

// Aggregate computes the weighted overall score, rounded to two decimals, and its label.
// Exactly one sub-score per scorer is required.
func (a *Aggregator) Aggregate(subScores []types.SubScore) (float64, types.Label, error) {
	values := make(map[types.ScorerName]float64, len(subScores))

	for _, s := range subScores {
		if !isScorer(s.Name) {
			return 0, "", fmt.Errorf("unknown sub-score %q", s.Name)
		}
		if _, dup := values[s.Name]; dup {
			return 0, "", fmt.Errorf("duplicate sub-score %q", s.Name)
		}
		if math.IsNaN(s.Value) || s.Value < 0 || s.Value > 100 {
			return 0, "", fmt.Errorf("sub-score %q out of range: %v", s.Name, s.Value)
		}
		values[s.Name] = s.Value
	}

	// summed in fixed scorer order
	overall := 0.0
	for _, name := range types.ScorerNames {
		v, ok := values[name]
		if !ok {
			return 0, "", fmt.Errorf("missing sub-score %q", name)
		}
		overall += v * a.weights.For(name)
	}

	overall = round2(clamp(overall))
	return overall, LabelFor(overall), nil
}

// LabelFor maps an overall score onto its qualitative label
func LabelFor(overall float64) types.Label {
	switch {
	case overall >= excellentThreshold:
		return types.LabelExcellent
	case overall >= goodThreshold:
		return types.LabelGood
	case overall >= averageThreshold:
		return types.LabelAverage
	default:
		return types.LabelNeedsImprovement
	}
}

func isScorer(name types.ScorerName) bool {
	for _, n := range types.ScorerNames {
		if n == name {
			return true
		}
	}
	return false
}
