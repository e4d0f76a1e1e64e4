package scoring

import (
	"fmt"
	"math"
	"regexp"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

// ATSScorer awards fixed points for a contact line, standard section headers
// and bullets that open with an action verb
type ATSScorer struct {
	minWords    int
	rules       rules.ATSRules
	contact     []*regexp.Regexp
	actionVerbs map[string]bool
}

// NewATSScorer compiles the contact patterns of r
func NewATSScorer(r *rules.Rules) (*ATSScorer, error) {
	s := &ATSScorer{
		minWords:    r.MinWords,
		rules:       r.ATS,
		contact:     make([]*regexp.Regexp, 0, len(r.ATS.ContactPatterns)),
		actionVerbs: make(map[string]bool, len(r.ATS.ActionVerbs)),
	}
	for _, pattern := range r.ATS.ContactPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &ConfigurationError{Message: fmt.Sprintf("invalid contact pattern %q", pattern), Cause: err}
		}
		s.contact = append(s.contact, re)
	}
	for _, verb := range r.ATS.ActionVerbs {
		s.actionVerbs[verb] = true
	}
	return s, nil
}

// Name returns types.ScorerATS
func (s *ATSScorer) Name() types.ScorerName {
	return types.ScorerATS
}

// Score computes the ATS compliance sub-score. The target description is not used.
func (s *ATSScorer) Score(text *types.ExtractedText, _ string) types.SubScore {
	if insufficient(text, s.minWords) {
		return minimumScore(types.ScorerATS)
	}

	result := newSubScore(types.ScorerATS)
	total := 0.0

	if s.hasContact(text.Text) {
		total += s.rules.ContactPoints
		result.Matched = append(result.Matched, MissingContact)
		result.Evidence = append(result.Evidence, "contact line found")
	} else {
		result.Missing = append(result.Missing, MissingContact)
	}

	for _, header := range s.rules.Headers {
		if text.HasSection(header) {
			total += s.rules.HeaderPoints
			result.Matched = append(result.Matched, header)
			result.Evidence = append(result.Evidence, fmt.Sprintf("section header: %s", header))
		} else {
			result.Missing = append(result.Missing, header)
		}
	}

	actionBullets := 0
	for _, bullet := range text.Bullets {
		tokens := Tokenize(bullet)
		if len(tokens) > 0 && s.actionVerbs[tokens[0]] {
			actionBullets++
		}
	}
	counted := actionBullets
	if counted > s.rules.MaxBullets {
		counted = s.rules.MaxBullets
	}
	total += float64(counted) * s.rules.BulletPoints
	result.Evidence = append(result.Evidence, fmt.Sprintf("%d bullets start with an action verb", actionBullets))
	if actionBullets < s.rules.MaxBullets {
		result.Missing = append(result.Missing, MissingActionBullets)
	}

	result.Value = round2(math.Min(total, 100))
	return result
}

func (s *ATSScorer) hasContact(text string) bool {
	for _, re := range s.contact {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
