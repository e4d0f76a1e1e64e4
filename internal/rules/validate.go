package rules

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validate checks field constraints and the cross-table invariants of a rule set.
// Every role keyword must be observable through keyword or skill evidence.
func (r *Rules) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return &RulesError{Message: "field validation failed", Cause: err}
	}

	for i, pattern := range r.ATS.ContactPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return &RulesError{
				Field:   fmt.Sprintf("ats.contact_patterns[%d]", i),
				Message: "invalid regular expression",
				Cause:   err,
			}
		}
	}

	if !r.Structure.IdealWords.within(r.Structure.AcceptableWords) {
		return &RulesError{
			Field:   "structure.ideal_words",
			Message: "ideal band must lie inside the acceptable band",
		}
	}

	vocabulary := make(map[string]bool)
	for _, kw := range r.KeywordUniverse() {
		vocabulary[kw] = true
	}
	for _, skill := range r.Skills.Vocabulary {
		vocabulary[skill] = true
	}

	roleNames := make(map[string]bool, len(r.Roles))
	for i, role := range r.Roles {
		if roleNames[role.Name] {
			return &RulesError{
				Field:   fmt.Sprintf("roles[%d].name", i),
				Message: fmt.Sprintf("duplicate role %q", role.Name),
			}
		}
		roleNames[role.Name] = true

		for _, kw := range role.Keywords {
			if !vocabulary[kw] {
				return &RulesError{
					Field:   fmt.Sprintf("roles[%d].keywords", i),
					Message: fmt.Sprintf("keyword %q of role %q is not in the keyword or skill vocabulary", kw, role.Name),
				}
			}
		}
	}

	if roleNames[r.FallbackRole] {
		return &RulesError{
			Field:   "fallback_role",
			Message: fmt.Sprintf("fallback role %q must not be a ranked role", r.FallbackRole),
		}
	}

	for i, rule := range r.Improvements {
		if rule.When == TriggerBelow && rule.Scorer == "" {
			return &RulesError{
				Field:   fmt.Sprintf("improvements[%d].scorer", i),
				Message: "a below trigger needs a scorer",
			}
		}
	}

	return nil
}

func (b WordBand) within(outer WordBand) bool {
	return b.Min >= outer.Min && b.Max <= outer.Max
}
