// Package rules holds the declarative rule tables that drive scoring and suggestions.
// The default tables are embedded at compile time and can be replaced by a JSON or YAML file.
package rules

import (
	"strings"
)

// Rules is the complete rule set. A loaded Rules value is read-only.
type Rules struct {
	Version              string            `json:"version" validate:"required"`
	MinWords             int               `json:"min_words" validate:"gte=0"`
	Keywords             KeywordRules      `json:"keywords"`
	Skills               SkillRules        `json:"skills"`
	ATS                  ATSRules          `json:"ats"`
	Grammar              GrammarRules      `json:"grammar"`
	Structure            StructureRules    `json:"structure"`
	Roles                []Role            `json:"roles" validate:"required,min=1,dive"`
	FallbackRole         string            `json:"fallback_role" validate:"required"`
	MaxSuggestedRoles    int               `json:"max_suggested_roles" validate:"gte=1"`
	Suggestions          SuggestionRules   `json:"suggestions"`
	Improvements         []ImprovementRule `json:"improvements" validate:"dive"`
	Gaps                 GapRules          `json:"gaps"`
	ActionVerbCategories []VerbCategory    `json:"action_verb_categories" validate:"dive"`
	VerbHints            VerbHintRules     `json:"verb_hints"`
	ExamplePhrases       []RolePhrases     `json:"example_phrases" validate:"dive"`
	DefaultPhrases       []string          `json:"default_phrases" validate:"required,min=1"`
	Stopwords            []string          `json:"stopwords"`
}

// KeywordRules configures the keyword optimization scorer
type KeywordRules struct {
	Technical  []string `json:"technical" validate:"required,min=1"`
	SoftSkills []string `json:"soft_skills"`
	// TargetTopTerms is how many frequent target terms join the keyword universe
	TargetTopTerms int `json:"target_top_terms" validate:"gte=0"`
	// TargetMinLetters is the shortest target word considered a term
	TargetMinLetters int `json:"target_min_letters" validate:"gte=1"`
}

// SkillRules configures the skills assessment scorer
type SkillRules struct {
	Vocabulary []string `json:"vocabulary" validate:"required,min=1"`
	Threshold  int      `json:"threshold" validate:"gte=1"`
}

// ATSRules configures the ATS compliance scorer
type ATSRules struct {
	ContactPatterns []string `json:"contact_patterns" validate:"required,min=1"`
	ContactPoints   float64  `json:"contact_points" validate:"gte=0,lte=100"`
	Headers         []string `json:"headers" validate:"required,min=1"`
	HeaderPoints    float64  `json:"header_points" validate:"gte=0,lte=100"`
	ActionVerbs     []string `json:"action_verbs" validate:"required,min=1"`
	BulletPoints    float64  `json:"bullet_points" validate:"gte=0,lte=100"`
	MaxBullets      int      `json:"max_bullets" validate:"gte=0"`
}

// GrammarRules configures the grammar quality scorer
type GrammarRules struct {
	MinSentences         int     `json:"min_sentences" validate:"gte=0"`
	FewSentencesPenalty  float64 `json:"few_sentences_penalty" validate:"gte=0"`
	LongSentenceWords    int     `json:"long_sentence_words" validate:"gte=1"`
	LongSentencePenalty  float64 `json:"long_sentence_penalty" validate:"gte=0"`
	LongSentenceCap      float64 `json:"long_sentence_cap" validate:"gte=0"`
	CapitalizationWeight float64 `json:"capitalization_weight" validate:"gte=0"`
	DoubleSpacePenalty   float64 `json:"double_space_penalty" validate:"gte=0"`
	DoubleSpaceCap       float64 `json:"double_space_cap" validate:"gte=0"`
	RepeatedWordPenalty  float64 `json:"repeated_word_penalty" validate:"gte=0"`
	RepeatedWordCap      float64 `json:"repeated_word_cap" validate:"gte=0"`
}

// WordBand is an inclusive word count range
type WordBand struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether n lies inside the band
func (b WordBand) Contains(n int) bool {
	return n >= b.Min && n <= b.Max
}

// StructureRules configures the structure scorer
type StructureRules struct {
	ExpectedSections         []string `json:"expected_sections" validate:"required,min=1"`
	MissingSectionPenalty    float64  `json:"missing_section_penalty" validate:"gte=0"`
	IdealWords               WordBand `json:"ideal_words"`
	AcceptableWords          WordBand `json:"acceptable_words"`
	OutsideIdealPenalty      float64  `json:"outside_ideal_penalty" validate:"gte=0"`
	OutsideAcceptablePenalty float64  `json:"outside_acceptable_penalty" validate:"gte=0"`
	NoBulletsPenalty         float64  `json:"no_bullets_penalty" validate:"gte=0"`
	MinBulletDensity         float64  `json:"min_bullet_density" validate:"gte=0,lte=1"`
	LowDensityPenalty        float64  `json:"low_density_penalty" validate:"gte=0"`
}

// Role associates a job role with the keywords that suggest it
type Role struct {
	Name     string   `json:"name" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1"`
}

// Thresholds holds one value per scorer, below which a sub-score is considered weak
type Thresholds struct {
	ATS       float64 `json:"ats" validate:"gte=0,lte=100"`
	Keywords  float64 `json:"keywords" validate:"gte=0,lte=100"`
	Grammar   float64 `json:"grammar" validate:"gte=0,lte=100"`
	Structure float64 `json:"structure" validate:"gte=0,lte=100"`
	Skills    float64 `json:"skills" validate:"gte=0,lte=100"`
}

// For returns the threshold of the named scorer
func (t Thresholds) For(scorer string) float64 {
	switch scorer {
	case "ats":
		return t.ATS
	case "keywords":
		return t.Keywords
	case "grammar":
		return t.Grammar
	case "structure":
		return t.Structure
	case "skills":
		return t.Skills
	default:
		return 0
	}
}

// ScorerMessages holds the general advice emitted for each weak sub-score
type ScorerMessages struct {
	ATS       []string `json:"ats"`
	Keywords  []string `json:"keywords"`
	Grammar   []string `json:"grammar"`
	Structure []string `json:"structure"`
	Skills    []string `json:"skills"`
}

// For returns the messages of the named scorer
func (m ScorerMessages) For(scorer string) []string {
	switch scorer {
	case "ats":
		return m.ATS
	case "keywords":
		return m.Keywords
	case "grammar":
		return m.Grammar
	case "structure":
		return m.Structure
	case "skills":
		return m.Skills
	default:
		return nil
	}
}

// Templates are evidence-driven suggestion texts. Placeholders use the {{.Name}} form.
type Templates struct {
	InsufficientText string `json:"insufficient_text" validate:"required"`
	MissingKeywords  string `json:"missing_keywords" validate:"required"`
	MissingSection   string `json:"missing_section" validate:"required"`
	MissingContact   string `json:"missing_contact" validate:"required"`
	WeakBullets      string `json:"weak_bullets" validate:"required"`
	NoBullets        string `json:"no_bullets" validate:"required"`
	LowBulletDensity string `json:"low_bullet_density" validate:"required"`
	WordCount        string `json:"word_count" validate:"required"`
	GrammarIssues    string `json:"grammar_issues" validate:"required"`
}

// SuggestionRules configures the suggestion generator
type SuggestionRules struct {
	Thresholds         Thresholds     `json:"thresholds"`
	MaxMissingKeywords int            `json:"max_missing_keywords" validate:"gte=1"`
	Templates          Templates      `json:"templates"`
	Messages           ScorerMessages `json:"messages"`
}

// Improvement trigger kinds
const (
	TriggerBelow  = "below"
	TriggerTarget = "target"
	TriggerAlways = "always"
)

// ImprovementRule describes one category of the improvement plan and when it applies
type ImprovementRule struct {
	Category    string   `json:"category" validate:"required"`
	Priority    string   `json:"priority" validate:"required,oneof=Critical High Medium Low"`
	When        string   `json:"when" validate:"required,oneof=below target always"`
	Scorer      string   `json:"scorer,omitempty" validate:"omitempty,oneof=ats keywords grammar structure skills"`
	Below       float64  `json:"below,omitempty" validate:"gte=0,lte=100"`
	Suggestions []string `json:"suggestions" validate:"required,min=1"`
}

// GapRules configures the gap analysis
type GapRules struct {
	Target          float64 `json:"target" validate:"gte=0,lte=100"`
	HighPriorityGap float64 `json:"high_priority_gap" validate:"gte=0"`
}

// VerbCategory groups action verbs by the impression they create
type VerbCategory struct {
	Name  string   `json:"name" validate:"required"`
	Verbs []string `json:"verbs" validate:"required,min=1"`
}

// VerbHintRules configures action verb hints
type VerbHintRules struct {
	// MinUsed is the number of verbs of a category a resume should already use
	MinUsed int `json:"min_used" validate:"gte=1"`
	// MaxHints caps the number of suggested verbs per category
	MaxHints int `json:"max_hints" validate:"gte=1"`
}

// RolePhrases lists example resume phrases for a role
type RolePhrases struct {
	Role    string   `json:"role" validate:"required"`
	Phrases []string `json:"phrases" validate:"required,min=1"`
}

// KeywordUniverse returns the technical and soft-skill keywords in declared order without duplicates
func (r *Rules) KeywordUniverse() []string {
	return dedupe(append(append([]string{}, r.Keywords.Technical...), r.Keywords.SoftSkills...))
}

// Role returns the role with the given name
func (r *Rules) Role(name string) (Role, bool) {
	for _, role := range r.Roles {
		if role.Name == name {
			return role, true
		}
	}
	return Role{}, false
}

// PhrasesFor returns the example phrases of a role, or the default phrases
func (r *Rules) PhrasesFor(role string) []string {
	for _, rp := range r.ExamplePhrases {
		if rp.Role == role {
			return rp.Phrases
		}
	}
	return r.DefaultPhrases
}

// IsStopword reports whether a lowercase word is ignored in target term extraction
func (r *Rules) IsStopword(word string) bool {
	for _, s := range r.Stopwords {
		if s == word {
			return true
		}
	}
	return false
}

// Render replaces {{.Key}} placeholders in template with values from data
func Render(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		result = strings.ReplaceAll(result, "{{."+key+"}}", value)
	}
	return result
}

// normalize lowercases and trims every vocabulary entry so scorers can compare tokens directly
func (r *Rules) normalize() {
	lower := func(items []string) []string {
		out := make([]string, 0, len(items))
		for _, item := range items {
			item = strings.ToLower(strings.TrimSpace(item))
			if item != "" {
				out = append(out, item)
			}
		}
		return dedupe(out)
	}

	r.Keywords.Technical = lower(r.Keywords.Technical)
	r.Keywords.SoftSkills = lower(r.Keywords.SoftSkills)
	r.Skills.Vocabulary = lower(r.Skills.Vocabulary)
	r.ATS.Headers = lower(r.ATS.Headers)
	r.ATS.ActionVerbs = lower(r.ATS.ActionVerbs)
	r.Structure.ExpectedSections = lower(r.Structure.ExpectedSections)
	r.Stopwords = lower(r.Stopwords)
	for i := range r.Roles {
		r.Roles[i].Name = strings.TrimSpace(r.Roles[i].Name)
		r.Roles[i].Keywords = lower(r.Roles[i].Keywords)
	}
	for i := range r.ActionVerbCategories {
		r.ActionVerbCategories[i].Verbs = lower(r.ActionVerbCategories[i].Verbs)
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
