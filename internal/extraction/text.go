package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-evaluator/internal/types"
)

// maxHeaderWords is the longest line (in words) still considered a section header
const maxHeaderWords = 4

// sectionAliases maps header spellings to canonical section names
var sectionAliases = map[string]string{
	"summary":                 "summary",
	"professional summary":    "summary",
	"career summary":          "summary",
	"profile":                 "summary",
	"professional profile":    "summary",
	"objective":               "summary",
	"career objective":        "summary",
	"about me":                "summary",
	"experience":              "experience",
	"work experience":         "experience",
	"professional experience": "experience",
	"employment":              "experience",
	"employment history":      "experience",
	"work history":            "experience",
	"education":               "education",
	"academic background":     "education",
	"qualifications":          "education",
	"skills":                  "skills",
	"technical skills":        "skills",
	"key skills":              "skills",
	"core competencies":       "skills",
	"competencies":            "skills",
	"projects":                "projects",
	"personal projects":       "projects",
	"certifications":          "certifications",
	"certificates":            "certifications",
	"achievements":            "achievements",
	"awards":                  "achievements",
	"accomplishments":         "achievements",
	"publications":            "publications",
	"volunteering":            "volunteering",
	"volunteer experience":    "volunteering",
	"languages":               "languages",
	"interests":               "interests",
	"contact":                 "contact",
	"contact information":     "contact",
	"links":                   "contact",
}

var (
	// "o" is the list glyph Word exports for its hollow-circle bullet style
	bulletMarkers    = []string{"-", "*", "•", "·", "▪", "–", "◦", "➢", "►", "o"}
	numberedBulletRe = regexp.MustCompile(`^\d{1,2}[.)]\s+`)
	blankRunRe       = regexp.MustCompile(`\n{3,}`)
)

// FromText normalizes raw text and derives lines, section headers and bullets
func FromText(raw string) types.ExtractedText {
	text := NormalizeText(raw)

	result := types.ExtractedText{
		Text:     text,
		Lines:    []string{},
		Sections: []string{},
		Bullets:  []string{},
	}
	if text == "" {
		return result
	}

	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		result.Lines = append(result.Lines, trimmed)

		if section, ok := DetectSection(trimmed); ok {
			if !seen[section] {
				seen[section] = true
				result.Sections = append(result.Sections, section)
			}
			continue
		}

		if content, ok := BulletContent(trimmed); ok {
			result.Bullets = append(result.Bullets, content)
		}
	}

	return result
}

// NormalizeText unifies line endings, trims trailing whitespace on each line
// and collapses runs of blank lines. Spacing inside a line is left untouched.
func NormalizeText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	result := strings.Join(lines, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// DetectSection reports the canonical section name when a line is a section header.
// Inline headers such as "Skills: Go, SQL" count as well.
func DetectSection(line string) (string, bool) {
	if section, ok := lookupSection(line); ok {
		return section, true
	}
	if idx := strings.Index(line, ":"); idx > 0 {
		return lookupSection(line[:idx])
	}
	return "", false
}

func lookupSection(candidate string) (string, bool) {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	candidate = strings.TrimRight(candidate, ":")
	candidate = strings.Trim(candidate, " #*_=-")
	fields := strings.Fields(candidate)
	if len(fields) == 0 || len(fields) > maxHeaderWords {
		return "", false
	}
	section, ok := sectionAliases[strings.Join(fields, " ")]
	return section, ok
}

// BulletContent returns the text after a bullet marker, if the line is a bullet
func BulletContent(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(trimmed, marker+" ") || strings.HasPrefix(trimmed, marker+"\t") {
			content := strings.TrimSpace(strings.TrimPrefix(trimmed, marker))
			return content, content != ""
		}
	}
	if loc := numberedBulletRe.FindStringIndex(trimmed); loc != nil {
		content := strings.TrimSpace(trimmed[loc[1]:])
		return content, content != ""
	}
	return "", false
}
