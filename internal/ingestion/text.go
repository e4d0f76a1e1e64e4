// Package ingestion loads job descriptions from files, literal text or job board URLs
// and normalizes them into the target text used for keyword scoring.
package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRun = regexp.MustCompile(`[ \t\f\v\p{Zs}]+`)
	blankRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings and spacing. Bullets and headings keep their
// own lines and no more than one blank line separates paragraphs.
func CleanText(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	return strings.TrimSpace(blankRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

func cleanLine(line string) string {
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	for _, bullet := range []string{"• ", "· ", "* ", "▪ "} {
		if strings.HasPrefix(line, bullet) {
			return "- " + strings.TrimPrefix(line, bullet)
		}
	}
	return line
}

// Truncate cuts text to at most limit runes without splitting a rune
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 {
		return text, false
	}
	n := 0
	for i := range text {
		if n == limit {
			return strings.TrimSpace(text[:i]), true
		}
		n++
	}
	return text, false
}
