package scoring

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	tokenRe     = regexp.MustCompile(`[a-z0-9][a-z0-9+#./-]*`)
	letterRunRe = regexp.MustCompile(`[a-z]+`)
)

// tokenAliases maps common spelling variants to the canonical vocabulary term
var tokenAliases = map[string]string{
	"golang":   "go",
	"js":       "javascript",
	"ts":       "typescript",
	"k8s":      "kubernetes",
	"nodejs":   "node.js",
	"reactjs":  "react",
	"react.js": "react",
	"postgres": "postgresql",
	"cicd":     "ci/cd",
	"ml":       "machine learning",
}

// Tokenize lowercases text and splits it into vocabulary tokens.
// Trailing '.', '-' and '/' are trimmed and known aliases are replaced by their canonical term.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		tok = strings.TrimRight(tok, "./-")
		if tok == "" {
			continue
		}
		if canonical, ok := tokenAliases[tok]; ok {
			tok = canonical
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CanonicalTerm returns the tokenized spelling of a vocabulary term, e.g. "Golang" becomes "go"
func CanonicalTerm(term string) string {
	return strings.Join(Tokenize(term), " ")
}

// CanonicalTerms maps terms to their canonical spelling, keeping the first occurrence of each
func CanonicalTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if c := CanonicalTerm(t); c != "" {
			out = append(out, c)
		}
	}
	return dedupe(out)
}

// termIndex answers whether a keyword or phrase occurs in a text
type termIndex struct {
	tokens []string
	set    map[string]struct{}
}

func newTermIndex(text string) *termIndex {
	tokens := Tokenize(text)
	ix := &termIndex{
		tokens: tokens,
		set:    make(map[string]struct{}, len(tokens)),
	}
	for _, tok := range tokens {
		ix.add(tok)
	}
	return ix
}

// add indexes a token and its parts. Slash lists such as "node.js/react" index each
// listed term (aliases resolved), then the raw dotted or hyphenated pieces of those terms.
func (ix *termIndex) add(tok string) {
	ix.set[tok] = struct{}{}
	if !strings.ContainsAny(tok, "/.-") {
		return
	}
	for _, term := range strings.Split(tok, "/") {
		term = strings.TrimRight(term, ".-")
		if term == "" {
			continue
		}
		if canonical, ok := tokenAliases[term]; ok {
			term = canonical
		}
		ix.set[term] = struct{}{}
		for _, part := range strings.FieldsFunc(term, func(r rune) bool { return r == '.' || r == '-' }) {
			ix.set[part] = struct{}{}
		}
	}
}

// has reports whether term occurs as a token or, for multi-word terms, as a contiguous token sequence
func (ix *termIndex) has(term string) bool {
	phrase := Tokenize(term)
	switch len(phrase) {
	case 0:
		return false
	case 1:
		_, ok := ix.set[phrase[0]]
		return ok
	}

	// an alias can expand a single token into a phrase, e.g. "ml"
	if _, ok := ix.set[strings.Join(phrase, " ")]; ok {
		return true
	}
	for i := 0; i+len(phrase) <= len(ix.tokens); i++ {
		match := true
		for j, want := range phrase {
			if ix.tokens[i+j] != want {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (ix *termIndex) len() int {
	return len(ix.tokens)
}

// letterWords returns the lowercase runs of letters in text with at least minLetters letters
func letterWords(text string, minLetters int) []string {
	runs := letterRunRe.FindAllString(strings.ToLower(text), -1)
	words := make([]string, 0, len(runs))
	for _, w := range runs {
		if len(w) >= minLetters {
			words = append(words, w)
		}
	}
	return words
}

// TopTerms returns up to n distinct words of a description, most frequent first.
// Ties keep the order of first appearance. Words shorter than minLetters and stopwords are skipped.
func TopTerms(description string, n, minLetters int, isStopword func(string) bool) []string {
	if n <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range letterWords(description, minLetters) {
		if isStopword != nil && isStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	return order
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// clamp bounds v to [0,100]
func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
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
