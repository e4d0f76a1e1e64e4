package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-evaluator/internal/rules"
	"github.com/jonathan/resume-evaluator/internal/types"
)

var (
	sentenceEndRe = regexp.MustCompile(`[.!?]+(\s+|$)`)
	doubleSpaceRe = regexp.MustCompile(` {2,}`)
	wordRe        = regexp.MustCompile(`[a-z]+(?:'[a-z]+)?`)
)

// GrammarScorer subtracts heuristic penalties from 100: too few sentences, long sentences,
// lowercase sentence starts, double spaces and immediately repeated words
type GrammarScorer struct {
	minWords int
	rules    rules.GrammarRules
}

// NewGrammarScorer creates a grammar quality scorer
func NewGrammarScorer(r *rules.Rules) *GrammarScorer {
	return &GrammarScorer{minWords: r.MinWords, rules: r.Grammar}
}

// Name returns types.ScorerGrammar
func (s *GrammarScorer) Name() types.ScorerName {
	return types.ScorerGrammar
}

// Score computes the grammar sub-score. Evidence lists only the detected issues.
func (s *GrammarScorer) Score(text *types.ExtractedText, _ string) types.SubScore {
	if insufficient(text, s.minWords) {
		return minimumScore(types.ScorerGrammar)
	}

	result := newSubScore(types.ScorerGrammar)
	lines := textLines(text)
	sentences := splitSentences(lines)
	penalty := 0.0

	if len(sentences) < s.rules.MinSentences {
		penalty += s.rules.FewSentencesPenalty
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("%d sentences, fewer than %d", len(sentences), s.rules.MinSentences))
	}

	long := 0
	for _, sentence := range sentences {
		if len(strings.Fields(sentence)) > s.rules.LongSentenceWords {
			long++
		}
	}
	if long > 0 {
		penalty += math.Min(float64(long)*s.rules.LongSentencePenalty, s.rules.LongSentenceCap)
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("%d sentences longer than %d words", long, s.rules.LongSentenceWords))
	}

	if rate, ok := capitalizedRate(sentences); ok && rate < 1 {
		penalty += (1 - rate) * s.rules.CapitalizationWeight
		result.Evidence = append(result.Evidence,
			fmt.Sprintf("%.0f%% of sentences start with a capital letter", rate*100))
	}

	doubles := 0
	for _, line := range lines {
		doubles += len(doubleSpaceRe.FindAllStringIndex(line, -1))
	}
	if doubles > 0 {
		penalty += math.Min(float64(doubles)*s.rules.DoubleSpacePenalty, s.rules.DoubleSpaceCap)
		result.Evidence = append(result.Evidence, fmt.Sprintf("%d double spaces", doubles))
	}

	repeated := repeatedWords(sentences)
	if len(repeated) > 0 {
		penalty += math.Min(float64(len(repeated))*s.rules.RepeatedWordPenalty, s.rules.RepeatedWordCap)
		for _, word := range repeated {
			result.Evidence = append(result.Evidence, fmt.Sprintf("%s: %q", EvidenceRepeatedWord, word+" "+word))
		}
	}

	result.Value = round2(math.Max(0, 100-penalty))
	return result
}

// textLines returns the trimmed non-empty lines of the text
func textLines(text *types.ExtractedText) []string {
	source := text.Lines
	if len(source) == 0 {
		source = strings.Split(text.Text, "\n")
	}
	lines := make([]string, 0, len(source))
	for _, line := range source {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitSentences breaks lines at terminal punctuation. Every line ends a sentence.
// Fragments without letters are dropped.
func splitSentences(lines []string) []string {
	sentences := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, fragment := range sentenceEndRe.Split(line, -1) {
			fragment = strings.TrimSpace(fragment)
			if strings.IndexFunc(fragment, unicode.IsLetter) >= 0 {
				sentences = append(sentences, fragment)
			}
		}
	}
	return sentences
}

// capitalizedRate is the share of sentences whose first letter is uppercase
func capitalizedRate(sentences []string) (float64, bool) {
	if len(sentences) == 0 {
		return 0, false
	}
	capitalized := 0
	for _, sentence := range sentences {
		for _, r := range sentence {
			if unicode.IsLetter(r) {
				if unicode.IsUpper(r) {
					capitalized++
				}
				break
			}
		}
	}
	return float64(capitalized) / float64(len(sentences)), true
}

// repeatedWords finds immediately repeated words inside each sentence, e.g. "the the"
func repeatedWords(sentences []string) []string {
	found := make([]string, 0)
	for _, sentence := range sentences {
		words := wordRe.FindAllString(strings.ToLower(sentence), -1)
		for i := 1; i < len(words); i++ {
			if words[i] == words[i-1] {
				found = append(found, words[i])
			}
		}
	}
	return found
}
