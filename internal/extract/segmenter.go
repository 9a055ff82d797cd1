package extract

import (
	"strings"
	"unicode/utf8"
)

// minSentenceLength is the noise filter: fragments at or below this
// trimmed length rarely carry checkable content and are discarded.
const minSentenceLength = 10

// sentenceTerminators are the runes that end a sentence
const sentenceTerminators = ".!?"

// SplitSentences splits transcript text into candidate sentence units.
// A run of terminal punctuation ends a sentence, except for a period
// between two digits, which is a decimal point. Each sentence keeps its
// terminator so the classifier can recognize interrogatives; fragments
// are trimmed and source order is preserved. Stateless, pure function.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)

	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		if isDecimalPoint(runes, i) {
			continue
		}
		// Absorb the whole terminator run
		end := i
		for end+1 < len(runes) && isTerminator(runes[end+1]) {
			end++
		}
		if s, ok := cleanSentence(string(runes[start : end+1])); ok {
			sentences = append(sentences, s)
		}
		start = end + 1
		i = end
	}
	if s, ok := cleanSentence(string(runes[start:])); ok {
		sentences = append(sentences, s)
	}

	return sentences
}

// cleanSentence trims a fragment and applies the noise filter. The
// length check counts runes, not bytes, and ignores the trailing
// terminator run.
func cleanSentence(fragment string) (string, bool) {
	s := strings.TrimSpace(fragment)
	core := strings.TrimRight(s, sentenceTerminators)
	if utf8.RuneCountInString(core) <= minSentenceLength {
		return "", false
	}
	return s, true
}

// TrimTerminators strips the sentence-terminal punctuation a segmented
// sentence carries, yielding the bare claim text.
func TrimTerminators(sentence string) string {
	return strings.TrimSpace(strings.TrimRight(sentence, sentenceTerminators))
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// isDecimalPoint reports whether the period at index i sits between two
// digits, as in "4.5 billion".
func isDecimalPoint(runes []rune, i int) bool {
	return runes[i] == '.' &&
		i > 0 && i+1 < len(runes) &&
		isDigit(runes[i-1]) && isDigit(runes[i+1])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
