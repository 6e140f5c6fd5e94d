// Package textkit holds the small text rules shared by extraction and answering: what counts as
// whitespace, how long a string is, and how a corpus splits into sentences.
package textkit

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Space is a regexp class for the whitespace that can occur in Latin-1 decoded text.
const Space = `[\t\n\v\f\r \x{00A0}]`

var sentenceBreak = regexp.MustCompile(`[.!?]+`)

// IsSpace reports whether r is whitespace for trimming. Includes NBSP and BOM, excludes U+0085.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00A0', '\u1680', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

func Trim(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// SplitSentences splits on runs of terminators. Fragments are returned untrimmed.
func SplitSentences(text string) []string {
	return sentenceBreak.Split(text, -1)
}

// LongSentences keeps the fragments whose trimmed length exceeds minLength, in order, untrimmed.
func LongSentences(text string, minLength int) []string {
	var kept []string
	for _, sentence := range SplitSentences(text) {
		if Length(Trim(sentence)) > minLength {
			kept = append(kept, sentence)
		}
	}
	return kept
}

// EnsurePeriod appends a trailing period unless one is already there.
func EnsurePeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
