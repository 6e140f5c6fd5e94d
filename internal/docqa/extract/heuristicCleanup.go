package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/akolanti/DocChat/internal/docqa/textkit"
)

const ws = textkit.Space

type rewrite struct {
	pattern     *regexp.Regexp
	replacement string
}

// applied in order; later rules rely on earlier ones having removed structure
var cleanupRules = []rewrite{
	{regexp.MustCompile(`/[A-Za-z]+` + ws + `+[0-9]+` + ws + `+0` + ws + `+R`), ""},
	{regexp.MustCompile(`[0-9]+` + ws + `+0` + ws + `+obj`), ""},
	{regexp.MustCompile(`endobj`), ""},
	{regexp.MustCompile(`(?s)stream.*?endstream`), ""},
	{regexp.MustCompile(`(?s)BT.*?ET`), ""},
	{regexp.MustCompile(`[0-9]+` + ws + `+[0-9]+` + ws + `+[0-9]+` + ws + `+[0-9]+` + ws + `+[0-9]+` + ws + `+[0-9]+`), ""},
	{regexp.MustCompile(`[0-9]+\.[0-9]+` + ws + `+[0-9]+\.[0-9]+` + ws + `+[0-9]+\.[0-9]+` + ws + `+[0-9]+\.[0-9]+`), ""},
	{regexp.MustCompile(`[0-9]+` + ws + `+[0-9]+` + ws + `+[0-9]+`), ""},
	{regexp.MustCompile(`[0-9]+` + ws + `+[0-9]+`), ""},
	{regexp.MustCompile(`[0-9]+`), ""},
	{regexp.MustCompile(`[^\w\t\n\v\f\r \x{00A0}.,!?;:()\-]`), " "},
	{regexp.MustCompile(ws + `+`), " "},
}

var asciiLetter = regexp.MustCompile(`[a-zA-Z]`)

type cleanupStrategy struct{}

func (cleanupStrategy) Name() string { return StrategyCleanup }

func (cleanupStrategy) Extract(_ context.Context, data []byte) Result {
	text, err := byteString(data)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Text: ReadableText(text)}
}

// ReadableText strips PDF structure from a raw byte string and keeps only fragments that read like
// sentences: longer than 10 characters, more than 3 words, with at least one letter.
func ReadableText(text string) string {
	for _, rule := range cleanupRules {
		text = rule.pattern.ReplaceAllString(text, rule.replacement)
	}
	text = textkit.Trim(text)

	var sentences []string
	for _, sentence := range textkit.SplitSentences(text) {
		if looksLikeProse(sentence) {
			sentences = append(sentences, sentence)
		}
	}
	return textkit.Trim(strings.Join(sentences, ". "))
}

func looksLikeProse(sentence string) bool {
	trimmed := textkit.Trim(sentence)
	return textkit.Length(trimmed) > 10 &&
		len(strings.Split(trimmed, " ")) > 3 &&
		!digitsAndSpaces.MatchString(trimmed) &&
		asciiLetter.MatchString(trimmed)
}
