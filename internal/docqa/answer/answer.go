// Package answer produces canned, keyword-dispatched responses over a document corpus.
// Every function is pure: same question and corpus, same text.
package answer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/akolanti/DocChat/internal/docqa/textkit"
)

type Kind string

const (
	KindNoDocuments  Kind = "NoDocuments"
	KindSummary      Kind = "Summary"
	KindKeyFindings  Kind = "KeyFindings"
	KindMainTopics   Kind = "MainTopics"
	KindDirectAnswer Kind = "DirectAnswer"
	KindGeneral      Kind = "General"
)

const NoDocumentsMessage = "No documents are loaded. Please upload or paste some content first."

const (
	minSentenceLength = 10
	minFindingLength  = 20
	minWordLength     = 3
	maxSummary        = 5
	maxFindings       = 5
	maxTopics         = 8
	maxAnswer         = 3
	maxGeneral        = 2
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "with": true, "by": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "have": true, "has": true, "had": true,
	"do": true, "does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "this": true, "that": true, "these": true, "those": true,
	"i": true, "you": true, "he": true, "she": true, "it": true, "we": true, "they": true, "me": true,
	"him": true, "her": true, "us": true, "them": true,
}

type Response struct {
	Kind Kind
	Text string
}

// Answer short-circuits on an empty corpus, otherwise dispatches on the question.
func Answer(question string, corpus string) Response {
	if corpus == "" {
		return Response{Kind: KindNoDocuments, Text: NoDocumentsMessage}
	}
	kind := Classify(question)
	var text string
	switch kind {
	case KindSummary:
		text = Summary(corpus)
	case KindKeyFindings:
		text = KeyFindings(corpus)
	case KindMainTopics:
		text = MainTopics(corpus)
	case KindDirectAnswer:
		text = DirectAnswer(question, corpus)
	default:
		text = GeneralResponse(question, corpus)
	}
	return Response{Kind: kind, Text: text}
}

// Classify picks the handler; the first matching row wins.
func Classify(question string) Kind {
	lower := strings.ToLower(question)
	switch {
	case containsAny(lower, "summarize", "summary"):
		return KindSummary
	case containsAny(lower, "key findings", "main findings"):
		return KindKeyFindings
	case containsAny(lower, "topics", "main topics"):
		return KindMainTopics
	case containsAny(lower, "what", "how", "why"):
		return KindDirectAnswer
	default:
		return KindGeneral
	}
}

func containsAny(s string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func Summary(corpus string) string {
	sentences := textkit.LongSentences(corpus, minSentenceLength)
	count := min(maxSummary, (len(sentences)+2)/3)
	summary := textkit.Trim(strings.Join(sentences[:count], ". "))

	return fmt.Sprintf("**Summary:**\n\n%s\n\nThis summary covers the main points from your document(s). Would you like me to elaborate on any specific aspect?", textkit.EnsurePeriod(summary))
}

func KeyFindings(corpus string) string {
	var findings []string
	for _, line := range strings.Split(corpus, "\n") {
		if len(findings) == maxFindings {
			break
		}
		trimmed := textkit.Trim(line)
		if textkit.Length(trimmed) > minFindingLength {
			findings = append(findings, fmt.Sprintf("%d. %s", len(findings)+1, trimmed))
		}
	}

	return fmt.Sprintf("**Key Findings:**\n\n%s\n\nThese are the main points I identified in your document(s). Let me know if you'd like more details about any of these findings.", strings.Join(findings, "\n"))
}

type TopicCount struct {
	Word  string
	Count int
}

// Topics counts lowercased words longer than three characters that are not stop words and returns
// the most frequent ones, highest count first. Equal counts keep the order in which the words were
// first seen in the corpus.
func Topics(corpus string, limit int) []TopicCount {
	counts := make(map[string]int)
	var order []string
	for _, word := range strings.FieldsFunc(strings.ToLower(corpus), textkit.IsSpace) {
		if textkit.Length(word) <= minWordLength || stopWords[word] {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	topics := make([]TopicCount, len(order))
	for i, word := range order {
		topics[i] = TopicCount{Word: word, Count: counts[word]}
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func MainTopics(corpus string) string {
	topics := Topics(corpus, maxTopics)
	lines := make([]string, len(topics))
	for i, topic := range topics {
		lines[i] = fmt.Sprintf("• %s (%d mentions)", topic.Word, topic.Count)
	}

	return fmt.Sprintf("**Main Topics Discussed:**\n\n%s\n\nThese are the most frequently mentioned topics in your document(s). Would you like me to explain any of these topics in more detail?", strings.Join(lines, "\n"))
}

// QuestionKeywords splits the question on spaces and keeps the lowercased words longer than three
// characters once surrounding punctuation is dropped.
func QuestionKeywords(question string) []string {
	var keywords []string
	for _, token := range strings.Split(strings.ToLower(question), " ") {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if textkit.Length(token) > minWordLength {
			keywords = append(keywords, token)
		}
	}
	return keywords
}

func DirectAnswer(question string, corpus string) string {
	keywords := QuestionKeywords(question)
	var relevant []string
	for _, sentence := range textkit.LongSentences(corpus, minSentenceLength) {
		if len(relevant) == maxAnswer {
			break
		}
		lower := strings.ToLower(sentence)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				relevant = append(relevant, sentence)
				break
			}
		}
	}

	if len(relevant) == 0 {
		return fmt.Sprintf("I couldn't find specific information related to \"%s\" in your document(s). The content might not contain information about this topic, or you might want to try rephrasing your question. Could you ask about something else or provide more context?", question)
	}
	found := textkit.Trim(strings.Join(relevant, ". "))
	return fmt.Sprintf("Based on your document(s), here's what I found:\n\n%s\n\nThis information is directly related to your question. Would you like me to provide more details or clarify anything?", textkit.EnsurePeriod(found))
}

// GeneralResponse quotes the opening sentences without looking for relevance.
func GeneralResponse(question string, corpus string) string {
	sentences := textkit.LongSentences(corpus, minSentenceLength)
	if len(sentences) > maxGeneral {
		sentences = sentences[:maxGeneral]
	}
	excerpt := strings.Join(sentences, ". ")

	return fmt.Sprintf("I understand you're asking about \"%s\". Based on your document(s), here's some relevant information:\n\n%s\n\nIs there something specific you'd like to know more about? I can help you find more detailed information or answer other questions about your content.", question, textkit.EnsurePeriod(excerpt))
}
