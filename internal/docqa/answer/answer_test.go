package answer

import (
	"strings"
	"testing"
)

const animals = "Cats are mammals. Dogs are mammals. Birds can fly."

func TestAnswer_NoDocuments(t *testing.T) {
	questions := []string{"", "summarize", "What are cats?", "key findings please", "anything"}
	for _, q := range questions {
		res := Answer(q, "")
		if res.Kind != KindNoDocuments {
			t.Errorf("Answer(%q) kind = %s, want %s", q, res.Kind, KindNoDocuments)
		}
		if res.Text != "No documents are loaded. Please upload or paste some content first." {
			t.Errorf("Answer(%q) = %q", q, res.Text)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		question string
		expected Kind
	}{
		{"Can you summarize the main topics?", KindSummary},
		{"Give me a SUMMARY", KindSummary},
		{"What are the key findings?", KindKeyFindings},
		{"list the main findings", KindKeyFindings},
		{"Which topics come up?", KindMainTopics},
		{"What are cats?", KindDirectAnswer},
		{"how does it work", KindDirectAnswer},
		{"Why", KindDirectAnswer},
		{"somewhat odd", KindDirectAnswer},
		{"Tell me about dogs", KindGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			if got := Classify(tt.question); got != tt.expected {
				t.Errorf("Classify(%q) = %s, want %s", tt.question, got, tt.expected)
			}
		})
	}
}

func TestAnswer_DirectAnswerFindsSentence(t *testing.T) {
	res := Answer("What are cats?", animals)
	if res.Kind != KindDirectAnswer {
		t.Fatalf("kind = %s, want %s", res.Kind, KindDirectAnswer)
	}
	want := "Based on your document(s), here's what I found:\n\nCats are mammals.\n\nThis information is directly related to your question. Would you like me to provide more details or clarify anything?"
	if res.Text != want {
		t.Errorf("got %q\nwant %q", res.Text, want)
	}
}

func TestDirectAnswer_NotFound(t *testing.T) {
	got := DirectAnswer("What about reptiles?", animals)
	want := "I couldn't find specific information related to \"What about reptiles?\" in your document(s). The content might not contain information about this topic, or you might want to try rephrasing your question. Could you ask about something else or provide more context?"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestDirectAnswer_AtMostThree(t *testing.T) {
	corpus := "Mammals are warm blooded. Some mammals fly. Most mammals have fur. Whales are mammals too."
	got := DirectAnswer("what are mammals", corpus)
	want := "Based on your document(s), here's what I found:\n\nMammals are warm blooded.  Some mammals fly.  Most mammals have fur.\n\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "Whales") {
		t.Errorf("expected only the first three matches, got %q", got)
	}
}

func TestQuestionKeywords(t *testing.T) {
	got := QuestionKeywords("What are CATS? (really) a b")
	want := []string{"what", "cats", "really"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("QuestionKeywords = %q, want %q", got, want)
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		corpus   string
		expected string
	}{
		{"one of three", animals, "Cats are mammals."},
		{
			"ceil of a third",
			"First sentence here. Second sentence here. Third sentence here. Fourth sentence here.",
			"First sentence here.  Second sentence here.",
		},
		{"nothing long enough", "Short. Tiny.", "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := "**Summary:**\n\n" + tt.expected + "\n\nThis summary covers the main points from your document(s). Would you like me to elaborate on any specific aspect?"
			if got := Summary(tt.corpus); got != want {
				t.Errorf("got %q\nwant %q", got, want)
			}
		})
	}
}

func TestSummary_CapsAtFive(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("This is a long sentence. ")
	}
	got := Summary(b.String())
	body := strings.TrimPrefix(got, "**Summary:**\n\n")
	body = body[:strings.Index(body, "\n\n")]
	if n := strings.Count(body, "This is a long sentence"); n != 5 {
		t.Errorf("summary has %d sentences, want 5: %q", n, body)
	}
}

func TestKeyFindings(t *testing.T) {
	corpus := strings.Join([]string{
		"  Revenue grew twelve percent in the third quarter.  ",
		"short line",
		"",
		"Customer churn dropped to its lowest level yet.",
		"Headcount stayed flat across every department.",
		"Operating costs fell after the office consolidation.",
		"The new product line launched two weeks early.",
		"A sixth finding that should never be listed.",
	}, "\n")

	got := KeyFindings(corpus)
	want := "**Key Findings:**\n\n" +
		"1. Revenue grew twelve percent in the third quarter.\n" +
		"2. Customer churn dropped to its lowest level yet.\n" +
		"3. Headcount stayed flat across every department.\n" +
		"4. Operating costs fell after the office consolidation.\n" +
		"5. The new product line launched two weeks early.\n\n" +
		"These are the main points I identified in your document(s). Let me know if you'd like more details about any of these findings."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestTopics(t *testing.T) {
	corpus := "The river flows. The river bends. Otters swim in the river and otters play. " +
		"Those otters were there with them. alpha beta gamma delta epsilon zeta theta iota kappa"

	topics := Topics(corpus, maxTopics)
	if len(topics) > maxTopics {
		t.Fatalf("got %d topics, want at most %d", len(topics), maxTopics)
	}
	for i, topic := range topics {
		if len([]rune(topic.Word)) <= 3 {
			t.Errorf("topic %q is too short", topic.Word)
		}
		if stopWords[topic.Word] {
			t.Errorf("topic %q is a stop word", topic.Word)
		}
		if i > 0 && topics[i-1].Count < topic.Count {
			t.Errorf("topics not sorted by count: %v", topics)
		}
	}
	if topics[0].Word != "river" || topics[0].Count != 3 {
		t.Errorf("first topic = %+v, want river x3", topics[0])
	}
	if topics[1].Word != "otters" || topics[1].Count != 3 {
		t.Errorf("second topic = %+v, want otters x3", topics[1])
	}
}

func TestTopics_TiesKeepDiscoveryOrder(t *testing.T) {
	topics := Topics("zebra apple mango zebra apple mango", 8)
	var words []string
	for _, topic := range topics {
		words = append(words, topic.Word)
	}
	if strings.Join(words, " ") != "zebra apple mango" {
		t.Errorf("order = %v", words)
	}
}

func TestMainTopics_Format(t *testing.T) {
	got := MainTopics("Planets orbit stars. Planets have moons.")
	want := "**Main Topics Discussed:**\n\n" +
		"• planets (2 mentions)\n" +
		"• orbit (1 mentions)\n" +
		"• stars. (1 mentions)\n" +
		"• moons. (1 mentions)\n\n" +
		"These are the most frequently mentioned topics in your document(s). Would you like me to explain any of these topics in more detail?"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestGeneralResponse(t *testing.T) {
	got := GeneralResponse("Tell me about pets", animals)
	want := "I understand you're asking about \"Tell me about pets\". Based on your document(s), here's some relevant information:\n\n" +
		"Cats are mammals.  Dogs are mammals.\n\n" +
		"Is there something specific you'd like to know more about? I can help you find more detailed information or answer other questions about your content."
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestAnswer_Idempotent(t *testing.T) {
	questions := []string{"summarize", "key findings", "topics", "What are cats?", "dogs"}
	for _, q := range questions {
		first := Answer(q, animals)
		second := Answer(q, animals)
		if first != second {
			t.Errorf("Answer(%q) not idempotent: %q vs %q", q, first.Text, second.Text)
		}
	}
}
