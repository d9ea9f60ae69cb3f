package summarizer

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single sentence", "The meeting starts now.", 1},
		{"multiple terminators", "First point. Second point! Third point?", 3},
		{"no punctuation", "a raw transcript without punctuation", 1},
		{"trailing text", "Done. And one more thing", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if len(got) != tt.want {
				t.Errorf("splitSentences() = %d sentences, want %d: %v", len(got), tt.want, got)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	words := tokenize("The budget, and the schedule!")
	want := []string{"budget", "schedule"}

	if len(words) != len(want) {
		t.Fatalf("tokenize() = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("tokenize()[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestLexRank(t *testing.T) {
	text := "The team discussed the quarterly budget in detail. " +
		"The budget for the next quarter was approved by everyone. " +
		"Someone mentioned the weather briefly. " +
		"Action items about the budget were assigned to the team. " +
		"The meeting ended on time."

	summary := lexRank(text, 2)
	if summary == "" {
		t.Fatal("lexRank() returned empty summary")
	}

	sentences := splitSentences(summary)
	if len(sentences) != 2 {
		t.Errorf("summary has %d sentences, want 2: %q", len(sentences), summary)
	}

	// The budget sentences dominate the similarity graph.
	if !strings.Contains(summary, "budget") {
		t.Errorf("summary should mention the central topic: %q", summary)
	}
}

func TestLexRankFewSentences(t *testing.T) {
	text := "Only one sentence here."
	if got := lexRank(text, 3); got != text {
		t.Errorf("lexRank() = %q, want input unchanged", got)
	}
}

func TestFirstSentences(t *testing.T) {
	text := "One. Two. Three. Four."
	got := firstSentences(text, 2)
	if got != "One. Two." {
		t.Errorf("firstSentences() = %q, want %q", got, "One. Two.")
	}
}
