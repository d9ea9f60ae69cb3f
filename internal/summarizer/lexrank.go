package summarizer

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// similarityThreshold is the minimum idf-modified cosine similarity for two
// sentences to count as connected in the centrality graph.
const similarityThreshold = 0.1

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "for": true, "from": true, "had": true,
	"has": true, "have": true, "he": true, "her": true, "his": true, "i": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "our": true, "she": true, "so": true, "that": true, "the": true,
	"their": true, "them": true, "there": true, "they": true, "this": true,
	"to": true, "was": true, "we": true, "were": true, "will": true,
	"with": true, "you": true, "your": true,
}

// lexRank picks the sentenceCount most central sentences, preserving their
// original order. Returns empty when the input has too few usable sentences.
func lexRank(text string, sentenceCount int) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= sentenceCount {
		return strings.Join(sentences, " ")
	}

	tokens := make([][]string, len(sentences))
	for i, s := range sentences {
		tokens[i] = tokenize(s)
	}

	idf := inverseDocumentFrequency(tokens)

	// Degree centrality over the similarity graph.
	scores := make([]float64, len(sentences))
	for i := range sentences {
		for j := range sentences {
			if i == j {
				continue
			}
			if sim := idfModifiedCosine(tokens[i], tokens[j], idf); sim >= similarityThreshold {
				scores[i] += sim
			}
		}
	}

	ranked := make([]int, len(sentences))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	picked := ranked[:sentenceCount]
	sort.Ints(picked)

	out := make([]string, 0, sentenceCount)
	for _, idx := range picked {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " ")
}

// firstSentences is the fallback when ranking produces nothing useful.
func firstSentences(text string, sentenceCount int) string {
	sentences := splitSentences(text)
	if len(sentences) > sentenceCount {
		sentences = sentences[:sentenceCount]
	}
	return strings.Join(sentences, " ")
}

// splitSentences breaks text on sentence terminators, keeping the terminator.
// Transcripts without punctuation come back as a single sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// tokenize lowercases a sentence and strips punctuation and stop words.
func tokenize(sentence string) []string {
	fields := strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	var words []string
	for _, w := range fields {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	return words
}

func inverseDocumentFrequency(tokens [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, sentence := range tokens {
		seen := make(map[string]bool)
		for _, w := range sentence {
			if !seen[w] {
				df[w]++
				seen[w] = true
			}
		}
	}

	idf := make(map[string]float64, len(df))
	n := float64(len(tokens))
	for w, count := range df {
		idf[w] = math.Log(n / (1 + float64(count)))
	}
	return idf
}

func idfModifiedCosine(a, b []string, idf map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	tfA := termFrequency(a)
	tfB := termFrequency(b)

	var dot float64
	for w, fa := range tfA {
		if fb, ok := tfB[w]; ok {
			dot += float64(fa) * float64(fb) * idf[w] * idf[w]
		}
	}
	if dot == 0 {
		return 0
	}

	return dot / (norm(tfA, idf) * norm(tfB, idf))
}

func termFrequency(words []string) map[string]int {
	tf := make(map[string]int)
	for _, w := range words {
		tf[w]++
	}
	return tf
}

func norm(tf map[string]int, idf map[string]float64) float64 {
	var sum float64
	for w, f := range tf {
		v := float64(f) * idf[w]
		sum += v * v
	}
	return math.Sqrt(sum)
}
