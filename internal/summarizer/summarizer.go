package summarizer

import (
	"context"
	"strings"
)

// Inputs shorter than this are not worth summarizing.
const minInputLength = 50

// Summarize produces a summary with the configured sentence count.
func (s *implSummarizer) Summarize(ctx context.Context, transcript string) (string, error) {
	return s.summarize(ctx, transcript, s.cfg.Summary.SentenceCount)
}

// QuickSummary produces a one-sentence summary for real-time updates.
func (s *implSummarizer) QuickSummary(ctx context.Context, transcript string) (string, error) {
	return s.summarize(ctx, transcript, 1)
}

func (s *implSummarizer) summarize(ctx context.Context, transcript string, sentenceCount int) (string, error) {
	if len(strings.TrimSpace(transcript)) < minInputLength {
		return "", nil
	}

	if len(s.apiKeys) > 0 {
		summary, err := s.callGemini(ctx, transcript, sentenceCount)
		if err == nil {
			return summary, nil
		}
		s.logger.Warn(ctx, "Gemini summarization failed, falling back to extractive: %v", err)
	}

	summary := lexRank(transcript, sentenceCount)
	if summary == "" {
		summary = firstSentences(transcript, sentenceCount)
	}

	s.logger.Debug(ctx, "Summary generated: %d chars", len(summary))
	return summary, nil
}
