package summarizer

import "context"

// Summarizer condenses a meeting transcript into a few sentences.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	QuickSummary(ctx context.Context, transcript string) (string, error)
}
