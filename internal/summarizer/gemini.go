package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const summaryPrompt = `You are a meeting assistant. Summarize the meeting transcript below in at most %d sentences.

Requirements:
- Capture the main topics, decisions and action items
- Plain prose, no headings or bullet points
- Do not invent anything that is not in the transcript

Transcript:
---
%s
---`

// callGemini sends the transcript to Gemini and returns the summary text.
// Rotates API keys on 429 / quota errors.
func (s *implSummarizer) callGemini(ctx context.Context, transcript string, sentenceCount int) (string, error) {
	prompt := fmt.Sprintf(summaryPrompt, sentenceCount, transcript)

	attempts := len(s.apiKeys)
	var lastErr error

	for range attempts {
		s.keyMu.Lock()
		idx := s.currentKey
		s.keyMu.Unlock()
		key := s.apiKeys[idx]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				s.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return strings.TrimSpace(text), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.keyMu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	s.keyMu.Unlock()
}
