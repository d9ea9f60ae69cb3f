package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// recognizerResult is one JSON line emitted by the recognizer binary.
// Final segments carry "text", in-flight segments carry "partial".
type recognizerResult struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// TranscribeChunk runs the recognizer over one converted WAV chunk and returns
// the recognized text. A trailing partial result is held back and surfaced by
// FinalizeSession.
func (t *implTranscriber) TranscribeChunk(ctx context.Context, sessionID, wavPath string) (string, error) {
	args := []string{
		"-m", t.cfg.ModelPath(),
		"-r", fmt.Sprintf("%d", t.cfg.Model.SampleRate),
		"-i", wavPath,
	}

	output, err := t.executor.Execute(ctx, t.cfg.Model.RecognizerBin, args...)
	if err != nil {
		return "", fmt.Errorf("recognizer: %w", err)
	}

	text, partial, err := parseRecognizerOutput(output)
	if err != nil {
		return "", fmt.Errorf("parse recognizer output: %w", err)
	}

	t.mu.Lock()
	if partial != "" {
		t.partials[sessionID] = partial
	}
	t.mu.Unlock()

	if text != "" {
		t.logger.Debug(ctx, "[%s] Transcribed: %s", sessionID, text)
	}

	return text, nil
}

// FinalizeSession flushes any held-back partial text and drops session state.
func (t *implTranscriber) FinalizeSession(ctx context.Context, sessionID string) (string, error) {
	t.mu.Lock()
	partial := t.partials[sessionID]
	delete(t.partials, sessionID)
	t.mu.Unlock()

	return partial, nil
}

// parseRecognizerOutput reads the JSON lines the recognizer prints, joining
// final text segments and keeping the last partial segment.
func parseRecognizerOutput(output string) (text string, partial string, err error) {
	var segments []string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var res recognizerResult
		if err := json.Unmarshal([]byte(line), &res); err != nil {
			return "", "", fmt.Errorf("invalid recognizer line %q: %w", line, err)
		}

		if s := strings.TrimSpace(res.Text); s != "" {
			segments = append(segments, s)
			partial = ""
		}
		if s := strings.TrimSpace(res.Partial); s != "" {
			partial = s
		}
	}

	return strings.Join(segments, " "), partial, nil
}
