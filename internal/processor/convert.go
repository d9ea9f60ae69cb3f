package processor

import (
	"context"
	"fmt"
	"strconv"
)

// convertToWAV converts an audio chunk to 16kHz mono PCM WAV using ffmpeg.
// The recognizer only accepts this format.
func (p *implProcessor) convertToWAV(ctx context.Context, sessionID string, seq int, inputPath string) (string, error) {
	outputPath := p.store.ConvertedChunkPath(sessionID, seq)

	args := []string{
		"-y",
		"-i", inputPath,
		"-ar", strconv.Itoa(p.cfg.Model.SampleRate),
		"-ac", "1", // Mono
		"-acodec", "pcm_s16le",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg convert: %w", err)
	}

	return outputPath, nil
}
