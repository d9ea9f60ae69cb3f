package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	statusActive = "active"
	statusEnded  = "ended"
)

// CreateSession creates the session directory layout and registers the session.
func (s *implStorage) CreateSession(id string) (string, error) {
	dir := s.SessionDir(id)

	for _, sub := range []string{"chunks", "converted"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("create session dir: %w", err)
		}
	}

	s.mu.Lock()
	s.sessions[id] = &session{
		meta: SessionMeta{
			ID:        id,
			CreatedAt: time.Now(),
			Status:    statusActive,
		},
		buffered:    make(map[int]string),
		lastSummary: time.Now(),
	}
	meta := s.sessions[id].meta
	s.mu.Unlock()

	if err := s.writeMetadata(id, meta); err != nil {
		return "", err
	}

	return dir, nil
}

// SessionDir returns the directory for a session.
func (s *implStorage) SessionDir(id string) string {
	return filepath.Join(s.cfg.Storage.SessionsDir, id)
}

// SaveChunk writes an uploaded audio chunk to the session's chunks directory.
func (s *implStorage) SaveChunk(id string, seq int, data []byte, ext string) (string, error) {
	path := filepath.Join(s.SessionDir(id), "chunks", fmt.Sprintf("chunk_%05d%s", seq, ext))

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write chunk: %w", err)
	}

	s.mu.Lock()
	if sess, ok := s.sessions[id]; ok {
		sess.meta.ChunksReceived++
	}
	s.mu.Unlock()

	return path, nil
}

// ConvertedChunkPath returns where the 16kHz mono WAV for a chunk goes.
func (s *implStorage) ConvertedChunkPath(id string, seq int) string {
	return filepath.Join(s.SessionDir(id), "converted", fmt.Sprintf("chunk_%05d.wav", seq))
}

// AppendTranscript appends recognized text, updates the word count and
// rewrites transcript.txt.
func (s *implStorage) AppendTranscript(id, text string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}

	if sess.transcript == "" {
		sess.transcript = text
	} else {
		sess.transcript += " " + text
	}
	sess.meta.WordCount = len(strings.Fields(sess.transcript))
	transcript := sess.transcript
	s.mu.Unlock()

	path := filepath.Join(s.SessionDir(id), "transcript.txt")
	if err := os.WriteFile(path, []byte(transcript), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	return nil
}

// SetSummary stores the latest summary and rewrites summary.txt.
func (s *implStorage) SetSummary(id, summary string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	sess.summary = summary
	sess.lastSummary = time.Now()
	s.mu.Unlock()

	path := filepath.Join(s.SessionDir(id), "summary.txt")
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	return nil
}

// Transcript returns the current transcript, empty if unknown.
func (s *implStorage) Transcript(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.transcript
	}
	return ""
}

// Summary returns the current summary, empty if unknown.
func (s *implStorage) Summary(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.summary
	}
	return ""
}

// Meta returns the session metadata.
func (s *implStorage) Meta(id string) (SessionMeta, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.meta, true
	}
	return SessionMeta{}, false
}

// ListSessions returns metadata for all known sessions, oldest first.
func (s *implStorage) ListSessions() []SessionMeta {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SessionMeta, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess.meta)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ShouldSummarize reports whether the session crossed the word threshold, or
// the refresh interval elapsed with enough material to be worth summarizing.
func (s *implStorage) ShouldSummarize(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	if sess.meta.WordCount >= s.cfg.Summary.WordThreshold {
		return true
	}

	interval := time.Duration(s.cfg.Summary.IntervalSeconds) * time.Second
	if time.Since(sess.lastSummary) >= interval && sess.meta.WordCount > 50 {
		return true
	}

	return false
}

// MarkEnded flags the session as ended and persists its metadata.
func (s *implStorage) MarkEnded(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	now := time.Now()
	sess.meta.Status = statusEnded
	sess.meta.EndedAt = &now
	meta := sess.meta
	s.mu.Unlock()

	return s.writeMetadata(id, meta)
}

// DeleteSession removes the session directory and forgets the session.
func (s *implStorage) DeleteSession(id string) error {
	if err := os.RemoveAll(s.SessionDir(id)); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	return nil
}

func (s *implStorage) writeMetadata(id string, meta SessionMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	path := filepath.Join(s.SessionDir(id), "metadata.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}
