package storage

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when an operation references an unknown session.
var ErrSessionNotFound = errors.New("session not found")

// SessionMeta is the metadata persisted for each session.
type SessionMeta struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	EndedAt        *time.Time `json:"ended_at,omitempty"`
	Status         string     `json:"status"`
	ChunksReceived int        `json:"chunks_received"`
	WordCount      int        `json:"word_count"`
}

// Storage manages session state and file layout under the sessions directory.
type Storage interface {
	CreateSession(id string) (string, error)
	SessionDir(id string) string
	SaveChunk(id string, seq int, data []byte, ext string) (string, error)
	ConvertedChunkPath(id string, seq int) string

	AppendTranscript(id, text string) error
	SetSummary(id, summary string) error
	Transcript(id string) string
	Summary(id string) string
	Meta(id string) (SessionMeta, bool)
	ListSessions() []SessionMeta

	ShouldSummarize(id string) bool
	MarkEnded(id string) error
	DeleteSession(id string) error

	ExpectedSeq(id string) int
	AdvanceSeq(id string)
	BufferChunk(id string, seq int, path string)
	TakeBufferedChunk(id string, seq int) (string, bool)

	CleanupExpired(ctx context.Context) int
}
