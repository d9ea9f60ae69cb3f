package processor

// Event types broadcast over the WebSocket hub.

type TranscriptUpdateEvent struct {
	Type           string `json:"type"`
	SessionID      string `json:"session_id"`
	Text           string `json:"text"`
	FullTranscript string `json:"full_transcript"`
}

type SummaryEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Summary   string `json:"summary"`
}

type SessionEndedEvent struct {
	Type       string `json:"type"`
	SessionID  string `json:"session_id"`
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

func newTranscriptUpdate(sessionID, text, full string) TranscriptUpdateEvent {
	return TranscriptUpdateEvent{
		Type:           "transcript_update",
		SessionID:      sessionID,
		Text:           text,
		FullTranscript: full,
	}
}

func newSummaryEvent(sessionID, summary string) SummaryEvent {
	return SummaryEvent{
		Type:      "summary",
		SessionID: sessionID,
		Summary:   summary,
	}
}

func newSessionEnded(sessionID, transcript, summary string) SessionEndedEvent {
	return SessionEndedEvent{
		Type:       "session_ended",
		SessionID:  sessionID,
		Transcript: transcript,
		Summary:    summary,
	}
}
