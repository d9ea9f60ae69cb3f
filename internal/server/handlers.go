package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// handleRoot reports service status and the endpoint map.
func (s *implServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"service": "Meeting Recorder API",
		"version": "2.0",
		"endpoints": map[string]string{
			"create_session": "POST /session/create",
			"upload_chunk":   "POST /session/{session_id}/upload",
			"end_session":    "POST /session/{session_id}/end",
			"get_transcript": "GET /session/{session_id}/transcript",
			"get_summary":    "GET /session/{session_id}/summary",
			"websocket":      "WS /ws",
			"client":         "GET /client",
		},
	})
}

// handleCreateSession registers a new recording session. A session id may be
// supplied by the client; otherwise one is generated.
func (s *implServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form data")
			return
		}
	}

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if strings.ContainsAny(sessionID, "/\\") {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if _, err := s.store.CreateSession(sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "created",
		"session_id": sessionID,
		"message":    fmt.Sprintf("Session %s created successfully", sessionID),
	})
}

// handleUploadChunk accepts one multipart audio chunk and hands it to the
// pipeline asynchronously.
func (s *implServer) handleUploadChunk(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, ok := s.store.Meta(sessionID); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if err := r.ParseMultipartForm(s.cfg.Audio.MaxChunkBytes + (1 << 20)); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	seq, err := strconv.Atoi(r.FormValue("seq"))
	if err != nil || seq < 0 {
		writeError(w, http.StatusBadRequest, "seq must be a non-negative integer")
		return
	}

	file, header, err := r.FormFile("chunk")
	if err != nil {
		writeError(w, http.StatusBadRequest, "chunk file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.Audio.MaxChunkBytes+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if int64(len(data)) > s.cfg.Audio.MaxChunkBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("chunk size exceeds %d bytes", s.cfg.Audio.MaxChunkBytes))
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.cfg.SupportsFormat(ext) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("unsupported format %q, allowed: %s", ext, strings.Join(s.cfg.Audio.Formats, ", ")))
		return
	}

	chunkPath, err := s.store.SaveChunk(sessionID, seq, data, ext)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// The upload response must not wait for transcription.
	go func(ctx context.Context) {
		if err := s.proc.ProcessChunk(ctx, sessionID, seq, chunkPath); err != nil {
			s.logger.Error(ctx, "[%s] Failed to process chunk %d: %v", sessionID, seq, err)
		}
	}(context.WithoutCancel(r.Context()))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "received",
		"session_id": sessionID,
		"seq":        seq,
		"size":       len(data),
	})
}

// handleEndSession finalizes the session and returns its final state.
func (s *implServer) handleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if _, ok := s.store.Meta(sessionID); !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	if err := s.proc.FinalizeSession(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	meta, _ := s.store.Meta(sessionID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ended",
		"session_id": sessionID,
		"transcript": s.store.Transcript(sessionID),
		"summary":    s.store.Summary(sessionID),
		"metadata":   meta,
	})
}

func (s *implServer) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	transcript := s.store.Transcript(sessionID)
	if transcript == "" {
		writeError(w, http.StatusNotFound, "Transcript not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"transcript": transcript,
	})
}

func (s *implServer) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	summary := s.store.Summary(sessionID)
	if summary == "" {
		writeError(w, http.StatusNotFound, "Summary not available yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": sessionID,
		"summary":    summary,
	})
}

// handleDownload serves transcript.txt or summary.txt as an attachment.
func (s *implServer) handleDownload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]
	kind := vars["kind"]

	if kind != "transcript" && kind != "summary" {
		writeError(w, http.StatusNotFound, "unknown download kind")
		return
	}

	path := filepath.Join(s.store.SessionDir(sessionID), kind+".txt")
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s not found", kind))
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("%s_%s.txt", sessionID, kind)))
	http.ServeFile(w, r, path)
}

func (s *implServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": s.store.ListSessions(),
	})
}

func (s *implServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.store.DeleteSession(sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "deleted",
		"session_id": sessionID,
	})
}
