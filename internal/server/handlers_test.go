package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/internal/processor"
	"github.com/nguyentantai21042004/meeting-recorder/internal/storage"
)

type fakeProcessor struct {
	broadcaster processor.Broadcaster
	chunks      chan int
	finalized   chan string
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{
		chunks:    make(chan int, 16),
		finalized: make(chan string, 16),
	}
}

func (f *fakeProcessor) ProcessChunk(ctx context.Context, sessionID string, seq int, chunkPath string) error {
	f.chunks <- seq
	return nil
}

func (f *fakeProcessor) FinalizeSession(ctx context.Context, sessionID string) error {
	f.finalized <- sessionID
	return nil
}

func (f *fakeProcessor) ProcessRecording(ctx context.Context, filePath string) error {
	return nil
}

func (f *fakeProcessor) SetBroadcaster(b processor.Broadcaster) {
	f.broadcaster = b
}

func testServer(t *testing.T) (*httptest.Server, storage.Storage, *fakeProcessor, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		Model: config.ModelConfig{
			Name:          "m",
			ArchiveURL:    "u",
			RecognizerBin: "b",
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	cfg.Storage.SessionsDir = t.TempDir()

	log := logger.New("error")
	store := storage.New(cfg, log)
	proc := newFakeProcessor()

	srv := New(cfg, store, proc, log).(*implServer)
	ts := httptest.NewServer(srv.http.Handler)
	t.Cleanup(ts.Close)

	return ts, store, proc, cfg
}

func createSession(t *testing.T, ts *httptest.Server, id string) string {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("session_id", id)
	writer.Close()

	resp, err := http.Post(ts.URL+"/session/create", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create session status = %v", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out["session_id"]
}

func uploadChunk(t *testing.T, ts *httptest.Server, sessionID string, seq string, filename string, data []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("seq", seq)
	writer.WriteField("timestamp", "1700000000.0")
	part, err := writer.CreateFormFile("chunk", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	writer.Close()

	resp, err := http.Post(ts.URL+"/session/"+sessionID+"/upload", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleRoot(t *testing.T) {
	ts, _, _, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.StatusCode)
	}

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["status"] != "running" {
		t.Errorf("status = %v, want running", out["status"])
	}
}

func TestCreateSessionGeneratesID(t *testing.T) {
	ts, store, _, _ := testServer(t)

	id := createSession(t, ts, "")
	if id == "" {
		t.Fatal("no session id generated")
	}

	if _, ok := store.Meta(id); !ok {
		t.Error("generated session not registered")
	}
}

func TestCreateSessionRejectsPathSeparators(t *testing.T) {
	ts, _, _, _ := testServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("session_id", "../evil")
	writer.Close()

	resp, err := http.Post(ts.URL+"/session/create", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
}

func TestUploadChunk(t *testing.T) {
	ts, store, proc, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp := uploadChunk(t, ts, id, "0", "chunk_0.webm", []byte("audio-bytes"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %v, body = %s", resp.StatusCode, body)
	}

	// The chunk is handed to the pipeline asynchronously.
	select {
	case seq := <-proc.chunks:
		if seq != 0 {
			t.Errorf("processed seq = %v, want 0", seq)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("chunk never reached the processor")
	}

	meta, _ := store.Meta(id)
	if meta.ChunksReceived != 1 {
		t.Errorf("ChunksReceived = %v, want 1", meta.ChunksReceived)
	}
}

func TestUploadChunkUnknownSession(t *testing.T) {
	ts, _, _, _ := testServer(t)

	resp := uploadChunk(t, ts, "missing", "0", "c.webm", []byte("x"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want 404", resp.StatusCode)
	}
}

func TestUploadChunkUnsupportedFormat(t *testing.T) {
	ts, _, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp := uploadChunk(t, ts, id, "0", "chunk.txt", []byte("x"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
}

func TestUploadChunkTooLarge(t *testing.T) {
	ts, _, _, cfg := testServer(t)
	cfg.Audio.MaxChunkBytes = 8
	id := createSession(t, ts, "s1")

	resp := uploadChunk(t, ts, id, "0", "chunk.webm", []byte("way more than eight bytes"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %v, want 413", resp.StatusCode)
	}
}

func TestUploadChunkBadSeq(t *testing.T) {
	ts, _, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp := uploadChunk(t, ts, id, "not-a-number", "chunk.webm", []byte("x"))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %v, want 400", resp.StatusCode)
	}
}

func TestGetTranscript(t *testing.T) {
	ts, store, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp, err := http.Get(ts.URL + "/session/" + id + "/transcript")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("empty transcript status = %v, want 404", resp.StatusCode)
	}

	if err := store.AppendTranscript(id, "hello from the meeting"); err != nil {
		t.Fatal(err)
	}

	resp, err = http.Get(ts.URL + "/session/" + id + "/transcript")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.StatusCode)
	}

	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out["transcript"] != "hello from the meeting" {
		t.Errorf("transcript = %q", out["transcript"])
	}
}

func TestGetSummaryNotReady(t *testing.T) {
	ts, _, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp, err := http.Get(ts.URL + "/session/" + id + "/summary")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %v, want 404", resp.StatusCode)
	}
}

func TestEndSession(t *testing.T) {
	ts, _, proc, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp, err := http.Post(ts.URL+"/session/"+id+"/end", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.StatusCode)
	}

	select {
	case got := <-proc.finalized:
		if got != id {
			t.Errorf("finalized = %q, want %q", got, id)
		}
	default:
		t.Error("FinalizeSession was not called")
	}
}

func TestDownloadTranscript(t *testing.T) {
	ts, store, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp, err := http.Get(ts.URL + "/session/" + id + "/download/transcript")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing file status = %v, want 404", resp.StatusCode)
	}

	path := filepath.Join(store.SessionDir(id), "transcript.txt")
	if err := os.WriteFile(path, []byte("the full transcript"), 0644); err != nil {
		t.Fatal(err)
	}

	resp, err = http.Get(ts.URL + "/session/" + id + "/download/transcript")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %v", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "the full transcript" {
		t.Errorf("body = %q", body)
	}
}

func TestListAndDeleteSession(t *testing.T) {
	ts, store, _, _ := testServer(t)
	id := createSession(t, ts, "s1")

	resp, err := http.Get(ts.URL + "/sessions")
	if err != nil {
		t.Fatal(err)
	}
	var listing struct {
		Sessions []storage.SessionMeta `json:"sessions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(listing.Sessions) != 1 || listing.Sessions[0].ID != id {
		t.Errorf("sessions = %+v", listing.Sessions)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/session/"+id, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %v", resp.StatusCode)
	}

	if _, ok := store.Meta(id); ok {
		t.Error("session still present after delete")
	}
}
