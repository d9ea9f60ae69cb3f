package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
	"github.com/nguyentantai21042004/meeting-recorder/internal/processor"
	"github.com/nguyentantai21042004/meeting-recorder/internal/storage"
)

type implServer struct {
	cfg    *config.Config
	store  storage.Storage
	proc   processor.Processor
	logger logger.Logger
	hub    *hub
	http   *http.Server
}

// New creates the server and wires its WebSocket hub into the processor so
// pipeline events reach connected clients.
func New(cfg *config.Config, store storage.Storage, proc processor.Processor, log logger.Logger) Server {
	s := &implServer{
		cfg:    cfg,
		store:  store,
		proc:   proc,
		logger: log,
		hub:    newHub(cfg.Server.MaxClients, log),
	}

	proc.SetBroadcaster(s.hub)

	router := mux.NewRouter()
	router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	router.HandleFunc("/session/create", s.handleCreateSession).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/upload", s.handleUploadChunk).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/end", s.handleEndSession).Methods(http.MethodPost)
	router.HandleFunc("/session/{id}/transcript", s.handleGetTranscript).Methods(http.MethodGet)
	router.HandleFunc("/session/{id}/summary", s.handleGetSummary).Methods(http.MethodGet)
	router.HandleFunc("/session/{id}/download/{kind}", s.handleDownload).Methods(http.MethodGet)
	router.HandleFunc("/session/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	router.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.hub.handleWS)
	router.HandleFunc("/client", s.handleClient).Methods(http.MethodGet)

	handler := cors.AllowAll().Handler(router)

	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: handler,
	}

	return s
}
