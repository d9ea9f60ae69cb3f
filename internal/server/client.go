package server

import (
	_ "embed"
	"net/http"
)

//go:embed client/index.html
var clientPage []byte

// handleClient serves the bundled recording page.
func (s *implServer) handleClient(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(clientPage)
}
