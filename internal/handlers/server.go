// Package handlers contains the HTTP handler logic for the catalogue API.
//
// All handler files share the one "handlers" package so they can use each
// other's helpers without exporting them; the files are split by concern
// (auth, games, upload) for readability. The central type is Server, which
// holds every shared dependency. Handlers only do guard checks, payload
// extraction, delegation to the store, and JSON response shaping.
package handlers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/tmoralesc/ludoteca/internal/store"
)

// Server holds shared dependencies for all handlers. A struct instead of
// package globals means tests spin up independent instances with their own
// databases and upload directories.
type Server struct {
	Store  *store.Store
	Secret string
	// UploadDir receives uploaded images; it is served under /static/uploads/.
	UploadDir string

	// uploadMu serializes the filename-collision probe in Upload.
	uploadMu sync.Mutex
}

// respond writes v as JSON with the given HTTP status code. Content-Type
// must be set before WriteHeader flushes the header block.
func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The encode error is ignored: if the client disconnected mid-write
	// there is nothing left to tell it.
	_ = json.NewEncoder(w).Encode(body)
}

// respondError sends a JSON object with a single "error" key,
// e.g. {"error": "not found"}.
func respondError(w http.ResponseWriter, status int, msg string) {
	respond(w, status, map[string]string{"error": msg})
}

// decode reads and parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
