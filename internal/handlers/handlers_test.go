package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/tmoralesc/ludoteca/internal/middleware"
	"github.com/tmoralesc/ludoteca/internal/store"
)

const testSecret = "handler-test-secret"

var testDBCounter uint64

// newTestServer creates a Server backed by a unique in-memory SQLite
// database, fully bootstrapped (schema, admin account, seed catalogue).
func newTestServer(t *testing.T) *Server {
	t.Helper()
	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", id)
	st, err := store.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("newTestServer: open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Bootstrap(context.Background()); err != nil {
		t.Fatalf("newTestServer: bootstrap: %v", err)
	}
	return &Server{Store: st, Secret: testSecret, UploadDir: t.TempDir()}
}

// newTestRouter wires srv exactly the way main does, middleware included.
func newTestRouter(srv *Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", srv.Root)
	mux.HandleFunc("GET /api/health", srv.Health)
	mux.HandleFunc("POST /api/auth/login", srv.Login)
	mux.HandleFunc("POST /api/auth/logout", srv.Logout)
	mux.HandleFunc("GET /api/auth/me", srv.Me)
	mux.HandleFunc("GET /api/games", srv.ListGames)
	mux.HandleFunc("GET /api/games/{id}", srv.GetGame)

	admin := middleware.RequireAdmin
	mux.Handle("POST /api/games", admin(http.HandlerFunc(srv.CreateGame)))
	mux.Handle("PUT /api/games/{id}", admin(http.HandlerFunc(srv.UpdateGame)))
	mux.Handle("DELETE /api/games/{id}", admin(http.HandlerFunc(srv.DeleteGame)))
	mux.Handle("POST /api/upload", admin(http.HandlerFunc(srv.Upload)))

	mux.Handle("GET /static/uploads/",
		http.StripPrefix("/static/uploads/", StaticUploads(srv.UploadDir)))

	return middleware.Logger(middleware.CORS(middleware.Session(srv.Secret)(mux)))
}

// jsonBody encodes v to JSON for use as a request body.
func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("jsonBody: %v", err)
	}
	return buf
}

// asAdmin attaches an admin session to a request's context, simulating the
// Session middleware for direct handler calls.
func asAdmin(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), 1, true))
}
