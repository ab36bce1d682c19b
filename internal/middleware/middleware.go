// Package middleware provides the HTTP middleware chain: session cookie
// decoding, the admin guard, credentialed CORS, and access logging.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tmoralesc/ludoteca/internal/auth"
)

// contextKey is a private type for context keys in this package, so keys
// cannot collide with other packages using the request context.
type contextKey string

const (
	ctxUserID    contextKey = "user_id"
	ctxIsAdmin   contextKey = "is_admin"
	ctxRequestID contextKey = "request_id"
)

// Session returns a middleware that decodes the session cookie into the
// request context. A missing, expired, or tampered cookie leaves the
// request anonymous and passes it through — read endpoints accept anonymous
// callers, and RequireAdmin does the rejecting for the rest.
func Session(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err == nil {
				if claims, err := auth.ParseToken(cookie.Value, secret); err == nil {
					ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
					ctx = context.WithValue(ctx, ctxIsAdmin, claims.IsAdmin)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests whose session is absent or not an admin
// with 403 admin_required. Must run after Session.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserID(r.Context()); !ok || !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"admin_required"}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORS allows the browser frontend to call the API from a different origin
// with credentials. Credentialed CORS forbids the "*" wildcard, so the
// request's own Origin is echoed back.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter records the response status for the access log.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logger assigns each request an id, echoes it as X-Request-ID, and writes
// one access-log line per request.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(sw, r.WithContext(
			context.WithValue(r.Context(), ctxRequestID, id)))

		slog.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}

// UserID returns the authenticated user's id, if any.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(ctxUserID).(int)
	return id, ok
}

// IsAdmin reports whether the session carries the admin flag.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(ctxIsAdmin).(bool)
	return admin
}

// RequestID returns the request id assigned by Logger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// WithSession attaches session values to a context directly. Tests use it
// to simulate an authenticated request without minting a token.
func WithSession(ctx context.Context, userID int, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}
