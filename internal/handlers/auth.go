package handlers

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmoralesc/ludoteca/internal/auth"
	"github.com/tmoralesc/ludoteca/internal/middleware"
	"github.com/tmoralesc/ludoteca/internal/models"
	"github.com/tmoralesc/ludoteca/internal/store"
)

// Root handles GET /{$} — a small banner pointing at the health check.
func (s *Server) Root(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"message":    "videogames API running",
		"health_url": "/api/health",
	})
}

// Health handles GET /api/health
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles POST /api/auth/login
//
// The 401 body is identical for an unknown username and a wrong password,
// so a caller cannot probe which usernames exist. A successful login
// replaces whatever session cookie the client held before.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	user, err := s.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.IsAdmin, s.Secret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not generate token")
		return
	}
	auth.SetCookie(w, token)

	respond(w, http.StatusOK, models.LoginResponse{
		Message: "logged in",
		User:    models.LoginUser{Username: user.Username, IsAdmin: user.IsAdmin},
	})
}

// Logout handles POST /api/auth/logout
// Clearing the cookie is unconditional, so logging out twice is harmless.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w)
	respond(w, http.StatusOK, map[string]string{"message": "see you next time"})
}

// Me handles GET /api/auth/me
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserID(r.Context()); !ok {
		respond(w, http.StatusOK, models.MeResponse{Authenticated: false})
		return
	}
	admin := middleware.IsAdmin(r.Context())
	respond(w, http.StatusOK, models.MeResponse{Authenticated: true, IsAdmin: &admin})
}
