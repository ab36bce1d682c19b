package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/tmoralesc/ludoteca/internal/models"
	"github.com/tmoralesc/ludoteca/internal/store"
)

// gameID parses the {id} path segment. A non-numeric id behaves like an
// unknown one: the route simply has nothing there.
func gameID(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

// ListGames handles GET /api/games — public, unpaginated.
func (s *Server) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.Store.ListGames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respond(w, http.StatusOK, games)
}

// GetGame handles GET /api/games/{id} — public.
func (s *Server) GetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	game, err := s.Store.GetGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	respond(w, http.StatusOK, game)
}

// CreateGame handles POST /api/games (admin).
//
// The body is decoded as a free-form object so the handler can tell an
// absent key from an explicit null. Validation mirrors the frontend form:
// name, description, and year must all be non-empty; an absent or empty
// image_path becomes the default image.
func (s *Server) CreateGame(w http.ResponseWriter, r *http.Request) {
	var data map[string]any
	if err := decode(r, &data); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	name, _ := data["name"].(string)
	description, _ := data["description"].(string)
	year := intField(data["year"])
	if name == "" || description == "" || year == 0 {
		respondError(w, http.StatusBadRequest, "fill all fields")
		return
	}

	var url *string
	if v, ok := data["url"].(string); ok {
		url = &v
	}
	imagePath, _ := data["image_path"].(string)
	if imagePath == "" {
		imagePath = models.DefaultImagePath
	}

	game, err := s.Store.CreateGame(r.Context(), name, description, year, url, imagePath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "could not create game")
		return
	}
	respond(w, http.StatusCreated, game)
}

// UpdateGame handles PUT /api/games/{id} (admin).
//
// Sparse patch: a column is written only when its key appears in the body.
// Unlike create, an image_path explicitly set to empty is stored as empty —
// the default substitution applies at creation only.
func (s *Server) UpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	var data map[string]any
	if err := decode(r, &data); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	fields := make(map[string]any)
	for _, key := range []string{"name", "description", "year", "url", "image_path"} {
		v, ok := data[key]
		if !ok {
			continue
		}
		if key == "year" && v != nil {
			v = intField(v)
		}
		fields[key] = v
	}

	game, err := s.Store.UpdateGame(r.Context(), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoFields):
			respondError(w, http.StatusBadRequest, "no changes")
		case errors.Is(err, store.ErrNotFound):
			respondError(w, http.StatusNotFound, "not found")
		default:
			respondError(w, http.StatusInternalServerError, "could not update game")
		}
		return
	}
	respond(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /api/games/{id} (admin).
func (s *Server) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	deleted, err := s.Store.DeleteGame(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "could not delete game")
		return
	}
	respond(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// intField converts a decoded JSON number to int. encoding/json hands
// numbers over as float64; anything else yields 0.
func intField(v any) int {
	f, _ := v.(float64)
	return int(f)
}
