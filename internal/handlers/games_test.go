package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/tmoralesc/ludoteca/internal/models"
)

func TestListGames_ReturnsSeedCatalogue(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ListGames(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var games []models.Game
	if err := json.NewDecoder(rec.Body).Decode(&games); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(games) == 0 {
		t.Fatal("expected seeded games")
	}
	for i := 1; i < len(games); i++ {
		if games[i].ID <= games[i-1].ID {
			t.Fatalf("games not ordered by id: %d after %d", games[i].ID, games[i-1].ID)
		}
	}
}

func TestGetGame_UnknownID(t *testing.T) {
	srv := newTestServer(t)
	for _, id := range []string{"99999", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/games/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		srv.GetGame(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("id %q: status = %d, want 404", id, rec.Code)
		}
	}
}

func TestCreateGame_DefaultsImagePath(t *testing.T) {
	srv := newTestServer(t)
	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/games",
		jsonBody(t, map[string]any{"name": "Prueba", "description": "d", "year": 2025})))
	rec := httptest.NewRecorder()
	srv.CreateGame(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var g models.Game
	if err := json.NewDecoder(rec.Body).Decode(&g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.ImagePath != models.DefaultImagePath {
		t.Errorf("image_path = %q, want default", g.ImagePath)
	}
	if g.ID == 0 || g.Name != "Prueba" || g.Year != 2025 {
		t.Errorf("created game = %+v", g)
	}
}

func TestCreateGame_MissingFields(t *testing.T) {
	srv := newTestServer(t)
	payloads := []map[string]any{
		{"description": "d", "year": 2025},
		{"name": "x", "year": 2025},
		{"name": "x", "description": "d"},
		{"name": "", "description": "d", "year": 2025},
		{"name": "x", "description": "d", "year": 0},
	}
	for _, p := range payloads {
		req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/games", jsonBody(t, p)))
		rec := httptest.NewRecorder()
		srv.CreateGame(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %v: status = %d, want 400", p, rec.Code)
		}
	}
}

func TestUpdateGame_SparsePatch(t *testing.T) {
	srv := newTestServer(t)
	before := createTestGame(t, srv)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/games/1",
		jsonBody(t, map[string]any{"description": "d2"})))
	req.SetPathValue("id", itoa(before.ID))
	rec := httptest.NewRecorder()
	srv.UpdateGame(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var after models.Game
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.Description != "d2" {
		t.Errorf("description = %q", after.Description)
	}
	if after.Name != before.Name || after.Year != before.Year || after.ImagePath != before.ImagePath {
		t.Errorf("patch touched other fields: %+v", after)
	}
}

func TestUpdateGame_NoChanges(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	for _, payload := range []map[string]any{{}, {"bogus": "x"}} {
		req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/games/1", jsonBody(t, payload)))
		req.SetPathValue("id", itoa(g.ID))
		rec := httptest.NewRecorder()
		srv.UpdateGame(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %v: status = %d, want 400", payload, rec.Code)
		}
	}
}

func TestUpdateGame_NullURL(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	// Raw JSON so url is an explicit null, which json.Marshal of a map
	// would also produce but this keeps the intent visible.
	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/games/1",
		jsonBody(t, json.RawMessage(`{"url": null}`))))
	req.SetPathValue("id", itoa(g.ID))
	rec := httptest.NewRecorder()
	srv.UpdateGame(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var after models.Game
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.URL != nil {
		t.Errorf("url = %q, want null", *after.URL)
	}
}

func TestUpdateGame_NullImagePath(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/games/1",
		jsonBody(t, json.RawMessage(`{"image_path": null}`))))
	req.SetPathValue("id", itoa(g.ID))
	rec := httptest.NewRecorder()
	srv.UpdateGame(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var after models.Game
	if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if after.ImagePath != "" {
		t.Errorf("image_path = %q, want empty", after.ImagePath)
	}

	// The rest of the catalogue keeps serving.
	rec = httptest.NewRecorder()
	srv.ListGames(rec, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("list after null image_path: status = %d", rec.Code)
	}
}

func TestUpdateGame_UnknownID(t *testing.T) {
	srv := newTestServer(t)
	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/games/99999",
		jsonBody(t, map[string]any{"name": "x"})))
	req.SetPathValue("id", "99999")
	rec := httptest.NewRecorder()
	srv.UpdateGame(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteGame(t *testing.T) {
	srv := newTestServer(t)
	g := createTestGame(t, srv)

	req := asAdmin(httptest.NewRequest(http.MethodDelete, "/api/games/1", nil))
	req.SetPathValue("id", itoa(g.ID))
	rec := httptest.NewRecorder()
	srv.DeleteGame(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["deleted"] != g.ID {
		t.Errorf("deleted = %d, want %d", body["deleted"], g.ID)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/games/1", nil)
	get.SetPathValue("id", itoa(g.ID))
	rec = httptest.NewRecorder()
	srv.GetGame(rec, get)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", rec.Code)
	}
}

func TestAdminEndpoints_Anonymous(t *testing.T) {
	// Through the real router: valid payloads must still be rejected with
	// 403 when no session cookie is present.
	srv := newTestServer(t)
	router := newTestRouter(srv)

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/games",
			jsonBody(t, map[string]any{"name": "x", "description": "d", "year": 2020})),
		httptest.NewRequest(http.MethodPut, "/api/games/1",
			jsonBody(t, map[string]any{"description": "d"})),
		httptest.NewRequest(http.MethodDelete, "/api/games/1", nil),
		httptest.NewRequest(http.MethodPost, "/api/upload", nil),
	}
	for _, req := range requests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: status = %d, want 403", req.Method, req.URL.Path, rec.Code)
		}
	}
}

// createTestGame inserts a game through the store and returns it.
func createTestGame(t *testing.T, srv *Server) models.Game {
	t.Helper()
	g, err := srv.Store.CreateGame(context.Background(),
		"Prueba", "d", 2025, nil, models.DefaultImagePath)
	if err != nil {
		t.Fatalf("createTestGame: %v", err)
	}
	return g
}

func itoa(i int) string { return strconv.Itoa(i) }
