// main is the entry point for the videogames catalogue API server.
//
// This file is the composition root: it loads configuration, opens and
// bootstraps the database, wires every package together, and starts
// listening. Keeping the wiring here means the other packages never import
// each other in a circle and stay easy to test alone.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/lmittmann/tint"

	"github.com/tmoralesc/ludoteca/internal/config"
	"github.com/tmoralesc/ludoteca/internal/handlers"
	"github.com/tmoralesc/ludoteca/internal/middleware"
	"github.com/tmoralesc/ludoteca/internal/store"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, nil)))

	cfg, err := config.Load("config/app.yaml")
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	// Open lazily creates the Postgres database when it is missing;
	// Bootstrap then migrates the schema, seeds the admin account and the
	// initial catalogue, and normalizes legacy image paths. All of it runs
	// before the first request is accepted.
	st, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Bootstrap(context.Background()); err != nil {
		slog.Error("bootstrap database", "err", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("create upload dir", "err", err)
		os.Exit(1)
	}

	srv := &handlers.Server{
		Store:     st,
		Secret:    cfg.Secret,
		UploadDir: cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Public routes.
	mux.HandleFunc("GET /{$}", srv.Root)
	mux.HandleFunc("GET /api/health", srv.Health)
	mux.HandleFunc("POST /api/auth/login", srv.Login)
	mux.HandleFunc("POST /api/auth/logout", srv.Logout)
	mux.HandleFunc("GET /api/auth/me", srv.Me)
	mux.HandleFunc("GET /api/games", srv.ListGames)
	mux.HandleFunc("GET /api/games/{id}", srv.GetGame)

	// Admin-gated mutations.
	admin := middleware.RequireAdmin
	mux.Handle("POST /api/games", admin(http.HandlerFunc(srv.CreateGame)))
	mux.Handle("PUT /api/games/{id}", admin(http.HandlerFunc(srv.UpdateGame)))
	mux.Handle("DELETE /api/games/{id}", admin(http.HandlerFunc(srv.DeleteGame)))
	mux.Handle("POST /api/upload", admin(http.HandlerFunc(srv.Upload)))

	// Uploaded images are served straight from disk, by name only.
	mux.Handle("GET /static/uploads/",
		http.StripPrefix("/static/uploads/", handlers.StaticUploads(cfg.UploadDir)))

	// Session decoding sits inside CORS so preflights never touch it; the
	// logger wraps everything so even rejected requests get a line.
	handler := middleware.Logger(middleware.CORS(middleware.Session(cfg.Secret)(mux)))

	slog.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}
