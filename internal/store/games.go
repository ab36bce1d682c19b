package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmoralesc/ludoteca/internal/models"
)

// ErrNoFields is returned by UpdateGame when the field set touches no
// updatable column.
var ErrNoFields = errors.New("no fields to update")

// updatableColumns is the fixed allow-list of client-settable columns.
// Column names only ever come from this slice, never from request payloads,
// so the dynamic SET clause below cannot carry client-controlled SQL.
var updatableColumns = []string{"name", "description", "year", "url", "image_path"}

const gameCols = "id, name, description, year, url, image_path, created_at, updated_at"

// scanGame reads one game row. Shared by QueryRow and Query paths.
// image_path can sit at NULL between an explicit null update and the next
// bootstrap normalization pass, so it is scanned as nullable and read back
// as the empty string.
func scanGame(row interface{ Scan(...any) error }) (models.Game, error) {
	var g models.Game
	var url, imagePath sql.NullString
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Year, &url,
		&imagePath, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return models.Game{}, err
	}
	if url.Valid {
		g.URL = &url.String
	}
	g.ImagePath = imagePath.String
	return g, nil
}

// ListGames returns the whole catalogue ordered by ascending id.
// The result is unbounded; the catalogue is expected to stay small.
func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gameCols+` FROM games ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	// Initialised to an empty slice so JSON encodes as [] rather than null.
	games := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GetGame returns one game by id, or ErrNotFound.
func (s *Store) GetGame(ctx context.Context, id int) (models.Game, error) {
	g, err := scanGame(s.db.QueryRowContext(ctx,
		`SELECT `+gameCols+` FROM games WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, ErrNotFound
	}
	if err != nil {
		return models.Game{}, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// CreateGame inserts a game and returns the stored row, including the
// server-assigned id and timestamps. url may be nil. imagePath must already
// carry the default substitution; the store writes exactly what it is given.
func (s *Store) CreateGame(ctx context.Context, name, description string, year int, url *string, imagePath string) (models.Game, error) {
	now := time.Now().UTC()
	g, err := scanGame(s.db.QueryRowContext(ctx,
		`INSERT INTO games (name, description, year, url, image_path, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+gameCols,
		name, description, year, url, imagePath, now, now))
	if err != nil {
		return models.Game{}, fmt.Errorf("create game: %w", err)
	}
	return g, nil
}

// UpdateGame applies a sparse patch: only columns present in fields are
// written, and only columns on the allow-list are considered at all.
// updated_at is refreshed on every successful update. Returns ErrNoFields
// when nothing updatable was supplied and ErrNotFound when no row matched.
func (s *Store) UpdateGame(ctx context.Context, id int, fields map[string]any) (models.Game, error) {
	var sets []string
	var args []any
	for _, col := range updatableColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return models.Game{}, ErrNoFields
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE games SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), gameCols)

	g, err := scanGame(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Game{}, ErrNotFound
	}
	if err != nil {
		return models.Game{}, fmt.Errorf("update game: %w", err)
	}
	return g, nil
}

// DeleteGame removes a game and returns the deleted id, or ErrNotFound.
func (s *Store) DeleteGame(ctx context.Context, id int) (int, error) {
	var deleted int
	err := s.db.QueryRowContext(ctx,
		`DELETE FROM games WHERE id = $1 RETURNING id`, id).Scan(&deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("delete game: %w", err)
	}
	return deleted, nil
}
