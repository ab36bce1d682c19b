package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tmoralesc/ludoteca/internal/models"
)

// GetUserByUsername returns the account with the given username, or
// ErrNotFound. Login is its only caller; users are never listed or mutated
// after bootstrap.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, is_admin, created_at
		 FROM users WHERE username = $1`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}
