// Package models defines the database row types and the request/response
// shapes shared by the store and the HTTP handlers.
package models

import "time"

// User is an account row. Accounts are created only by the store bootstrap
// (a single admin); there is no registration endpoint.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Game is a catalogue entry. ImagePath is never empty in storage: creation
// substitutes the default image and the bootstrap normalization passes
// repair legacy rows.
type Game struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Year        int       `json:"year"`
	URL         *string   `json:"url"`
	ImagePath   string    `json:"image_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DefaultImagePath is substituted when a game is created without an image.
const DefaultImagePath = "/static/uploads/defecto.jpg"

// ---- Request / Response DTOs ----

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	User    LoginUser `json:"user"`
}

// LoginUser is the public slice of a User returned by login.
type LoginUser struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// MeResponse reports session state. IsAdmin is omitted entirely for
// anonymous callers rather than serialized as false.
type MeResponse struct {
	Authenticated bool  `json:"authenticated"`
	IsAdmin       *bool `json:"is_admin,omitempty"`
}
