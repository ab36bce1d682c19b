package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tmoralesc/ludoteca/internal/models"
)

// Bootstrap prepares the database for serving: schema migration, the fixed
// admin account, the initial catalogue, and the image-path normalization
// passes. It runs once before the server starts listening and is idempotent.
func (s *Store) Bootstrap(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}
	if err := s.ensureAdmin(ctx); err != nil {
		return err
	}
	if err := s.seedGamesIfEmpty(ctx); err != nil {
		return err
	}
	return s.normalizeImagePaths(ctx)
}

// bootstrapAdmin is the only account the system ever creates.
const (
	bootstrapAdminUser     = "admin"
	bootstrapAdminPassword = "admin123"
)

// ensureAdmin inserts the admin account when no row with its username
// exists. The password hash is generated fresh on each bootstrap that
// inserts, so the cost factor follows the library default.
func (s *Store) ensureAdmin(ctx context.Context) error {
	var id int
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = $1`, bootstrapAdminUser).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("ensure admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(bootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4)`,
		bootstrapAdminUser, string(hash), true, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	slog.Info("admin account created", "username", bootstrapAdminUser)
	return nil
}

// seedGame is one entry of the initial catalogue. url is a pointer because
// one of the seeded games has none.
type seedGame struct {
	name        string
	description string
	year        int
	url         *string
}

func u(s string) *string { return &s }

// seedCatalogue is inserted once, when the games table is empty. The
// descriptions are kept in Spanish: they are catalogue data shown to the
// frontend, not interface text.
var seedCatalogue = []seedGame{
	{"Among Us", "¡Cuidado con los impostores! Informa de cadáveres y convoca reuniones para expulsar al impostor.", 2020, u("https://buy.among.us/")},
	{"League of Legends", "MOBA competitivo de Riot Games, donde dos equipos luchan por destruir la base enemiga.", 2009, nil},
	{"DOTA 2", "MOBA de Valve, enfrentando dos equipos de cinco jugadores en intensas batallas estratégicas.", 2013, u("https://www.dota2.com/")},
	{"King of Glory", "MOBA móvil muy popular en China, desarrollado por Tencent Games.", 2015, u("https://pvp.qq.com/")},
	{"Fortnite", "Battle Royale de Epic Games, donde 100 jugadores luchan por ser el último en pie.", 2017, u("https://www.fortnite.com/")},
	{"PUBG: Battlegrounds", "Battle Royale pionero, donde los jugadores compiten en un mapa para sobrevivir.", 2017, u("https://pubg.com/")},
	{"Counter-Strike 2", "Shooter táctico de Valve, sucesor de CS:GO, enfrentando terroristas y antiterroristas.", 2023, u("https://www.counter-strike.net/cs2")},
	{"Valorant", "Shooter táctico de Riot Games, con agentes y habilidades únicas en partidas 5v5.", 2020, u("https://playvalorant.com/")},
	{"Call of Duty: Warzone 2.0", "Battle Royale de Activision, con acción frenética y mapas enormes.", 2022, u("https://www.callofduty.com/warzone")},
	{"EA Sports FC 24", "Simulador de fútbol de EA Sports, sucesor de FIFA, con licencias oficiales y modos variados.", 2023, u("https://www.ea.com/games/ea-sports-fc/fc-24")},
	{"Minecraft", "Juego de construcción y aventuras en mundo abierto, donde puedes crear y explorar sin límites.", 2011, u("https://www.minecraft.net/")},
	{"Tres en raya", "Versión web del clásico tres en raya. Juega en el navegador contra otro jugador local.", 2025, u("/tictactoe.html")},
}

func (s *Store) seedGamesIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return fmt.Errorf("count games: %w", err)
	}
	if count > 0 {
		return nil
	}

	slog.Info("seeding initial catalogue", "games", len(seedCatalogue))
	now := time.Now().UTC()
	for _, g := range seedCatalogue {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO games (name, description, year, url, image_path, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			g.name, g.description, g.year, g.url, models.DefaultImagePath, now, now)
		if err != nil {
			return fmt.Errorf("seed game %q: %w", g.name, err)
		}
	}
	return nil
}

// normalizeImagePaths repairs image_path values written by older clients.
// Three passes, in order: legacy "uploads/..." values gain the "/static/"
// prefix, remaining relative values gain a leading "/", and NULL or empty
// values become the default image. Each pass is its own statement; the
// sequence as a whole is not atomic, but every pass is idempotent.
func (s *Store) normalizeImagePaths(ctx context.Context) error {
	passes := []string{
		`UPDATE games SET image_path = '/static/' || image_path WHERE image_path LIKE 'uploads/%'`,
		`UPDATE games SET image_path = '/' || image_path
		   WHERE image_path IS NOT NULL AND image_path <> '' AND image_path NOT LIKE '/%'`,
		`UPDATE games SET image_path = '` + models.DefaultImagePath + `'
		   WHERE image_path IS NULL OR image_path = ''`,
	}
	for _, q := range passes {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("normalize image paths: %w", err)
		}
	}
	return nil
}
