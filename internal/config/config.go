// Package config loads server settings from an optional YAML file with
// environment-variable overrides, so the same binary runs in development,
// CI, and production without recompiling.
package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds everything main needs to wire the server together.
type Config struct {
	// Addr is the listen address, e.g. ":9000".
	Addr string `yaml:"addr"`
	// DBDriver is "postgres" or "sqlite".
	DBDriver string `yaml:"db_driver"`
	// DBDSN is the driver-specific connection string. For postgres it is
	// the key=value form ("dbname=games user=postgres ..."); for sqlite a
	// file path with optional URI parameters.
	DBDSN string `yaml:"db_dsn"`
	// Secret signs the session cookie. Keep it out of git.
	Secret string `yaml:"secret"`
	// UploadDir is where uploaded images land; served under /static/uploads/.
	UploadDir string `yaml:"upload_dir"`
}

// Default returns the development configuration used when no file exists.
func Default() *Config {
	return &Config{
		Addr:      ":9000",
		DBDriver:  "postgres",
		DBDSN:     "dbname=games user=postgres password=postgres host=localhost port=5432 sslmode=disable",
		Secret:    "dev-secret-change-me",
		UploadDir: "static/uploads",
	}
}

// Load reads the YAML file at path, falling back to Default when the file
// is missing, then applies environment overrides. A malformed file is an
// error; a missing one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
		// fall through to env overrides
	default:
		return nil, err
	}

	overlay(&cfg.Addr, "ADDR")
	overlay(&cfg.DBDriver, "DB_DRIVER")
	overlay(&cfg.DBDSN, "DATABASE_URL")
	overlay(&cfg.Secret, "SECRET_KEY")
	overlay(&cfg.UploadDir, "UPLOAD_DIR")

	return cfg, nil
}

// overlay replaces *dst with the named environment variable when it is set
// and non-empty.
func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
