// Package app wires the engine, history store and viewer together from
// configuration.
package app

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/engine"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/history"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/storage"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/viewer"
)

const defaultUserAgent = "scoutier/1.0 (+link scouting)"

// Config holds runtime configuration, resolved from flags, environment and
// an optional .env file.
type Config struct {
	LinksFile  string
	HistoryDB  string
	UserAgent  string
	ContactHop bool
}

// LoadConfig resolves configuration. A .env file in the working directory is
// loaded when present; real environment variables win over it. Defaults live
// under the platform config directory.
func LoadConfig() (Config, error) {
	// Ignore a missing .env; godotenv never overrides set variables.
	_ = godotenv.Load()

	dataDir := os.Getenv("SCOUTIER_DATA_DIR")
	if dataDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, err
		}
		dataDir = filepath.Join(configDir, "scoutier")
	}

	cfg := Config{
		LinksFile: envOr("SCOUTIER_LINKS_FILE", filepath.Join(dataDir, "links.json")),
		HistoryDB: envOr("SCOUTIER_HISTORY_DB", filepath.Join(dataDir, "history.db")),
		UserAgent: envOr("SCOUTIER_USER_AGENT", defaultUserAgent),
	}
	if v, err := strconv.ParseBool(os.Getenv("SCOUTIER_CONTACT_HOP")); err == nil {
		cfg.ContactHop = v
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// App is the assembled application.
type App struct {
	Engine  *engine.Engine
	History *history.Store
	Viewer  viewer.Viewer
}

// New builds an App from config.
func New(cfg Config) (*App, error) {
	backend, err := storage.NewFileBackend(cfg.LinksFile)
	if err != nil {
		return nil, err
	}

	var opts []engine.Option
	if cfg.ContactHop {
		opts = append(opts, engine.WithContactHop())
	}
	eng, err := engine.New(backend, opts...)
	if err != nil {
		return nil, err
	}

	hist, err := history.Open(cfg.HistoryDB)
	if err != nil {
		return nil, err
	}

	return &App{
		Engine:  eng,
		History: hist,
		Viewer:  viewer.NewHTTPViewer(cfg.UserAgent),
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() error {
	return a.History.Close()
}
