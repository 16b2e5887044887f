// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends selectable with BASALT_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr      string
	Store           string
	DBPath          string
	GitHubToken     string
	GitHubAPIURL    string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	CORSOrigins     []string
}

// UsesSQLite reports whether the stores should be backed by SQLite.
func (c *Config) UsesSQLite() bool {
	return c.Store == StoreSQLite
}

// Load reads configuration from environment variables and returns a validated Config.
// Every variable is optional:
//
//	BASALT_LISTEN_ADDR       (127.0.0.1:8080)
//	BASALT_STORE             (memory; or sqlite)
//	BASALT_DB_PATH           (:memory:, a shared in-memory SQLite database)
//	BASALT_GITHUB_TOKEN      (unset; unauthenticated GitHub requests)
//	BASALT_GITHUB_API_URL    (unset; api.github.com)
//	BASALT_FETCH_TIMEOUT     (10s)
//	BASALT_REFRESH_INTERVAL  (0, background refresh disabled)
//	BASALT_CORS_ORIGINS      (unset; comma-separated origins)
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("BASALT_LISTEN_ADDR"); ok && v != "" {
		listenAddr = v
	}

	store := StoreMemory
	if v, ok := os.LookupEnv("BASALT_STORE"); ok && v != "" {
		store = strings.ToLower(strings.TrimSpace(v))
	}
	if store != StoreMemory && store != StoreSQLite {
		return nil, fmt.Errorf("BASALT_STORE must be %q or %q, got %q", StoreMemory, StoreSQLite, store)
	}

	dbPath := ":memory:"
	if v, ok := os.LookupEnv("BASALT_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	fetchTimeout, err := durationEnv("BASALT_FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	if fetchTimeout <= 0 {
		return nil, fmt.Errorf("BASALT_FETCH_TIMEOUT must be positive, got %s", fetchTimeout)
	}

	refreshInterval, err := durationEnv("BASALT_REFRESH_INTERVAL", 0)
	if err != nil {
		return nil, err
	}
	if refreshInterval < 0 {
		return nil, fmt.Errorf("BASALT_REFRESH_INTERVAL must not be negative, got %s", refreshInterval)
	}

	return &Config{
		ListenAddr:      listenAddr,
		Store:           store,
		DBPath:          dbPath,
		GitHubToken:     os.Getenv("BASALT_GITHUB_TOKEN"),
		GitHubAPIURL:    os.Getenv("BASALT_GITHUB_API_URL"),
		FetchTimeout:    fetchTimeout,
		RefreshInterval: refreshInterval,
		CORSOrigins:     splitList(os.Getenv("BASALT_CORS_ORIGINS")),
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	return parsed, nil
}

func splitList(v string) []string {
	out := []string{}
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
