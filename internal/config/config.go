// Package config reads service configuration from the environment, with a
// .env file honored for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// LobbyTTL sets each lobby record's expiry; the store garbage collects
	// past it.
	LobbyTTL time.Duration

	// PreBans are champion ids excluded from every draft, seeded onto each
	// lobby at creation.
	PreBans []string
}

func Load() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr: envOr("LISTEN_ADDR", ":8080"),
		RedisAddr:  os.Getenv("REDIS_ADDR"),
		LobbyTTL:   24 * time.Hour,
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	if raw := os.Getenv("LOBBY_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOBBY_TTL %q: %w", raw, err)
		}
		cfg.LobbyTTL = ttl
	}

	cfg.PreBans = splitList(os.Getenv("PRE_BANS"))
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
