// Package config layers .env file loading (github.com/joho/godotenv)
// under flag parsing, grounded on garbhj-motion-demo's
// server/config/config.go. cmd/server calls Load once at startup.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the server's runtime configuration: a match seed, the
// listening port, and the log level/format pair pkg/logger reads
// directly from the environment.
type Config struct {
	Port string
	Seed int64

	LogLevel  string
	LogFormat string
}

// Load reads a .env file if one is present (missing is not an error —
// unlike the teacher's InitConfig, which treats it as fatal, a tank
// arena server is expected to run fine from plain environment
// variables in a container with no .env file at all) and layers
// environment variables over small defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	cfg := Config{
		Port:      getEnv("TANKS_PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if seedStr := os.Getenv("TANKS_SEED"); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return Config{}, err
		}
		cfg.Seed = seed
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
