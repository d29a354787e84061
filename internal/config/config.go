package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8000"

// Config holds deployment settings for the client. Everything comes from the
// environment (optionally seeded from a .env file in the working directory).
type Config struct {
	// BaseURL is the remote task API root (API_BASE_URL).
	BaseURL string
	// StateDir holds the session database and log file (TASKDECK_STATE_DIR).
	StateDir string
	// LogPath is the diagnostics log file (TASKDECK_LOG).
	LogPath string
}

func Load() Config {
	// Best-effort; most deployments configure the environment directly.
	_ = godotenv.Load()

	stateDir := envOrDefault("TASKDECK_STATE_DIR", defaultStateDir())
	return Config{
		BaseURL:  envOrDefault("API_BASE_URL", defaultBaseURL),
		StateDir: stateDir,
		LogPath:  envOrDefault("TASKDECK_LOG", filepath.Join(stateDir, "taskdeck.log")),
	}
}

func (c Config) SessionPath() string {
	return filepath.Join(c.StateDir, "session.sqlite")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskdeck"
	}
	return filepath.Join(home, ".taskdeck")
}

// envOrDefault returns the environment variable value or fallback when it is empty.
func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
