package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config carries the process-level settings of the punchcard CLI. Everything
// else (dates, hours, task ids) arrives per command.
type Config struct {
	// DBPath is the SQLite database location. Empty means the default under
	// the user's home directory.
	DBPath string `env:"PUNCHCARD_DB"`
	// Username selects the acting user when the --as flag is absent.
	Username string `env:"PUNCHCARD_USER"`
	// LogPath enables use-case logging to the given file when set.
	LogPath string `env:"PUNCHCARD_LOG"`
}

// Load reads configuration from the environment and fills in defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".punchcard", "punchcard.db")
	}
	return cfg, nil
}

// EnsureDBDir creates the directory holding the database file.
func (c Config) EnsureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	return nil
}
