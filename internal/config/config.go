// Package config loads settings from STORYBUILDER_* environment variables,
// reading a .env file first when one exists.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "STORYBUILDER"

// Config is the runtime configuration.
type Config struct {
	// DBPath is the SQLite file holding the story collection. Empty means
	// db.DefaultDBPath.
	DBPath string `envconfig:"DB_PATH"`

	// RedisURL selects Redis as the session space. Empty keeps the handoff
	// in process memory.
	RedisURL    string        `envconfig:"REDIS_URL"`
	RedisPrefix string        `envconfig:"REDIS_PREFIX" default:"storybuilder:"`
	HandoffTTL  time.Duration `envconfig:"HANDOFF_TTL" default:"30m"`

	GenerateDelay time.Duration `envconfig:"GENERATE_DELAY" default:"1500ms"`
	LoadDelay     time.Duration `envconfig:"LOAD_DELAY" default:"800ms"`
	NoticeTTL     time.Duration `envconfig:"NOTICE_TTL" default:"3s"`

	ImageBase string `envconfig:"IMAGE_BASE" default:"/placeholder.svg"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	// LogPath is where the terminal UI logs; it cannot share the terminal.
	LogPath string `envconfig:"LOG_PATH"`
}

// Load reads envFiles (".env" when none are given), ignoring missing files,
// then processes the environment. Variables already set win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if cfg.GenerateDelay < 0 || cfg.LoadDelay < 0 || cfg.NoticeTTL < 0 {
		return nil, errors.New("process environment: delays must not be negative")
	}
	return &cfg, nil
}
