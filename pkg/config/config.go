// Package config loads runtime settings for point from defaults, an optional
// YAML file and POINT_* environment variables (a .env file is honored).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables; "__" separates nested keys
// (POINT_LOG__LEVEL -> log.level).
const EnvPrefix = "POINT_"

type LogConfig struct {
	Level string `koanf:"level"` // debug|info|warn|error
	JSON  bool   `koanf:"json"`
}

type Config struct {
	Quality int       `koanf:"quality"`
	Strict  bool      `koanf:"strict"`
	Log     LogConfig `koanf:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Quality: 75,
		Log:     LogConfig{Level: "info"},
	}
}

// Load merges defaults, the YAML file at path and the environment. An
// explicit path must exist. When path is empty the file named by POINT_CONFIG
// is used if present.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	optional := false
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
		optional = true
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !optional || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("loading config %s: %w", path, err)
			}
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality %d out of range 1-100", c.Quality)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}
