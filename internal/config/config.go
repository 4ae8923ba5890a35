// Package config loads tada's settings from $TADA_HOME/config.toml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const fileName = "config.toml"

// Config holds all client configuration.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

// ServiceConfig points at the remote task/agent service.
type ServiceConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

// LoggingConfig controls the diagnostic log.
type LoggingConfig struct {
	Level  string `toml:"level"`
	File   string `toml:"file"`   // empty: stderr for commands, discarded in the TUI
	Format string `toml:"format"` // text | json | logfmt
}

// UIConfig tunes terminal output.
type UIConfig struct {
	Theme string `toml:"theme"` // classic | neon | mono
	Group bool   `toml:"group"` // group listings by pending/done
}

// Duration is a time.Duration written as "90s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
// The assistant endpoints run a local model, hence the generous timeout.
func Default() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL: "http://127.0.0.1:8000",
			Timeout: Duration{2 * time.Minute},
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		UI: UIConfig{
			Theme: "classic",
		},
	}
}

// Load reads the config file, falling back to defaults, then applies env overrides.
func Load() (Config, error) {
	cfg := Default()
	path := Path()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("TADA_API_URL")); v != "" {
		cfg.Service.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("TADA_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
}

// Save writes cfg to the config file. The previous file is only replaced once
// the new one is fully written.
func Save(cfg Config) error {
	path := Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, fileName+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path is the location of the config file.
func Path() string {
	return filepath.Join(Home(), fileName)
}

// Home returns the tada data directory (TADA_HOME or ~/.tada).
func Home() string {
	if env := os.Getenv("TADA_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tada")
}
