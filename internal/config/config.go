package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	configFileName = "config.toml"
	dbFileName     = "tasks.sqlite"
	logFileName    = "tasklist.log"
)

type Config struct {
	// DBPath is the SQLite file holding the task store.
	DBPath string    `toml:"db_path"`
	Log    LogConfig `toml:"log"`
	TUI    TUIConfig `toml:"tui"`
}

type LogConfig struct {
	// File receives diagnostic output. "-" means stderr, "" discards.
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type TUIConfig struct {
	// Theme is light, dark or auto.
	Theme string `toml:"theme"`
	// Glyphs is unicode or ascii.
	Glyphs string `toml:"glyphs"`
}

// Dir returns the directory holding config and default data files.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.tasklist).
	if v := strings.TrimSpace(os.Getenv("TASKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tasklist"), nil
}

// DefaultPath is the config file consulted when no explicit path is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return &Config{
		DBPath: filepath.Join(dir, dbFileName),
		Log: LogConfig{
			File:   filepath.Join(dir, logFileName),
			Level:  "info",
			Format: "text",
		},
		TUI: TUIConfig{
			Theme:  "auto",
			Glyphs: "unicode",
		},
	}, nil
}

// Load builds the configuration in priority order:
//  1. defaults
//  2. config file (path, or DefaultPath when it exists)
//  3. environment variables
//
// Command-line flags are applied on top by the caller.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKLIST_DB"); v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("TASKLIST_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	if v := os.Getenv("TASKLIST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKLIST_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TASKLIST_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}
	if v := os.Getenv("TASKLIST_TUI_GLYPHS"); v != "" {
		cfg.TUI.Glyphs = v
	}
}

// Validate normalizes enum fields and rejects unknown values.
func (c *Config) Validate() error {
	c.DBPath = strings.TrimSpace(c.DBPath)
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}

	c.TUI.Theme = strings.ToLower(strings.TrimSpace(c.TUI.Theme))
	switch c.TUI.Theme {
	case "", "auto":
		c.TUI.Theme = "auto"
	case "light", "dark":
	default:
		return fmt.Errorf("invalid tui theme: %q", c.TUI.Theme)
	}
	c.TUI.Glyphs = strings.ToLower(strings.TrimSpace(c.TUI.Glyphs))
	switch c.TUI.Glyphs {
	case "", "unicode":
		c.TUI.Glyphs = "unicode"
	case "ascii":
	default:
		return fmt.Errorf("invalid tui glyphs: %q", c.TUI.Glyphs)
	}
	return nil
}

// Save writes cfg as TOML to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
