package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Editor surfaces.
const (
	EditorPlain  = "plain"
	EditorMarkup = "markup"
)

// EnvPrefix prefixes environment overrides: NOTETAB_DEFAULT_TYPE etc.
const EnvPrefix = "NOTETAB"

// Config holds the user settings. Every key has a default, so a missing
// config file is not an error.
type Config struct {
	DefaultType      string        `mapstructure:"default_type"`
	TitlePlaceholder string        `mapstructure:"title_placeholder"`
	Editor           string        `mapstructure:"editor"`
	Highlight        bool          `mapstructure:"highlight"`
	Rows             int           `mapstructure:"rows"`
	Flex             bool          `mapstructure:"flex"`
	Slack            int           `mapstructure:"slack"`
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	LinkBase         string        `mapstructure:"link_base"`
	SessionDB        string        `mapstructure:"session_db"`
	LogFile          string        `mapstructure:"log_file"`
	LogLevel         string        `mapstructure:"log_level"`
}

// Dir is where notetab keeps its config and data by default.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "notetab")
}

// DefaultPath is the config file read when none is given.
func DefaultPath() string { return filepath.Join(Dir(), "config.yaml") }

func DefaultConfig() *Config {
	return &Config{
		DefaultType:      "note.md",
		TitlePlaceholder: "Untitled {0}",
		Editor:           EditorMarkup,
		Highlight:        true,
		Rows:             2,
		Flex:             true,
		Slack:            1,
		PollInterval:     50 * time.Millisecond,
		LinkBase:         "notetab:",
		SessionDB:        filepath.Join(Dir(), "sessions.db"),
		LogFile:          filepath.Join(Dir(), "notetab.log"),
		LogLevel:         "info",
	}
}

// values is the config as a flat key map, the shape of the YAML file.
func (c *Config) values() map[string]any {
	return map[string]any{
		"default_type":      c.DefaultType,
		"title_placeholder": c.TitlePlaceholder,
		"editor":            c.Editor,
		"highlight":         c.Highlight,
		"rows":              c.Rows,
		"flex":              c.Flex,
		"slack":             c.Slack,
		"poll_interval":     c.PollInterval.String(),
		"link_base":         c.LinkBase,
		"session_db":        c.SessionDB,
		"log_file":          c.LogFile,
		"log_level":         c.LogLevel,
	}
}

// Load reads path over the defaults and applies NOTETAB_* environment
// overrides. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range DefaultConfig().values() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects values the program cannot run with.
func (c *Config) Validate() error {
	switch c.Editor {
	case EditorPlain, EditorMarkup:
	default:
		return fmt.Errorf("config: unknown editor %q (want %s or %s)", c.Editor, EditorPlain, EditorMarkup)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be positive")
	}
	return nil
}

// ParseLevel parses a slog level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}

// Clone returns a copy that can be changed independently.
func Clone(c *Config) *Config {
	cp := *c
	return &cp
}

// Marshal renders c in the config file format.
func Marshal(c *Config) ([]byte, error) {
	data, err := yaml.Marshal(c.values())
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

// Save writes c to path as YAML, creating parent directories.
func Save(path string, c *Config) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ErrExists is returned by WriteDefault when the file is already there.
var ErrExists = errors.New("config file exists")

// WriteDefault writes the default config to path unless a file exists and
// force is false.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	return Save(path, DefaultConfig())
}
