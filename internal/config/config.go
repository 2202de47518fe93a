// Package config handles loading and validation of the flowmode configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRule is returned when a whitelist rule fails validation.
// Rule errors are fatal at startup: tracking never begins with a bad rule set.
var ErrInvalidRule = errors.New("invalid whitelist rule")

// MatchType selects which sample field a rule pattern is compared against.
type MatchType string

const (
	MatchWindowClass MatchType = "window_class"
	MatchWindowTitle MatchType = "window_title"
	MatchProcess     MatchType = "process"
)

// Rule is a single whitelist entry. Only windows matching a rule are ever
// recorded; everything else is invisible to the store.
type Rule struct {
	Name      string    `yaml:"name"`
	MatchType MatchType `yaml:"match_type"`
	Pattern   string    `yaml:"pattern"`
	Category  string    `yaml:"category"`
}

// Config is the process-lifetime configuration. It is immutable after load;
// changing it requires a daemon restart.
type Config struct {
	IdleTimeoutSecs          int      `yaml:"idle_timeout_secs"`
	PollIntervalSecs         int      `yaml:"poll_interval_secs"`
	ActiveInputThresholdSecs int      `yaml:"active_input_threshold_secs"`
	ListenAddr               string   `yaml:"listen_addr"`
	FocusCategories          []string `yaml:"focus_categories"`
	Rules                    []Rule   `yaml:"rules"`
}

// Default returns the built-in configuration with a starter whitelist.
func Default() *Config {
	return &Config{
		IdleTimeoutSecs:          300,
		PollIntervalSecs:         5,
		ActiveInputThresholdSecs: 30,
		ListenAddr:               "127.0.0.1:7392",
		FocusCategories:          []string{"Development", "Terminal", "Office"},
		Rules: []Rule{
			{Name: "Brave", MatchType: MatchWindowClass, Pattern: "brave", Category: "Browser"},
			{Name: "Firefox", MatchType: MatchWindowClass, Pattern: "firefox", Category: "Browser"},
			{Name: "Teams", MatchType: MatchWindowTitle, Pattern: "Teams", Category: "Communication"},
			{Name: "Ghostty", MatchType: MatchWindowClass, Pattern: "ghostty", Category: "Terminal"},
			{Name: "VS Code", MatchType: MatchWindowClass, Pattern: "code", Category: "Development"},
			{Name: "Obsidian", MatchType: MatchWindowClass, Pattern: "obsidian", Category: "Notes"},
			{Name: "OnlyOffice", MatchType: MatchWindowClass, Pattern: "onlyoffice", Category: "Office"},
			{Name: "Dolphin", MatchType: MatchWindowClass, Pattern: "dolphin", Category: "Files"},
		},
	}
}

// Dir returns ~/.config/flowmode.
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(cfg, "flowmode"), nil
}

// DefaultPath returns ~/.config/flowmode/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDBPath returns ~/.config/flowmode/flowmode.db.
func DefaultDBPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "flowmode.db"), nil
}

// Load reads the config at path, falling back to Default when the file does
// not exist. A file that exists but fails to parse or validate is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	cfg.Rules = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Rules == nil {
		// A file without a rules key keeps the default whitelist; an
		// empty whitelist would track nothing while looking healthy.
		cfg.Rules = Default().Rules
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks intervals and every whitelist rule.
func (c *Config) Validate() error {
	if c.IdleTimeoutSecs <= 0 {
		return fmt.Errorf("idle_timeout_secs must be positive, got %d", c.IdleTimeoutSecs)
	}
	if c.PollIntervalSecs <= 0 {
		return fmt.Errorf("poll_interval_secs must be positive, got %d", c.PollIntervalSecs)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: at least one rule is required", ErrInvalidRule)
	}
	for i, r := range c.Rules {
		if r.Name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidRule, i)
		}
		if r.Pattern == "" {
			return fmt.Errorf("%w: rule %q has no pattern", ErrInvalidRule, r.Name)
		}
		if r.Category == "" {
			return fmt.Errorf("%w: rule %q has no category", ErrInvalidRule, r.Name)
		}
		switch r.MatchType {
		case MatchWindowClass, MatchWindowTitle, MatchProcess:
		default:
			return fmt.Errorf("%w: rule %q has unknown match_type %q", ErrInvalidRule, r.Name, r.MatchType)
		}
	}
	return nil
}

// IsFocusCategory reports whether category counts toward focus streaks.
func (c *Config) IsFocusCategory(category string) bool {
	for _, fc := range c.FocusCategories {
		if fc == category {
			return true
		}
	}
	return false
}
