// Package config loads and saves the cbudget TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all cbudget configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Advice     AdviceConfig     `toml:"advice"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	Currency string `toml:"currency"`
	Cache    bool   `toml:"cache"`
}

// AdviceConfig selects and configures the advice backend.
type AdviceConfig struct {
	Enabled    bool   `toml:"enabled"`
	Provider   string `toml:"provider"` // openai or ollama
	BaseURL    string `toml:"base_url,omitempty"`
	Model      string `toml:"model"`
	MaxTokens  int    `toml:"max_tokens"`
	TimeoutSec int    `toml:"timeout_sec"`
	APIKey     string `toml:"api_key,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// Provider names.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Currency: "₹",
			Cache:    true,
		},
		Advice: AdviceConfig{
			Enabled:    true,
			Provider:   ProviderOpenAI,
			Model:      "gpt-4o-mini",
			MaxTokens:  150,
			TimeoutSec: 30,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cbudget")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cbudget")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cbudget")
}

// CachePath returns the advice cache database path.
func CachePath() string {
	return filepath.Join(CacheDir(), "advice.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's config file
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	var problems []string
	switch c.Advice.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		problems = append(problems, fmt.Sprintf("advice.provider %q must be %q or %q", c.Advice.Provider, ProviderOpenAI, ProviderOllama))
	}
	if c.Advice.MaxTokens < 1 {
		problems = append(problems, "advice.max_tokens must be positive")
	}
	if c.Advice.TimeoutSec < 1 {
		problems = append(problems, "advice.timeout_sec must be positive")
	}
	if strings.TrimSpace(c.General.Currency) == "" {
		problems = append(problems, "general.currency must not be empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to path, creating the directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's config file
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// GetAPIKey returns the advice API key from env vars or config, in that order.
func GetAPIKey(cfg Config) string {
	for _, name := range []string{"CBUDGET_API_KEY", "OPENAI_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return strings.TrimSpace(cfg.Advice.APIKey)
}

// MaskKey shortens a secret for display.
func MaskKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
