// Package config loads spendview's TOML settings and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvServer  = "SPENDVIEW_SERVER"
	EnvSession = "SPENDVIEW_SESSION"
)

// Config holds all spendview configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Export     ExportConfig     `toml:"export"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultDays    int    `toml:"default_days"`
	ServerURL      string `toml:"server_url"`
	CurrencySymbol string `toml:"currency_symbol"`
}

// ServerConfig holds credentials for a login-protected expense server.
type ServerConfig struct {
	// SessionCookie is sent verbatim as the Cookie header, e.g. "session=...".
	SessionCookie string `toml:"session_cookie,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ExportConfig holds image export defaults.
type ExportConfig struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// DaemonConfig holds settings for `spendview serve`.
type DaemonConfig struct {
	Addr         string `toml:"addr"`
	IntervalSec  int    `toml:"interval_sec"`
	EventsBuffer int    `toml:"events_buffer"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultDays:    30,
			ServerURL:      "http://localhost:5000",
			CurrencySymbol: "₹",
		},
		Appearance: AppearanceConfig{
			Theme: "paper",
		},
		Export: ExportConfig{
			Format: "svg",
			Dir:    "charts",
			Width:  800,
			Height: 480,
		},
		Daemon: DaemonConfig{
			Addr:         "127.0.0.1:8787",
			IntervalSec:  60,
			EventsBuffer: 200,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spendview")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// StateDir holds runtime files such as the daemon's pid and log.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "spendview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "spendview")
}

// LoadEnv reads a .env file from the working directory into the process
// environment. Variables already set win; a missing file is not an error.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading .env: %w", err)
	}
	return nil
}

// Load reads the config file, returning defaults if it doesn't exist.
// Zero values in the file fall back to the defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.General.DefaultDays <= 0 {
		c.General.DefaultDays = d.General.DefaultDays
	}
	if c.General.CurrencySymbol == "" {
		c.General.CurrencySymbol = d.General.CurrencySymbol
	}
	if c.Appearance.Theme == "" {
		c.Appearance.Theme = d.Appearance.Theme
	}
	if c.Export.Format == "" {
		c.Export.Format = d.Export.Format
	}
	if strings.TrimSpace(c.Export.Dir) == "" {
		c.Export.Dir = d.Export.Dir
	}
	if c.Export.Width <= 0 {
		c.Export.Width = d.Export.Width
	}
	if c.Export.Height <= 0 {
		c.Export.Height = d.Export.Height
	}
	if c.Daemon.Addr == "" {
		c.Daemon.Addr = d.Daemon.Addr
	}
	if c.Daemon.IntervalSec <= 0 {
		c.Daemon.IntervalSec = d.Daemon.IntervalSec
	}
	if c.Daemon.EventsBuffer <= 0 {
		c.Daemon.EventsBuffer = d.Daemon.EventsBuffer
	}
}

// Save writes the config to disk. The file may hold a session cookie, so it
// is created owner-only.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// GetServerURL returns the server URL from env var or config, in that order.
func GetServerURL(cfg Config) string {
	if u := strings.TrimSpace(os.Getenv(EnvServer)); u != "" {
		return u
	}
	return cfg.General.ServerURL
}

// GetSessionCookie returns the session cookie from env var or config, in that order.
func GetSessionCookie(cfg Config) string {
	if c := strings.TrimSpace(os.Getenv(EnvSession)); c != "" {
		return c
	}
	return cfg.Server.SessionCookie
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
