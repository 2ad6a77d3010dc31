package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Tiliavir/work-tracker/internal/storage"
)

// Config is the root configuration for wtt, stored in ~/.wtt/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Storage           StorageConfig `json:"storage"`
	WeeklyTargetHours float64       `json:"weekly_target_hours"`
	TickSeconds       int           `json:"tick_seconds"`
	Backup            BackupConfig  `json:"backup"`
	LogLevel          string        `json:"log_level"`
	Outlook           OutlookConfig `json:"outlook"`

	// Home is the data directory the config was read from.
	Home string `json:"-"`
}

// StorageConfig selects where work records are kept.
type StorageConfig struct {
	// Backend is "file" (one JSON file per key) or "sqlite".
	Backend string `json:"backend"`
	// Path overrides the SQLite database file. Empty = <home>/wtt.db.
	Path string `json:"path"`
}

// BackupConfig configures the mirror directory fed by the offline queue.
type BackupConfig struct {
	// MirrorDir receives a dated backup file after each change. Empty = off.
	MirrorDir string `json:"mirror_dir"`
}

// OutlookConfig holds Microsoft Graph settings for the leave import.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// LookaheadDays bounds how far ahead out-of-office events are imported.
	LookaheadDays int `json:"lookahead_days"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"

	DefaultWeeklyTargetHours = 40.0
	DefaultTickSeconds       = 30
	DefaultLookaheadDays     = 60
	DefaultLogLevel          = "warn"

	// FileName is the config file inside the data directory.
	FileName = "config.json"
)

// Environment variables that override file values.
const (
	EnvHome           = "WTT_HOME"
	EnvStorageBackend = "WTT_STORAGE_BACKEND"
	EnvLogLevel       = "WTT_LOG_LEVEL"
	EnvMirrorDir      = "WTT_MIRROR_DIR"
	EnvTargetHours    = "WTT_TARGET_HOURS"
)

// Default returns a Config pre-filled with sensible defaults.
func Default() Config {
	return Config{
		Storage:           StorageConfig{Backend: storage.BackendFile},
		WeeklyTargetHours: DefaultWeeklyTargetHours,
		TickSeconds:       DefaultTickSeconds,
		LogLevel:          DefaultLogLevel,
		Outlook: OutlookConfig{
			TenantID:      DefaultTenantID,
			ClientID:      DefaultClientID,
			LookaheadDays: DefaultLookaheadDays,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// wtt configuration – ~/.wtt/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Values can also be set in a .env file or the environment:
// WTT_HOME, WTT_STORAGE_BACKEND, WTT_LOG_LEVEL, WTT_MIRROR_DIR, WTT_TARGET_HOURS.
{
  // ── Storage ──────────────────────────────────────────────────────────────
  "storage": {
    // "file"   – one JSON file per key in this directory (default)
    // "sqlite" – a single SQLite database
    "backend": "file",

    // SQLite database file. Leave empty for ~/.wtt/wtt.db.
    "path": ""
  },

  // Hours per week counted as the goal.
  "weekly_target_hours": 40,

  // Refresh interval of "wtt status --watch", in seconds.
  "tick_seconds": 30,

  // ── Backups ──────────────────────────────────────────────────────────────
  "backup": {
    // Directory that receives a dated backup after every change, e.g. a
    // synced folder. Changes made while it is unreachable are queued.
    "mirror_dir": ""
  },

  // debug, info, warn or error. Logs go to stderr.
  "log_level": "warn",

  // ── Microsoft Graph / Outlook leave import ───────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // How many days ahead "wtt outlook sync" looks for out-of-office events.
    "lookahead_days": 60
  }
}
`

// ValidationError reports a config value that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// HomeDir returns the data directory: $WTT_HOME or ~/.wtt.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	return storage.BaseDir()
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// loadDotEnv loads each .env file that exists. Variables already set in
// the environment win.
func loadDotEnv(paths ...string) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Could not load env file", "path", p, "error", err)
		}
	}
}

// Load reads .env files, then <home>/config.json, creating it with
// annotated defaults on first run, then applies environment overrides.
func Load() (Config, error) {
	loadDotEnv(".env")
	home, err := HomeDir()
	if err != nil {
		return Default(), err
	}
	loadDotEnv(filepath.Join(home, ".env"))
	return LoadFrom(home)
}

// LoadFrom reads the config stored in home without touching .env files.
func LoadFrom(home string) (Config, error) {
	cfg := Default()
	cfg.Home = home
	path := filepath.Join(home, FileName)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			slog.Warn("Could not create config file", "path", path, "error", writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return Default(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStorageBackend); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvMirrorDir); v != "" {
		c.Backup.MirrorDir = v
	}
	if v := os.Getenv(EnvTargetHours); v != "" {
		target, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ValidationError{Field: EnvTargetHours, Message: fmt.Sprintf("%q is not a number", v)}
		}
		c.WeeklyTargetHours = target
	}
	return nil
}

// fillDefaults replaces zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.WeeklyTargetHours == 0 {
		c.WeeklyTargetHours = def.WeeklyTargetHours
	}
	if c.TickSeconds == 0 {
		c.TickSeconds = def.TickSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Outlook.TenantID == "" {
		c.Outlook.TenantID = def.Outlook.TenantID
	}
	if c.Outlook.ClientID == "" {
		c.Outlook.ClientID = def.Outlook.ClientID
	}
	if c.Outlook.LookaheadDays == 0 {
		c.Outlook.LookaheadDays = def.Outlook.LookaheadDays
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		errs = append(errs, &ValidationError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q (want file or sqlite)", c.Storage.Backend)})
	}
	if c.WeeklyTargetHours <= 0 || c.WeeklyTargetHours > 168 {
		errs = append(errs, &ValidationError{Field: "weekly_target_hours", Message: "must be between 0 and 168"})
	}
	if c.TickSeconds < 1 {
		errs = append(errs, &ValidationError{Field: "tick_seconds", Message: "must be at least 1"})
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)})
	}
	if c.Outlook.LookaheadDays < 1 {
		errs = append(errs, &ValidationError{Field: "outlook.lookahead_days", Message: "must be at least 1"})
	}
	return errors.Join(errs...)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
