// Package config provides Viper-based configuration loading for the delver client.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LedgerConfig holds gateway connection settings.
type LedgerConfig struct {
	// Endpoint is the base URL of the ledger gateway, without a trailing slash.
	Endpoint string `mapstructure:"endpoint"`
	// Timeout is the per-request timeout for gateway calls.
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds per-run orchestration settings.
type SessionConfig struct {
	// GameID identifies the run on the ledger.
	GameID uint64 `mapstructure:"game_id"`
	// VRFEnabled requests verifiable randomness ahead of randomness-dependent
	// actions instead of relying on a pre-seeded run.
	VRFEnabled bool `mapstructure:"vrf_enabled"`
	// Seed pre-seeds a new run deterministically; zero defers to the ledger.
	Seed uint64 `mapstructure:"seed"`
	// StartXP grants a head start when beginning a run.
	StartXP int `mapstructure:"start_xp"`
}

// PacingConfig holds event pipeline pacing settings.
type PacingConfig struct {
	// Mode selects the delay table: "live" or "spectate".
	Mode string `mapstructure:"mode"`
	// Skip suppresses pacing delays for already-queued events.
	Skip bool `mapstructure:"skip"`
}

// DatabaseConfig holds PostgreSQL connection settings for the event archive.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StorageConfig holds local persistence settings.
type StorageConfig struct {
	// CountersPath is the sqlite file for per-game collectable counters.
	CountersPath string `mapstructure:"counters_path"`
}

// ScriptingConfig holds Lua autoplay settings.
type ScriptingConfig struct {
	// Enabled turns the autoplay policy loop on.
	Enabled bool `mapstructure:"enabled"`
	// PolicyPath is the Lua script deciding the next action each turn.
	PolicyPath string `mapstructure:"policy_path"`
	// StepLimit caps Lua instructions per policy call.
	StepLimit int `mapstructure:"step_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Session   SessionConfig   `mapstructure:"session"`
	Pacing    PacingConfig    `mapstructure:"pacing"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLedger(c.Ledger); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validatePacing(c.Pacing); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateScripting(c.Scripting); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLedger(l LedgerConfig) error {
	var errs []string
	if l.Endpoint == "" {
		errs = append(errs, "ledger.endpoint must not be empty")
	}
	if strings.HasSuffix(l.Endpoint, "/") {
		errs = append(errs, "ledger.endpoint must not end with a slash")
	}
	if l.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("ledger.timeout must be positive, got %s", l.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePacing(p PacingConfig) error {
	if p.Mode != "live" && p.Mode != "spectate" {
		return fmt.Errorf("pacing.mode must be one of [live, spectate], got %q", p.Mode)
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateScripting(s ScriptingConfig) error {
	var errs []string
	if s.Enabled && s.PolicyPath == "" {
		errs = append(errs, "scripting.policy_path must not be empty when scripting is enabled")
	}
	if s.StepLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.step_limit must be >= 0, got %d", s.StepLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DELVER_ prefix
	v.SetEnvPrefix("DELVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ledger.endpoint", "http://localhost:8545")
	v.SetDefault("ledger.timeout", "30s")

	v.SetDefault("session.game_id", 0)
	v.SetDefault("session.vrf_enabled", true)
	v.SetDefault("session.seed", 0)
	v.SetDefault("session.start_xp", 0)

	v.SetDefault("pacing.mode", "live")
	v.SetDefault("pacing.skip", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "delver")
	v.SetDefault("database.password", "delver")
	v.SetDefault("database.name", "delver")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("storage.counters_path", "delver.db")

	v.SetDefault("scripting.enabled", false)
	v.SetDefault("scripting.policy_path", "")
	v.SetDefault("scripting.step_limit", 100000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
