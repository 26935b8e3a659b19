package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the tunables of cwtail. Every key can be set in the YAML
// config file or through a CWTAIL_<KEY> environment variable.
type Config struct {
	// Namespace is the top-level log group namespace, "aws" browses /aws/...
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	PollInterval      time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxEventsPerFetch int32         `mapstructure:"max_events_per_fetch" yaml:"max_events_per_fetch"`
	BufferMaxLines    int           `mapstructure:"buffer_max_lines" yaml:"buffer_max_lines"`
	Lookback          time.Duration `mapstructure:"lookback" yaml:"lookback"`
	QuitKey           string        `mapstructure:"quit_key" yaml:"quit_key"`
	AltScreen         bool          `mapstructure:"alt_screen" yaml:"alt_screen"`

	SessionDuration        time.Duration `mapstructure:"session_duration" yaml:"session_duration"`
	MaxCredentialRefreshes int           `mapstructure:"max_credential_refreshes" yaml:"max_credential_refreshes"`
	RequestTimeout         time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	CredentialsFile  string        `mapstructure:"credentials_file" yaml:"credentials_file"`
	HistoryDB        string        `mapstructure:"history_db" yaml:"history_db"`
	HistoryRetention time.Duration `mapstructure:"history_retention" yaml:"history_retention"`
	LogFile          string        `mapstructure:"log_file" yaml:"log_file"`
	LogLevel         string        `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultDir returns ~/.cwtail.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cwtail"), nil
}

// DefaultConfigPath returns ~/.cwtail/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Namespace:              "aws",
		PollInterval:           2 * time.Second,
		MaxEventsPerFetch:      100,
		BufferMaxLines:         1000,
		Lookback:               10 * time.Minute,
		QuitKey:                "q",
		AltScreen:              true,
		SessionDuration:        time.Hour,
		MaxCredentialRefreshes: 3,
		RequestTimeout:         30 * time.Second,
		CredentialsFile:        filepath.Join(dir, "credentials.json"),
		HistoryDB:              filepath.Join(dir, "history.db"),
		HistoryRetention:       30 * 24 * time.Hour,
		LogFile:                filepath.Join(dir, "cwtail.log"),
		LogLevel:               "info",
	}, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	// FilterLogEvents accepts 1..10000
	if c.MaxEventsPerFetch < 1 || c.MaxEventsPerFetch > 10000 {
		return fmt.Errorf("max_events_per_fetch must be between 1 and 10000, got %d", c.MaxEventsPerFetch)
	}
	if c.BufferMaxLines < 1 {
		return fmt.Errorf("buffer_max_lines must be at least 1, got %d", c.BufferMaxLines)
	}
	if c.Lookback < 0 {
		return fmt.Errorf("lookback must not be negative, got %s", c.Lookback)
	}
	if c.QuitKey == "" {
		return fmt.Errorf("quit_key is required")
	}
	// GetSessionToken accepts 15 minutes to 36 hours
	if c.SessionDuration < 15*time.Minute || c.SessionDuration > 36*time.Hour {
		return fmt.Errorf("session_duration must be between 15m and 36h, got %s", c.SessionDuration)
	}
	if c.MaxCredentialRefreshes < 1 {
		return fmt.Errorf("max_credential_refreshes must be at least 1, got %d", c.MaxCredentialRefreshes)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.CredentialsFile == "" {
		return fmt.Errorf("credentials_file is required")
	}
	return nil
}
