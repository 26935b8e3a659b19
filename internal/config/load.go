package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file is not an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg, err := DefaultConfig()
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CWTAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("namespace", cfg.Namespace)
	v.SetDefault("poll_interval", cfg.PollInterval)
	v.SetDefault("max_events_per_fetch", cfg.MaxEventsPerFetch)
	v.SetDefault("buffer_max_lines", cfg.BufferMaxLines)
	v.SetDefault("lookback", cfg.Lookback)
	v.SetDefault("quit_key", cfg.QuitKey)
	v.SetDefault("alt_screen", cfg.AltScreen)
	v.SetDefault("session_duration", cfg.SessionDuration)
	v.SetDefault("max_credential_refreshes", cfg.MaxCredentialRefreshes)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("credentials_file", cfg.CredentialsFile)
	v.SetDefault("history_db", cfg.HistoryDB)
	v.SetDefault("history_retention", cfg.HistoryRetention)
	v.SetDefault("log_file", cfg.LogFile)
	v.SetDefault("log_level", cfg.LogLevel)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.CredentialsFile = expandHome(cfg.CredentialsFile)
	cfg.HistoryDB = expandHome(cfg.HistoryDB)
	cfg.LogFile = expandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
