package main

import (
	"fmt"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/config"
	"github.com/rusenback/cwtail/internal/logging"
	"github.com/rusenback/cwtail/internal/storage"
	"go.uber.org/zap"
)

// loadConfig loads the configuration and opens the log file
func loadConfig() (config.Config, *zap.Logger, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, clierr.WrapWithHint(
			fmt.Errorf("load config: %w", err),
			"fix ~/.cwtail/config.yaml (or the file given with --config) or unset CWTAIL_* variables")
	}

	logger, closeLog, err := logging.NewFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, closeLog, nil
}

func historyOptions(cfg config.Config) storage.Options {
	opts := storage.DefaultOptions(cfg.HistoryDB)
	opts.Retention = cfg.HistoryRetention
	return opts
}
