package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rusenback/cwtail/internal/app"
	"github.com/rusenback/cwtail/internal/cloudwatch"
	"github.com/rusenback/cwtail/internal/credentials"
	"github.com/rusenback/cwtail/internal/logging"
	"github.com/rusenback/cwtail/internal/navigator"
	"github.com/rusenback/cwtail/internal/storage"
	"github.com/rusenback/cwtail/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tailNamespace string
	tailPrefix    string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Pick a log group and stream interactively and follow it",
	Long: `Pick a log group and stream interactively and follow it.

Navigation starts at /<namespace>/ (default "aws"). Each menu shows the next
path segment; segments ending in "/" open another level. After you stop
tailing with q you can return to stream selection.`,
	Args: cobra.NoArgs,
	RunE: runTail,
}

func init() {
	tailCmd.Flags().StringVar(&tailNamespace, "namespace", "", "top-level log group namespace (default from config, \"aws\")")
	tailCmd.Flags().StringVar(&tailPrefix, "prefix", "", "start navigation below this prefix, e.g. lambda/")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()
	if tailNamespace != "" {
		cfg.Namespace = tailNamespace
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.For(logger, logging.ComponentCLI)
	log.Info("starting", zap.String("version", BuildTag), zap.String("namespace", cfg.Namespace))

	history, err := storage.Open(historyOptions(cfg), logging.For(logger, logging.ComponentStorage))
	if err != nil {
		// history is optional, tailing works without it
		log.Warn("session history disabled", zap.Error(err))
	} else {
		defer history.Close()
	}

	terminal := tui.NewTerminal(cfg.AltScreen)
	cwCfg := cloudwatch.Config{Timeout: cfg.RequestTimeout}

	manager := credentials.NewManager(
		credentials.NewStore(cfg.CredentialsFile),
		terminal,
		cloudwatch.NewSessionIssuer(cwCfg),
		credentials.Options{
			SessionDuration: cfg.SessionDuration,
			MaxRefreshes:    cfg.MaxCredentialRefreshes,
		},
		logging.For(logger, logging.ComponentCredential),
	)

	var logs cloudwatch.LogsClient
	logs, err = cloudwatch.NewClient(ctx, cwCfg, manager.Handle(), logging.For(logger, logging.ComponentCloudWatch))
	if err != nil {
		return err
	}

	nav := navigator.New(logs, terminal, manager, navigator.Options{Namespace: cfg.Namespace},
		logging.For(logger, logging.ComponentNavigator))

	var sessions app.History
	if history != nil {
		sessions = history
	}
	runner := app.NewTailRunner(terminal, logs, manager, sessions, manager.Handle().Region, app.TailOptions{
		PollInterval: cfg.PollInterval,
		Limit:        cfg.MaxEventsPerFetch,
		Timeout:      cfg.RequestTimeout,
		QuitKey:      cfg.QuitKey,
		Lookback:     cfg.Lookback,
		MaxLines:     cfg.BufferMaxLines,
	}, logging.For(logger, logging.ComponentTail))

	prefix := strings.TrimPrefix(tailPrefix, "/")
	err = app.New(manager, nav, runner, terminal, prefix, log).Run(ctx)
	if err != nil {
		log.Error("tail session ended with error", zap.Error(err))
		return err
	}
	return nil
}
