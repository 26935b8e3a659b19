package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/rusenback/cwtail/internal/logging"
	"github.com/rusenback/cwtail/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent tail sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of sessions to show")
	historyCmd.Flags().StringVarP(&historyFormat, "format", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(historyOptions(cfg), logging.For(logger, logging.ComponentStorage))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return writeHistory(cmd.OutOrStdout(), entries, historyFormat, time.Now())
}

// writeHistory renders sessions in the requested format
func writeHistory(w io.Writer, entries []storage.SessionEntry, format string, now time.Time) error {
	switch format {
	case "json":
		if entries == nil {
			entries = []storage.SessionEntry{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()

	case "table", "":
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No tail sessions recorded yet.")
			return err
		}
		_, err := fmt.Fprintln(w, historyTable(entries, now))
		return err

	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func historyTable(entries []storage.SessionEntry, now time.Time) *table.Table {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#585B70"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ENDED", "REGION", "LOG GROUP", "STREAM", "DURATION", "EVENTS", "OUTCOME")

	for _, e := range entries {
		t.Row(
			humanize.RelTime(e.EndedAt, now, "ago", "from now"),
			e.Region,
			e.LogGroup,
			e.LogStream,
			e.Duration().Round(time.Second).String(),
			humanize.Comma(int64(e.Events)),
			outcomeLabel(e),
		)
	}
	return t
}

func outcomeLabel(e storage.SessionEntry) string {
	if e.Refreshes == 0 {
		return string(e.Outcome)
	}
	return string(e.Outcome) + " (" + strconv.Itoa(e.Refreshes) + " refresh)"
}
