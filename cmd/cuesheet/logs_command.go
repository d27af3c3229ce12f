package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cuesheet/internal/logging"
	"cuesheet/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		raw    bool
		filter logs.Filter
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the run log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.LogDir) == "" {
				return errors.New("paths.log_dir is not set; no run log is written")
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			emit := func(line string) {
				entry, ok := logs.ParseLine(line)
				if !ok || !filter.Match(entry) {
					return
				}
				if raw {
					fmt.Fprintln(out, entry.Raw)
					return
				}
				fmt.Fprintln(out, formatLogEntry(entry, color))
			}

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			for _, line := range tail {
				emit(line)
			}
			if !follow {
				return nil
			}
			if err := logs.Follow(cmd.Context(), path, offset, 500*time.Millisecond, emit); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing log lines to read")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new log lines")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the JSON records unchanged")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only show records for this run ID (prefix match)")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level to show (debug, info, warn, error)")
	cmd.Flags().StringVar(&filter.EventType, "event", "", "Only show records with this event_type")
	return cmd
}

func formatLogEntry(entry logs.Entry, color bool) string {
	var b strings.Builder
	b.WriteString(entry.Time)
	b.WriteByte(' ')
	level := strings.ToUpper(entry.Level)
	switch entry.Level {
	case "warn", "warning":
		level = colorize(color, ansiBold, level)
	case "error":
		level = colorize(color, ansiRed, level)
	}
	b.WriteString(level)
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	if entry.Stage != "" {
		fmt.Fprintf(&b, " %s", entry.Stage)
	}
	if entry.File != "" {
		fmt.Fprintf(&b, " (%s)", entry.File)
	}
	fmt.Fprintf(&b, " %s", entry.Message)
	if entry.RunID != "" {
		fmt.Fprintf(&b, " run=%s", shortRunID(entry.RunID))
	}
	return b.String()
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

