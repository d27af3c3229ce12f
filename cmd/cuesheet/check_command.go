package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cuesheet/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check reference data, directories, and the metadata LLM",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results)+1)
			for _, result := range results {
				status := colorize(color, ansiGreen, "ok")
				if !result.Passed {
					status = colorize(color, ansiRed, "fail")
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			if !cfg.Enrichment.Enabled {
				rows = append(rows, []string{"Metadata LLM", "skip", "enrichment.enabled = false"})
			}

			for _, line := range heading("cuesheet readiness", color) {
				fmt.Fprintln(out, line)
			}
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			fmt.Fprintf(out, "Lookups enabled: %s\n", yesNo(cfg.LLMReady()))
			fmt.Fprintln(out, renderTable(checkColumns, rows))

			if preflight.Failed(results) {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
