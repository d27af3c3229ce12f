package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cuesheet/internal/lookupcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the metadata lookup cache",
	}
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func withCache(cmd *cobra.Command, ctx *commandContext, fn func(*lookupcache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		return errors.New("lookup cache is disabled (cache.enabled = false)")
	}
	store, err := lookupcache.Open(cmd.Context(), cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open lookup cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached metadata lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, ctx, func(store *lookupcache.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, entries)
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "Lookup cache at %s is empty\n", store.Path())
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					var summary struct {
						Title  string `json:"title"`
						Source string `json:"music_source"`
					}
					_ = json.Unmarshal([]byte(entry.Payload), &summary)
					rows = append(rows, []string{
						entry.Key.Name,
						summary.Title,
						summary.Source,
						entry.Key.Model,
						entry.UpdatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(cacheColumns, rows))
				fmt.Fprintf(out, "%d entries in %s\n", len(entries), store.Path())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output entries as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached metadata lookup",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(cmd, ctx, func(store *lookupcache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached lookups\n", removed)
				return nil
			})
		},
	}
}
