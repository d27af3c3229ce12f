package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cuesheet/internal/cuename"
	"cuesheet/internal/edl"
	"cuesheet/internal/timecode"
	"cuesheet/internal/workflow"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "parse <edl-file>...",
		Short: "Show the clip records extracted from EDL exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			codec := timecode.New(cfg.Timeline.FrameRate)
			out := cmd.OutOrStdout()
			color := shouldColorize(out)

			docs := make([]edl.Document, 0, len(args))
			for _, path := range args {
				opts := edl.Options{
					Rate:           cfg.Timeline.FrameRate,
					SessionHeader:  cfg.Timeline.SessionHeader,
					DefaultSession: cfg.Timeline.DefaultSession,
				}
				var doc edl.Document
				if path == workflow.StdinPath {
					opts.File = "stdin"
					doc, err = edl.Parse(cmd.InOrStdin(), opts)
				} else {
					opts.File = filepath.Base(path)
					doc, err = edl.ParseFile(path, opts)
				}
				if err != nil {
					return err
				}
				docs = append(docs, doc)
			}
			if jsonOutput {
				return writeJSON(cmd, docs)
			}

			for i, doc := range docs {
				if i > 0 {
					fmt.Fprintln(out)
				}
				session := doc.Session
				for _, line := range heading(fmt.Sprintf("%s: %s", session.File, session.Name), color) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "%d clips, %d muted, %d lines skipped\n", session.Clips, session.Muted, session.Skipped)
				if len(doc.Clips) == 0 {
					continue
				}
				rows := make([][]string, 0, len(doc.Clips))
				for _, clip := range doc.Clips {
					state := string(clip.State)
					if !clip.Audible() {
						state = colorize(color, ansiRed, state)
					}
					rows = append(rows, []string{
						strconv.Itoa(clip.Line),
						clip.Name,
						strconv.FormatInt(clip.Start, 10),
						strconv.FormatInt(clip.End, 10),
						codec.Encode(clip.End - clip.Start),
						state,
					})
				}
				fmt.Fprintln(out, renderTable(clipColumns, rows))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the parsed documents as JSON")
	return cmd
}

func newNormalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "normalize <clip-name>...",
		Short:       "Show the display name and track identity derived from clip names",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, raw := range args {
				rows = append(rows, []string{
					raw,
					cuename.DisplayName(raw),
					cuename.Identity(raw),
					strings.Join(matchedRules(raw), ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(normalizeColumns, rows))
			return nil
		},
	}
}

// matchedRules lists the rules that change name during the first pass.
func matchedRules(name string) []string {
	var matched []string
	current := name
	for _, rule := range cuename.Rules {
		next := rule.Apply(current)
		if next != current {
			matched = append(matched, rule.Name)
			current = next
		}
	}
	return matched
}
