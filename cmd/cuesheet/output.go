package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cuesheet/internal/fileutil"
	"cuesheet/internal/logging"
)

const (
	ansiBold  = "\033[1m"
	ansiBlue  = "\033[34m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
	ansiReset = "\033[0m"
)

// stdoutTarget selects stdout for an output flag.
const stdoutTarget = "-"

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTarget renders to stdout when target is "-", otherwise atomically to
// the file at target.
func writeTarget(out io.Writer, target string, render func(io.Writer) error) error {
	if target == stdoutTarget {
		if err := render(out); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}
	if err := fileutil.WriteFileAtomic(target, 0o644, render); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return logging.IsTerminal(file)
}

func colorize(enabled bool, color, value string) string {
	if !enabled {
		return value
	}
	return color + value + ansiReset
}

func heading(title string, enabled bool) []string {
	line := strings.TrimSpace(title)
	rule := strings.Repeat("-", len([]rune(line)))
	if enabled {
		line = ansiBold + ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
