package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteCSV writes the header and rows. Every cell is quoted, embedded quotes
// are doubled, and rows are joined with "\n" with no trailing newline.
func WriteCSV(w io.Writer, rows []Row) error {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, csvLine(Headers()))
	for _, row := range rows {
		lines = append(lines, csvLine(row.Cells()))
	}
	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func csvLine(cells []string) string {
	quoted := make([]string, len(cells))
	for i, cell := range cells {
		quoted[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteYAML writes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return nil
}
