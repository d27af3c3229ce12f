package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/edl"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/report"
	"cuesheet/internal/timecode"
)

func record(display, title, file string, frames int64) enrichment.Record {
	return enrichment.Record{
		Track: aggregate.Track{
			Identity:    display,
			DisplayName: display,
			Frames:      frames,
			Files:       []string{file},
		},
		Metadata: enrichment.Metadata{Title: title},
	}
}

func TestSortUsesLocaleCollation(t *testing.T) {
	records := []enrichment.Record{
		record("b", "zebra", "a.edl", 1),
		record("c", "Éclair", "a.edl", 1),
		record("d", "apple", "b.edl", 1),
		record("f", "", "a.edl", 1),
	}
	sorted := report.Sort(records, "en")

	var got []string
	for _, r := range sorted {
		got = append(got, r.Title())
	}
	want := []string{"apple", "Éclair", "f", "zebra"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected order %v", got)
	}
	if records[0].Title() != "zebra" {
		t.Fatal("expected Sort to leave its input untouched")
	}
}

func TestSortTieBreaksOnSourceFile(t *testing.T) {
	records := []enrichment.Record{
		record("a", "Theme", "reel2.edl", 1),
		record("b", "Theme", "reel1.edl", 1),
	}
	sorted := report.Sort(records, "en")
	if sorted[0].SourceFile() != "reel1.edl" {
		t.Fatalf("expected reel1 first, got %s", sorted[0].SourceFile())
	}
}

func TestWriteCSVQuotesEveryCell(t *testing.T) {
	r := record("Theme_v2", `The "Big" Theme`, "reel1.edl", 250)
	r.Metadata.Composers = []string{"Jane Doe", "Bob Roe"}
	r.Metadata.Source = enrichment.SourceCommercial
	rows := report.Rows([]enrichment.Record{r}, report.Options{Codec: timecode.New(25)})

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row without trailing newline, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], `"Music Title","Music Source","Composer(s)"`) {
		t.Fatalf("unexpected header %q", lines[0])
	}
	want := `"The ""Big"" Theme","Commercial Music","Jane Doe, Bob Roe","","","","","00:00:10","Background","","reel1.edl"`
	if lines[1] != want {
		t.Fatalf("unexpected row\n got %s\nwant %s", lines[1], want)
	}
}

func TestRowsUseConfiguredUsage(t *testing.T) {
	rows := report.Rows([]enrichment.Record{record("x", "", "a.edl", 0)}, report.Options{MusicUsage: "Featured"})
	if rows[0].Usage != "Featured" {
		t.Fatalf("unexpected usage %q", rows[0].Usage)
	}
	if rows[0].Title != "x" || rows[0].Duration != "00:00:00" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if len(rows[0].Cells()) != len(report.Columns) {
		t.Fatalf("cells and columns differ: %d vs %d", len(rows[0].Cells()), len(report.Columns))
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	r := record("Theme_v2", "Theme", "reel1.edl", 250)
	r.Track.Segments = []aggregate.Interval{{Start: 90000, End: 90250}}
	doc := report.Build("run-1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		[]edl.Session{{File: "reel1.edl", Name: "Promo", Clips: 2}},
		[]enrichment.Record{r},
		report.Options{Codec: timecode.New(25)},
	)

	var jsonBuf bytes.Buffer
	if err := report.WriteJSON(&jsonBuf, doc); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded struct {
		RunID  string `json:"run_id"`
		Tracks []struct {
			Title    string  `json:"title"`
			Frames   int64   `json:"frames"`
			Seconds  float64 `json:"seconds"`
			Duration string  `json:"duration"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if decoded.RunID != "run-1" || len(decoded.Tracks) != 1 {
		t.Fatalf("unexpected json %s", jsonBuf.String())
	}
	if tr := decoded.Tracks[0]; tr.Frames != 250 || tr.Seconds != 10 || tr.Duration != "00:00:10" {
		t.Fatalf("unexpected track %+v", tr)
	}

	var yamlBuf bytes.Buffer
	if err := report.WriteYAML(&yamlBuf, doc); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	var generic map[string]any
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &generic); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if generic["frame_rate"] != 25 {
		t.Fatalf("unexpected frame_rate %v", generic["frame_rate"])
	}
	if !strings.Contains(yamlBuf.String(), "name: Promo") {
		t.Fatalf("expected session in yaml, got %s", yamlBuf.String())
	}
}
