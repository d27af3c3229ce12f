package logs_test

import (
	"testing"

	"cuesheet/internal/logs"
)

func TestFilterSelect(t *testing.T) {
	lines := []string{
		`{"ts":"2026-01-02T03:04:05Z","level":"info","msg":"run started","run_id":"abc-1","event_type":"run_start"}`,
		`{"ts":"2026-01-02T03:04:06Z","level":"warn","msg":"clip ends before it starts; counted as zero length","run_id":"abc-1","file":"a.txt","event_type":"clip_reversed"}`,
		`{"ts":"2026-01-02T03:05:00Z","level":"error","msg":"stage failed","run_id":"def-2"}`,
		`not json`,
	}

	tests := []struct {
		name   string
		filter logs.Filter
		want   []string
	}{
		{"all", logs.Filter{}, []string{"run started", "clip ends before it starts; counted as zero length", "stage failed"}},
		{"run prefix", logs.Filter{RunID: "abc"}, []string{"run started", "clip ends before it starts; counted as zero length"}},
		{"min level", logs.Filter{MinLevel: "warn"}, []string{"clip ends before it starts; counted as zero length", "stage failed"}},
		{"event", logs.Filter{EventType: "run_start"}, []string{"run started"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := tt.filter.Select(lines)
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, entry := range entries {
				if entry.Message != tt.want[i] {
					t.Fatalf("entry %d = %q, want %q", i, entry.Message, tt.want[i])
				}
			}
		})
	}
}

func TestParseLineKeepsFields(t *testing.T) {
	entry, ok := logs.ParseLine(`{"level":"WARN","msg":"x","file":"reel.txt","stage":"parse"}`)
	if !ok {
		t.Fatal("expected line to parse")
	}
	if entry.Level != "warn" || entry.File != "reel.txt" || entry.Stage != "parse" || entry.Raw == "" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}
