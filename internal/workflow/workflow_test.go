package workflow_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/logging"
	"cuesheet/internal/reference"
	"cuesheet/internal/services"
	"cuesheet/internal/testsupport"
	"cuesheet/internal/workflow"
)

type recordingEnricher struct {
	tracks []aggregate.Track
}

func (e *recordingEnricher) Enrich(_ context.Context, tracks []aggregate.Track) []enrichment.Record {
	e.tracks = tracks
	return enrichment.NewRecords(tracks)
}

func newReference(t *testing.T) *reference.DB {
	t.Helper()
	return reference.New(testsupport.DefaultReference)
}

func TestRunTwoFilesMergeIntoOneTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	fileA := testsupport.WriteEDL(t, dir, "reel1.txt", "Mix1",
		testsupport.Clip{Name: "Theme_v2", Start: "01:00:00:00", End: "01:00:05:00"},
	)
	fileB := testsupport.WriteEDL(t, dir, "reel2.txt", "",
		testsupport.Clip{Name: "Theme_FULL", Start: "01:00:04:24", End: "01:00:10:00"},
	)

	runner := workflow.NewRunner(cfg, newReference(t))
	result, err := runner.Run(context.Background(), []string{fileA, fileB})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(result.Sessions) != 2 || result.Sessions[0].Name != "Mix1" || result.Sessions[1].Name != "Unknown Session" {
		t.Fatalf("unexpected sessions %+v", result.Sessions)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(result.Records))
	}
	record := result.Records[0]
	if record.Track.Frames != 250 {
		t.Fatalf("frames = %d, want 250", record.Track.Frames)
	}
	if record.Track.DisplayName != "Theme_v2" || record.Title() != "Theme_v2" {
		t.Fatalf("unexpected display %q title %q", record.Track.DisplayName, record.Title())
	}
	if got := strings.Join(record.Track.Files, ","); got != "reel1.txt,reel2.txt" {
		t.Fatalf("unexpected files %s", got)
	}
}

func TestRunFileOrderDoesNotChangeDuration(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()
	fileA := testsupport.WriteEDL(t, dir, "a.txt", "A",
		testsupport.Clip{Name: "Cue.wav", Start: "00:00:10:00", End: "00:00:20:00"},
	)
	fileB := testsupport.WriteEDL(t, dir, "b.txt", "B",
		testsupport.Clip{Name: "Cue copy 2.wav", Start: "00:00:15:00", End: "00:00:30:00"},
	)

	frames := func(inputs ...string) int64 {
		t.Helper()
		result, err := workflow.NewRunner(cfg, newReference(t)).Run(context.Background(), inputs)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result.Records[0].Track.Frames
	}
	if ab, ba := frames(fileA, fileB), frames(fileB, fileA); ab != ba || ab != 500 {
		t.Fatalf("order dependent durations: %d vs %d", ab, ba)
	}
}

func TestRunAppliesLibraryRulesAndSorts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteEDL(t, t.TempDir(), "reel.txt", "Promo",
		testsupport.Clip{Name: "Zulu_Theme", Start: "00:00:00:00", End: "00:00:02:00"},
		testsupport.Clip{Name: "ABC_012_Sunny_Days_Full_v2", Start: "00:00:05:00", End: "00:00:07:00"},
	)

	result, err := workflow.NewRunner(cfg, newReference(t)).Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected two records, got %d", len(result.Records))
	}
	library := result.Records[0]
	if library.Title() != "Sunny Days" {
		t.Fatalf("expected library record first, got %q", library.Title())
	}
	if library.Metadata.Source != enrichment.SourceLibrary || library.Metadata.Publisher != "Acme Production Music" {
		t.Fatalf("unexpected library metadata %+v", library.Metadata)
	}
	if result.Records[1].Title() != "Zulu_Theme" {
		t.Fatalf("unexpected second record %q", result.Records[1].Title())
	}
}

func TestRunReadsStdin(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stdin := strings.NewReader(testsupport.EDL("Piped",
		testsupport.Clip{Name: "Sting", Start: "00:00:01:00", End: "00:00:03:00"},
	))
	enricher := &recordingEnricher{}

	result, err := workflow.NewRunner(cfg, newReference(t),
		workflow.WithStdin(stdin),
		workflow.WithEnricher(enricher),
	).Run(context.Background(), []string{workflow.StdinPath})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sessions[0].File != "stdin" || result.Sessions[0].Name != "Piped" {
		t.Fatalf("unexpected session %+v", result.Sessions[0])
	}
	if len(enricher.tracks) != 1 || enricher.tracks[0].Frames != 50 {
		t.Fatalf("unexpected tracks %+v", enricher.tracks)
	}
}

func TestRunRequiresReference(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := workflow.NewRunner(cfg, nil).Run(context.Background(), []string{"x.txt"})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	if !services.Recoverable(err) {
		t.Fatal("expected precondition failures to be recoverable")
	}
}

func TestRunMissingFileIsInputError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := workflow.NewRunner(cfg, newReference(t)).Run(context.Background(),
		[]string{filepath.Join(t.TempDir(), "missing.txt")})
	if !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestRunOnlyMutedClipsIsEmptyResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteEDL(t, t.TempDir(), "muted.txt", "Muted",
		testsupport.Clip{Name: "Theme", Start: "00:00:00:00", End: "00:00:05:00", Muted: true},
	)
	enricher := &recordingEnricher{}

	_, err := workflow.NewRunner(cfg, newReference(t), workflow.WithEnricher(enricher)).
		Run(context.Background(), []string{path})
	if !errors.Is(err, services.ErrEmptyResult) || !errors.Is(err, aggregate.ErrNoUsableContent) {
		t.Fatalf("expected empty result, got %v", err)
	}
	if enricher.tracks != nil {
		t.Fatal("enrichment must not run for an empty result")
	}
}

func TestRunSkipsDropFrameLinesAndLogsReversedClips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteEDL(t, t.TempDir(), "bad.txt", "Bad",
		testsupport.Clip{Name: "Theme", Start: "01:00:00;00", End: "01:00:05:00"},
		testsupport.Clip{Name: "Theme", Start: "01:00:00:00", End: "01:00:05:00"},
		testsupport.Clip{Name: "Sting", Start: "00:00:05:00", End: "00:00:01:00"},
	)
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	result, err := workflow.NewRunner(cfg, newReference(t),
		workflow.WithLogger(logger),
		workflow.WithEnricher(&recordingEnricher{}),
	).Run(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Sessions[0].Clips != 2 {
		t.Fatalf("expected the drop-frame line to be skipped, got %+v", result.Sessions[0])
	}
	frames := map[string]int64{}
	for _, record := range result.Records {
		frames[record.Track.Identity] = record.Track.Frames
	}
	if frames["Theme"] != 125 {
		t.Fatalf("Theme frames = %d, want 125", frames["Theme"])
	}
	if got, ok := frames["Sting"]; !ok || got != 0 {
		t.Fatalf("reversed clip should register with zero frames, got %d (present=%v)", got, ok)
	}
	logs := buf.String()
	for _, want := range []string{`"event_type":"clip_reversed"`, `"file":"bad.txt"`, `"run_id":"` + result.RunID + `"`} {
		if !strings.Contains(logs, want) {
			t.Fatalf("expected %s in logs:\n%s", want, logs)
		}
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	path := testsupport.WriteEDL(t, t.TempDir(), "a.txt", "A",
		testsupport.Clip{Name: "Theme", Start: "00:00:00:00", End: "00:00:05:00"},
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := workflow.NewRunner(cfg, newReference(t)).Run(ctx, []string{path})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewEnricherUsesLookupAndCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var request struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		content := `{"tracks":[{"canonical_name":"Theme_v2","title":"Main Theme","music_source":"Commissioned Music","composers":["Ada Lane"]}]}`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": content}}},
		})
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithLLM(server.URL), testsupport.WithCache())
	path := testsupport.WriteEDL(t, t.TempDir(), "reel.txt", "Mix",
		testsupport.Clip{Name: "Theme_v2", Start: "00:00:00:00", End: "00:00:04:00"},
	)

	run := func() enrichment.Record {
		t.Helper()
		store := workflow.OpenCache(context.Background(), cfg, nil)
		if store == nil {
			t.Fatal("expected cache to open")
		}
		defer store.Close()
		ref := newReference(t)
		runner := workflow.NewRunner(cfg, ref,
			workflow.WithEnricher(workflow.NewEnricher(cfg, ref, store, nil)),
			workflow.WithClock(func() time.Time { return time.Unix(0, 0) }),
		)
		result, err := runner.Run(context.Background(), []string{path})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return result.Records[0]
	}

	first := run()
	if first.Title() != "Main Theme" || first.Metadata.Source != enrichment.SourceCommissioned {
		t.Fatalf("unexpected metadata %+v", first.Metadata)
	}
	if len(first.Metadata.Composers) != 1 || first.Metadata.Composers[0] != "Ada Lane" {
		t.Fatalf("unexpected composers %v", first.Metadata.Composers)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one request, got %d", calls.Load())
	}

	second := run()
	if second.Title() != "Main Theme" {
		t.Fatalf("cached title lost: %+v", second.Metadata)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected cached run to skip the request, got %d calls", calls.Load())
	}
}
