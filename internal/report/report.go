package report

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"cuesheet/internal/aggregate"
	"cuesheet/internal/edl"
	"cuesheet/internal/enrichment"
	"cuesheet/internal/timecode"
)

// DefaultMusicUsage fills the Music Usage column.
const DefaultMusicUsage = "Background"

// Column describes one cue sheet column.
type Column struct {
	Title string
	// Numeric columns (durations, track numbers) read best right-aligned.
	Numeric bool
	// Summary marks the columns shown in the terminal view.
	Summary bool
}

// Columns is the fixed cue sheet column order.
var Columns = []Column{
	{Title: "Music Title", Summary: true},
	{Title: "Music Source", Summary: true},
	{Title: "Composer(s)", Summary: true},
	{Title: "Performer(s)"},
	{Title: "Publisher(s)", Summary: true},
	{Title: "Catalogue Code"},
	{Title: "Track No.", Numeric: true},
	{Title: "Duration", Numeric: true, Summary: true},
	{Title: "Music Usage"},
	{Title: "Vocal/Instrumental"},
	{Title: "Source Filename", Summary: true},
}

// Headers returns the column titles in order.
func Headers() []string {
	titles := make([]string, len(Columns))
	for i, col := range Columns {
		titles[i] = col.Title
	}
	return titles
}

// Options controls rendering.
type Options struct {
	Codec      timecode.Codec
	MusicUsage string
}

func (o Options) usage() string {
	if strings.TrimSpace(o.MusicUsage) == "" {
		return DefaultMusicUsage
	}
	return o.MusicUsage
}

// Row is one cue sheet line, already formatted.
type Row struct {
	Title         string
	Source        string
	Composers     string
	Performers    string
	Publisher     string
	CatalogueCode string
	TrackNumber   string
	Duration      string
	Usage         string
	Vocal         string
	SourceFile    string
}

// Cells returns the row in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Title,
		r.Source,
		r.Composers,
		r.Performers,
		r.Publisher,
		r.CatalogueCode,
		r.TrackNumber,
		r.Duration,
		r.Usage,
		r.Vocal,
		r.SourceFile,
	}
}

// Sort returns records ordered by title using locale collation, then by
// source file name. Equal keys keep their input order.
func Sort(records []enrichment.Record, locale string) []enrichment.Record {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.English
	}
	collator := collate.New(tag)
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b enrichment.Record) int {
		return cmp.Or(
			collator.CompareString(a.Title(), b.Title()),
			collator.CompareString(a.SourceFile(), b.SourceFile()),
		)
	})
	return sorted
}

// Rows formats records for CSV and table output.
func Rows(records []enrichment.Record, opts Options) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		meta := record.Metadata
		rows = append(rows, Row{
			Title:         record.Title(),
			Source:        meta.Source,
			Composers:     strings.Join(meta.Composers, ", "),
			Performers:    strings.Join(meta.Performers, ", "),
			Publisher:     meta.Publisher,
			CatalogueCode: meta.CatalogueCode,
			TrackNumber:   meta.TrackNumber,
			Duration:      opts.Codec.Encode(record.Track.Frames),
			Usage:         opts.usage(),
			Vocal:         meta.Vocal,
			SourceFile:    record.SourceFile(),
		})
	}
	return rows
}

// Document is the structured JSON/YAML export.
type Document struct {
	RunID       string    `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
	FrameRate   int       `json:"frame_rate" yaml:"frame_rate"`
	Sessions    []Session `json:"sessions" yaml:"sessions"`
	Tracks      []Track   `json:"tracks" yaml:"tracks"`
}

// Session summarizes one input file.
type Session struct {
	File    string `json:"file" yaml:"file"`
	Name    string `json:"name" yaml:"name"`
	Clips   int    `json:"clips" yaml:"clips"`
	Muted   int    `json:"muted" yaml:"muted"`
	Skipped int    `json:"skipped_lines" yaml:"skipped_lines"`
}

// Track is one cue with its timing and metadata.
type Track struct {
	Identity    string               `json:"identity" yaml:"identity"`
	DisplayName string               `json:"display_name" yaml:"display_name"`
	Title       string               `json:"title" yaml:"title"`
	Duration    string               `json:"duration" yaml:"duration"`
	Frames      int64                `json:"frames" yaml:"frames"`
	Seconds     float64              `json:"seconds" yaml:"seconds"`
	Usage       string               `json:"music_usage" yaml:"music_usage"`
	Metadata    enrichment.Metadata  `json:"metadata" yaml:"metadata"`
	Segments    []aggregate.Interval `json:"segments" yaml:"segments"`
	Files       []string             `json:"files" yaml:"files"`
}

// Build assembles a Document. records should already be sorted.
func Build(runID string, generated time.Time, sessions []edl.Session, records []enrichment.Record, opts Options) Document {
	rate := opts.Codec.Rate
	if rate <= 0 {
		rate = timecode.DefaultRate
	}
	doc := Document{
		RunID:       runID,
		GeneratedAt: generated.UTC(),
		FrameRate:   rate,
		Sessions:    make([]Session, 0, len(sessions)),
		Tracks:      make([]Track, 0, len(records)),
	}
	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, Session{
			File:    s.File,
			Name:    s.Name,
			Clips:   s.Clips,
			Muted:   s.Muted,
			Skipped: s.Skipped,
		})
	}
	for _, record := range records {
		doc.Tracks = append(doc.Tracks, Track{
			Identity:    record.Track.Identity,
			DisplayName: record.Track.DisplayName,
			Title:       record.Title(),
			Duration:    opts.Codec.Encode(record.Track.Frames),
			Frames:      record.Track.Frames,
			Seconds:     opts.Codec.Seconds(record.Track.Frames),
			Usage:       opts.usage(),
			Metadata:    record.Metadata,
			Segments:    record.Track.Segments,
			Files:       record.Track.Files,
		})
	}
	return doc
}
