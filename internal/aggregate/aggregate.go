package aggregate

import (
	"errors"
	"slices"

	"cuesheet/internal/cuename"
	"cuesheet/internal/edl"
)

// DefaultTolerance is the gap, in frames, still treated as a seam between two
// regions of one performance.
const DefaultTolerance int64 = 1

// ErrNoUsableContent reports that no unmuted clip survived aggregation.
var ErrNoUsableContent = errors.New("no unmuted music clips found in the supplied files")

// Interval is a [Start, End] frame span.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns End - Start.
func (i Interval) Len() int64 {
	return i.End - i.Start
}

// Track is the merged duration record for one identity.
type Track struct {
	Identity    string
	DisplayName string
	Frames      int64
	Segments    []Interval
	Clips       int
	Files       []string
	Order       int
}

// Options configures an Aggregator.
type Options struct {
	// Tolerance is the coalescing gap in frames. Nil means DefaultTolerance;
	// use Tolerance(0) to merge only touching or overlapping clips.
	Tolerance *int64
	// Identity derives the grouping key; defaults to cuename.Identity.
	Identity func(string) string
	// Display derives the human-facing name; defaults to cuename.DisplayName.
	Display func(string) string
	// OnReversed is called for clips whose end precedes their start.
	OnReversed func(edl.Clip)
}

// Tolerance returns a pointer for Options.Tolerance.
func Tolerance(frames int64) *int64 {
	return &frames
}

type group struct {
	display   string
	order     int
	intervals []Interval
	files     []string
}

// Aggregator accumulates clips across documents. It is not safe for
// concurrent use.
type Aggregator struct {
	opts      Options
	tolerance int64
	groups    map[string]*group
	keys   []string
}

// New constructs an Aggregator.
func New(opts Options) *Aggregator {
	tolerance := DefaultTolerance
	if opts.Tolerance != nil && *opts.Tolerance >= 0 {
		tolerance = *opts.Tolerance
	}
	if opts.Identity == nil {
		opts.Identity = cuename.Identity
	}
	if opts.Display == nil {
		opts.Display = cuename.DisplayName
	}
	return &Aggregator{
		opts:      opts,
		tolerance: tolerance,
		groups:    make(map[string]*group),
	}
}

// Add feeds one document's clips into the aggregation.
func (a *Aggregator) Add(doc edl.Document) {
	for _, clip := range doc.Clips {
		a.AddClip(clip)
	}
}

// AddClip feeds a single clip. Muted clips are ignored.
func (a *Aggregator) AddClip(clip edl.Clip) {
	if !clip.Audible() {
		return
	}
	key := a.opts.Identity(clip.Name)
	g, ok := a.groups[key]
	if !ok {
		g = &group{display: a.opts.Display(clip.Name), order: len(a.keys)}
		a.groups[key] = g
		a.keys = append(a.keys, key)
	}

	span := Interval{Start: clip.Start, End: clip.End}
	if span.End < span.Start {
		if a.opts.OnReversed != nil {
			a.opts.OnReversed(clip)
		}
		span.End = span.Start
	}
	g.intervals = append(g.intervals, span)
	if clip.File != "" && !slices.Contains(g.files, clip.File) {
		g.files = append(g.files, clip.File)
	}
}

// Tracks returns one record per identity in first-seen order, or
// ErrNoUsableContent when nothing was added.
func (a *Aggregator) Tracks() ([]Track, error) {
	tracks := make([]Track, 0, len(a.keys))
	for _, key := range a.keys {
		g := a.groups[key]
		if len(g.intervals) == 0 {
			continue
		}
		segments, total := Merge(g.intervals, a.tolerance)
		tracks = append(tracks, Track{
			Identity:    key,
			DisplayName: g.display,
			Frames:      total,
			Segments:    segments,
			Clips:       len(g.intervals),
			Files:       slices.Clone(g.files),
			Order:       g.order,
		})
	}
	if len(tracks) == 0 {
		return nil, ErrNoUsableContent
	}
	return tracks, nil
}

// Merge sorts intervals by start and coalesces those whose start is within
// tolerance frames of the running end. It returns the merged windows and the
// sum of their lengths. The input slice is not modified.
func Merge(intervals []Interval, tolerance int64) ([]Interval, int64) {
	if len(intervals) == 0 {
		return nil, 0
	}
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b Interval) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		default:
			return 0
		}
	})

	var (
		merged []Interval
		total  int64
	)
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Start <= current.End+tolerance {
			current.End = max(current.End, next.End)
			continue
		}
		merged = append(merged, current)
		total += current.Len()
		current = next
	}
	merged = append(merged, current)
	total += current.Len()
	return merged, total
}
