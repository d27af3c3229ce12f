package enrichment

import (
	"strings"

	"cuesheet/internal/aggregate"
)

// Music source categories reported on the cue sheet.
const (
	SourceLibrary      = "Library Music"
	SourceCommercial   = "Commercial Music"
	SourceCommissioned = "Commissioned Music"
)

// Vocal/instrumental classification values.
const (
	Vocal        = "Vocal"
	Instrumental = "Instrumental"
)

// Sources lists the accepted music source values in prompt order.
var Sources = []string{SourceLibrary, SourceCommercial, SourceCommissioned}

// Metadata is the licensing information for one cue.
type Metadata struct {
	Title         string   `json:"title,omitempty" yaml:"title,omitempty"`
	Source        string   `json:"music_source,omitempty" yaml:"music_source,omitempty"`
	Composers     []string `json:"composers,omitempty" yaml:"composers,omitempty"`
	Performers    []string `json:"performers,omitempty" yaml:"performers,omitempty"`
	Publisher     string   `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	CatalogueCode string   `json:"catalogue_code,omitempty" yaml:"catalogue_code,omitempty"`
	TrackNumber   string   `json:"track_number,omitempty" yaml:"track_number,omitempty"`
	Vocal         string   `json:"vocal_instrumental,omitempty" yaml:"vocal_instrumental,omitempty"`
}

// Record is an aggregated track plus its metadata.
type Record struct {
	Track    aggregate.Track
	Metadata Metadata
}

// NewRecords wraps tracks with empty metadata.
func NewRecords(tracks []aggregate.Track) []Record {
	records := make([]Record, len(tracks))
	for i, track := range tracks {
		records[i] = Record{Track: track}
	}
	return records
}

// Title returns the looked-up title, falling back to the display name.
func (r Record) Title() string {
	if title := strings.TrimSpace(r.Metadata.Title); title != "" {
		return title
	}
	return r.Track.DisplayName
}

// SourceFile returns the first file the track appeared in.
func (r Record) SourceFile() string {
	if len(r.Track.Files) == 0 {
		return ""
	}
	return r.Track.Files[0]
}

// NormalizeSource maps value onto the taxonomy, case-insensitively. It
// returns false for anything outside Sources.
func NormalizeSource(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	for _, source := range Sources {
		if strings.EqualFold(value, source) {
			return source, true
		}
	}
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "library"), strings.HasPrefix(lower, "production"):
		return SourceLibrary, true
	case strings.HasPrefix(lower, "commercial"):
		return SourceCommercial, true
	case strings.HasPrefix(lower, "commission"), strings.HasPrefix(lower, "bespoke"):
		return SourceCommissioned, true
	}
	return "", false
}

// NormalizeVocal maps value onto Vocal or Instrumental.
func NormalizeVocal(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "vocal", "vocals", "v":
		return Vocal
	case "instrumental", "inst", "i":
		return Instrumental
	}
	return ""
}
