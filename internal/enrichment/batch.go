package enrichment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// batchResponse is the JSON document returned by the batched request.
type batchResponse struct {
	Tracks []batchEntry `json:"tracks"`
}

// batchEntry is one track in the batch response, also the cached payload.
type batchEntry struct {
	CanonicalName string     `json:"canonical_name"`
	Title         string     `json:"title"`
	MusicSource   string     `json:"music_source"`
	Vocal         string     `json:"vocal_instrumental"`
	Composers     flexList   `json:"composers"`
	Performers    flexList   `json:"performers"`
	Publisher     string     `json:"publisher"`
	CatalogueCode string     `json:"catalogue_code"`
	TrackNumber   flexString `json:"track_number"`
}

// validate checks required fields and normalizes enumerations. Unknown
// source or vocal values are cleared; the returned warnings describe them.
func (e *batchEntry) validate() (warnings []string, err error) {
	e.CanonicalName = strings.TrimSpace(e.CanonicalName)
	e.Title = strings.TrimSpace(e.Title)
	if e.CanonicalName == "" {
		return nil, fmt.Errorf("missing canonical_name")
	}
	if e.Title == "" {
		return nil, fmt.Errorf("missing title for %q", e.CanonicalName)
	}
	if raw := strings.TrimSpace(e.MusicSource); raw != "" {
		source, ok := NormalizeSource(raw)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown music_source %q", raw))
		}
		e.MusicSource = source
	}
	if raw := strings.TrimSpace(e.Vocal); raw != "" {
		e.Vocal = NormalizeVocal(raw)
		if e.Vocal == "" {
			warnings = append(warnings, fmt.Sprintf("unknown vocal_instrumental %q", raw))
		}
	}
	return warnings, nil
}

func (e batchEntry) patch() Patch {
	return Patch{
		Title:         e.Title,
		Source:        e.MusicSource,
		Composers:     []string(e.Composers),
		Performers:    []string(e.Performers),
		Publisher:     e.Publisher,
		CatalogueCode: e.CatalogueCode,
		TrackNumber:   string(e.TrackNumber),
		Vocal:         e.Vocal,
	}
}

// flexList accepts a JSON array of strings, a single comma-separated string,
// or null.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var values []string
		if err := json.Unmarshal(data, &values); err != nil {
			return err
		}
		*l = values
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*l = SplitNames(value)
	return nil
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null" || trimmed == "":
		*s = ""
	case strings.HasPrefix(trimmed, `"`):
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(value))
	default:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("track_number: %w", err)
		}
		*s = flexString(trimmed)
	}
	return nil
}

// SplitNames parses a free-text name list ("A, B and C"). Answers that mean
// "unknown" yield nil.
func SplitNames(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, ".")
	switch strings.ToLower(text) {
	case "", "unknown", "none", "n/a", "na", "-":
		return nil
	}
	text = strings.ReplaceAll(text, ";", ",")
	text = strings.ReplaceAll(text, " & ", ", ")
	text = strings.ReplaceAll(text, " and ", ", ")
	var names []string
	for _, part := range strings.Split(text, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return cleanNames(names)
}
