package enrichment

import "strings"

// Patch is a partial metadata update. Empty fields are unset and leave the
// current value alone.
type Patch struct {
	Title         string
	Source        string
	Composers     []string
	Performers    []string
	Publisher     string
	CatalogueCode string
	TrackNumber   string
	Vocal         string
}

func (p Patch) apply(m Metadata) Metadata {
	setString(&m.Title, p.Title)
	setString(&m.Source, p.Source)
	setString(&m.Publisher, p.Publisher)
	setString(&m.CatalogueCode, p.CatalogueCode)
	setString(&m.TrackNumber, p.TrackNumber)
	setString(&m.Vocal, p.Vocal)
	if names := cleanNames(p.Composers); len(names) > 0 {
		m.Composers = names
	}
	if names := cleanNames(p.Performers); len(names) > 0 {
		m.Performers = names
	}
	return m
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

// Merge applies each pass's patches, keyed by track identity, in order and
// returns new records. Later passes win for the fields they set. The input
// slice is not modified.
func Merge(records []Record, passes ...map[string]Patch) []Record {
	out := make([]Record, len(records))
	for i, record := range records {
		meta := record.Metadata
		meta.Composers = append([]string(nil), meta.Composers...)
		meta.Performers = append([]string(nil), meta.Performers...)
		for _, pass := range passes {
			if patch, ok := pass[record.Track.Identity]; ok {
				meta = patch.apply(meta)
			}
		}
		out[i] = Record{Track: record.Track, Metadata: meta}
	}
	return out
}

// cleanNames trims, drops empties and removes case-insensitive duplicates.
func cleanNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
