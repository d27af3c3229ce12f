package enrichment

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cuesheet/internal/cuename"
	"cuesheet/internal/reference"
)

var (
	titleCaser         = cases.Title(language.Und)
	numericTokenRegex  = regexp.MustCompile(`^\d+[A-Za-z]?$`)
	titleSeparatorRepl = strings.NewReplacer("_", " ", ".", " ")
)

// ReparseTitle derives a library track title from its file name: the
// "<CODE>_" prefix, numeric catalogue and track tokens, and descriptor
// suffixes are removed, underscores become spaces, and the rest is
// title-cased.
func ReparseTitle(displayName, code string) string {
	name := strings.TrimSpace(displayName)
	if code != "" && len(name) > len(code) && strings.EqualFold(name[:len(code)], code) && name[len(code)] == '_' {
		name = name[len(code)+1:]
	}
	name = cuename.Strip(name)

	var words []string
	for _, token := range strings.Fields(titleSeparatorRepl.Replace(name)) {
		if numericTokenRegex.MatchString(token) {
			continue
		}
		words = append(words, token)
	}
	if len(words) == 0 {
		return ""
	}
	return titleCaser.String(strings.Join(words, " "))
}

// ReorderName turns "Last First" (or "Last, First") into "First Last". Names
// with any other token count are returned with whitespace collapsed.
func ReorderName(name string) string {
	if last, first, ok := strings.Cut(name, ","); ok && !strings.Contains(first, ",") {
		last, first = strings.TrimSpace(last), strings.TrimSpace(first)
		if len(strings.Fields(last)) == 1 && len(strings.Fields(first)) == 1 {
			return first + " " + last
		}
	}
	tokens := strings.Fields(name)
	if len(tokens) != 2 {
		return strings.Join(tokens, " ")
	}
	return tokens[1] + " " + tokens[0]
}

// libraryPass builds the deterministic library rewrite for records whose
// display name carries a reference library code.
func libraryPass(records []Record, db *reference.DB) map[string]Patch {
	patches := make(map[string]Patch)
	for _, record := range records {
		lib, ok := db.LibraryFor(record.Track.DisplayName)
		if !ok {
			continue
		}
		patch := Patch{
			Source: SourceLibrary,
			Title:  ReparseTitle(record.Track.DisplayName, lib.Code),
		}
		if strings.TrimSpace(record.Metadata.Publisher) == "" {
			patch.Publisher = lib.Publisher
		}
		if len(record.Metadata.Composers) > 0 {
			patch.Composers = reorderNames(record.Metadata.Composers)
		}
		patches[record.Track.Identity] = patch
	}
	return patches
}

func reorderNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, ReorderName(name))
	}
	return out
}
