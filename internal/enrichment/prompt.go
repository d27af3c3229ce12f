package enrichment

import (
	"fmt"
	"strings"
)

// BatchSystemPrompt is the instruction block for the batched metadata request.
// The taxonomy and reference text are appended by batchSystemPrompt.
const BatchSystemPrompt = `You are a music licensing researcher preparing a broadcast music cue sheet.

For every track name you are given, identify the recording and return its licensing metadata.
Track names are cleaned DAW file names. A name that starts with a library code followed by an
underscore (for example "ABC_0123_Title") belongs to that production music library.

Rules:

- Copy each input name exactly into "canonical_name".
- "title" is the published title of the work, not the file name.
- "music_source" must be one of the allowed sources listed below.
- "vocal_instrumental" is "Vocal" or "Instrumental".
- "composers" and "performers" are arrays of full names; use [] when unknown.
- Use "" for any other unknown field. Never invent catalogue codes.

You must respond ONLY with a JSON object like:
{"tracks":[{"canonical_name":"...","title":"...","music_source":"Library Music","vocal_instrumental":"Instrumental","composers":["..."],"performers":[],"publisher":"...","catalogue_code":"...","track_number":"..."}]}`

// LibraryComposerPrompt asks for composers of a production library track.
const LibraryComposerPrompt = `You identify composers of production library music.
Reply with the composer names as a plain comma-separated list and nothing else.
If you do not know, reply with an empty message.`

// CommercialComposerPrompt asks for songwriters of a commercial recording.
const CommercialComposerPrompt = `You identify the songwriters of commercially released recordings.
Reply with the songwriter names as a plain comma-separated list and nothing else.
If you do not know, reply with an empty message.`

func batchSystemPrompt(referenceText string) string {
	var b strings.Builder
	b.WriteString(BatchSystemPrompt)
	b.WriteString("\n\nAllowed music_source values:\n")
	for _, source := range Sources {
		fmt.Fprintf(&b, "- %s\n", source)
	}
	if text := strings.TrimSpace(referenceText); text != "" {
		b.WriteString("\nReference data:\n")
		b.WriteString(text)
		b.WriteByte('\n')
	}
	return b.String()
}

func batchUserPrompt(names []string) string {
	var b strings.Builder
	b.WriteString("Tracks:\n")
	for _, name := range names {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteByte('\n')
	}
	return b.String()
}

func libraryComposerUserPrompt(m Metadata, library string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	if publisher := firstNonEmpty(m.Publisher, library); publisher != "" {
		fmt.Fprintf(&b, "Library: %s\n", publisher)
	}
	if m.CatalogueCode != "" {
		fmt.Fprintf(&b, "Catalogue code: %s\n", m.CatalogueCode)
	}
	if m.TrackNumber != "" {
		fmt.Fprintf(&b, "Track number: %s\n", m.TrackNumber)
	}
	return b.String()
}

func commercialComposerUserPrompt(m Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", m.Title)
	if len(m.Performers) > 0 {
		fmt.Fprintf(&b, "Performed by: %s\n", strings.Join(m.Performers, ", "))
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
