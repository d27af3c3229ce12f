package textutil

import (
	"strings"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// ReportFileName derives "<session> Cue Sheet.<ext>" from a session name.
// Leading dots are dropped so the result is never hidden; an empty name
// falls back to fallback.
func ReportFileName(session, fallback, ext string) string {
	base := strings.TrimLeft(SanitizeFileName(session), ". ")
	if base == "" {
		base = strings.TrimLeft(SanitizeFileName(fallback), ". ")
	}
	if base == "" {
		base = "Untitled"
	}
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		return base + " Cue Sheet"
	}
	return base + " Cue Sheet." + ext
}
