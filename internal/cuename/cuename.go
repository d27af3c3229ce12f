package cuename

import (
	"regexp"
	"strings"
)

// maxPasses bounds the fixed-point loop. Every rule only removes text, so the
// pipeline settles long before this.
const maxPasses = 32

var (
	renderSuffixPattern = regexp.MustCompile(`(?i)\.new\..*$`)
	extensionPattern    = regexp.MustCompile(`(?i)\.(?:wav|aiff?|mp3|m4a|flac|ogg|aac|bwf)\b`)
)

// DisplayName strips the render suffix and audio extensions from raw.
func DisplayName(raw string) string {
	name := renderSuffixPattern.ReplaceAllString(raw, "")
	name = extensionPattern.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// Identity returns the canonical aggregation key for raw. When the rules strip
// everything (a clip named only "Drums", say) the display name is used instead
// so the key is never empty.
func Identity(raw string) string {
	name := Strip(raw)
	if name == "" {
		return DisplayName(raw)
	}
	return name
}

// Strip runs the rule pipeline to a fixed point without the empty fallback.
func Strip(raw string) string {
	name := strings.TrimSpace(raw)
	for range maxPasses {
		next := applyAll(name)
		if next == name {
			break
		}
		name = next
	}
	return name
}

func applyAll(name string) string {
	for _, rule := range Rules {
		name = rule.Apply(name)
	}
	return name
}
