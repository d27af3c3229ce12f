package cuename

import (
	"regexp"
	"strings"
)

// descriptorVocabulary lists version/stem/mix tokens that never identify a cue.
const descriptorVocabulary = `instrumental|inst|underscore|remix|alternate|alt|stems|stem|drums|bass|sfx|fx|full|mix|edit|vocals|vox|acapella|perc|bed|cutdown|nomel|novox`

// separators are the characters DAWs use between name tokens.
const separators = `[\s_.\-]`

// Rule is a single rewrite step in the identity pipeline.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply runs the rule once over name.
func (r Rule) Apply(name string) string {
	return strings.TrimSpace(r.Pattern.ReplaceAllString(name, r.Replace))
}

// Rules is the ordered identity pipeline.
var Rules = []Rule{
	{
		Name:    "render-suffix",
		Pattern: regexp.MustCompile(`(?i)\.new\..*$`),
	},
	{
		Name:    "extension",
		Pattern: regexp.MustCompile(`(?i)\.(?:wav|aiff?|mp3|m4a|flac|ogg|aac|bwf)$`),
	},
	{
		// Pro Tools .dupN copies, "copy N", region numbering (-01) and channel suffixes.
		Name:    "duplicate",
		Pattern: regexp.MustCompile(`(?i)(?:\.dup\d*|[ _\-]copy(?:\s*\d+)?|-\d{2,3}|\.[LR])$`),
	},
	{
		Name:    "annotation",
		Pattern: regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`),
	},
	{
		Name:    "trailing-descriptor",
		Pattern: regexp.MustCompile(`(?i)` + separators + `+(?:` + descriptorVocabulary + `|\d+\s?s(?:ec)?)$`),
	},
	{
		Name:    "only-suffix",
		Pattern: regexp.MustCompile(`(?i)` + separators + `+only[a-z]+$`),
	},
	{
		Name:    "dash-descriptor",
		Pattern: regexp.MustCompile(`(?i)\s+-\s+(?:` + descriptorVocabulary + `|version|main|short|long|\d+\s?s(?:ec)?)\b[^-]*$`),
	},
	{
		Name:    "version",
		Pattern: regexp.MustCompile(`(?i)(?:` + separators + `+|^)v\d+(?:\.\d+)?$`),
	},
	{
		Name:    "descriptor-anywhere",
		Pattern: regexp.MustCompile(`(?i)(^|` + separators + `)(?:` + descriptorVocabulary + `)(?:` + separators + `|$)`),
		Replace: "${1}",
	},
	{
		Name:    "trailing-punctuation",
		Pattern: regexp.MustCompile(`[^\p{L}\p{N}]+$`),
	},
}

// RuleByName returns the named rule.
func RuleByName(name string) (Rule, bool) {
	for _, rule := range Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return Rule{}, false
}
