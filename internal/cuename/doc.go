// Package cuename derives the two names the cue sheet needs from a raw clip
// name.
//
// DisplayName is a light clean-up (render suffix and audio extension removed)
// used as the human-facing original name. Identity is an aggressive rewrite
// that collapses takes, stems, versions and renders of the same cue onto one
// aggregation key. Identity applies the ordered Rules repeatedly until the
// name stops changing, so it is idempotent.
package cuename
