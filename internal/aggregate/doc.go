// Package aggregate merges clip intervals into one on-timeline duration per
// canonical track identity.
//
// Documents must be added in processing order (file order, then line order).
// Muted clips are discarded. The first raw name seen for an identity supplies
// its display name. Per identity, intervals are sorted by start and coalesced
// when the next start falls within Tolerance frames of the current end
// (DefaultTolerance, one frame, unless Options.Tolerance says otherwise); the
// track duration is the sum of the merged window lengths (end - start).
package aggregate
