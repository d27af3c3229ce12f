// Package timecode converts between fixed-frame-rate timecode text and integer
// frame counts.
//
// Decode turns `HH:MM:SS:FF` into a frame count using the configured rate. It
// does not validate that the frame field is below the rate: out-of-range
// frames convert linearly. Strings that do not split into exactly four
// integer fields yield ErrMalformed together with a zero frame count. The zero
// is a degraded default; callers that can reject the input should do so.
//
// Encode renders a frame count as `HH:MM:SS` rounded to the nearest second. It
// is a reporting format and does not round-trip with Decode.
package timecode
