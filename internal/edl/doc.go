// Package edl reads DAW edit decision list text exports into session
// summaries and clip records.
//
// The parser is line oriented and order insensitive: every trimmed line is
// matched independently against the clip grammar
//
//	<index> <index> <name> <timecode> <timecode> <timecode> <Muted|Unmuted>
//
// and lines that do not match (headers, comments, blank lines) are skipped
// without error. The first line that begins with the session header supplies
// the session name.
//
// Timecodes are colon separated (`HH:MM:SS:FF`). A drop-frame or dotted token
// makes the whole line a non-match, so it adds no duration.
package edl
