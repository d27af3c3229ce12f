// Package logs reads the JSON run log written by internal/logging.
//
// It tails the file with bounded memory, decodes each line into an Entry, and
// filters by run ID, minimum level or event type. Follow mode polls for
// appended lines until the context is cancelled. The CLI "cuesheet logs"
// command is the only caller.
package logs
