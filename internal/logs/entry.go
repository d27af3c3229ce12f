package logs

import (
	"encoding/json"
	"strings"
)

// Entry is one decoded JSON log record.
type Entry struct {
	Time      string `json:"ts"`
	Level     string `json:"level"`
	Message   string `json:"msg"`
	Component string `json:"component"`
	RunID     string `json:"run_id"`
	Stage     string `json:"stage"`
	File      string `json:"file"`
	EventType string `json:"event_type"`
	Raw       string `json:"-"`
}

// ParseLine decodes a JSON log line. Lines that are not JSON objects return
// false.
func ParseLine(line string) (Entry, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "{") {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return Entry{}, false
	}
	entry.Level = strings.ToLower(entry.Level)
	entry.Raw = line
	return entry, true
}

var levelRank = map[string]int{
	"debug":   0,
	"info":    1,
	"warn":    2,
	"warning": 2,
	"error":   3,
}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	RunID     string
	MinLevel  string
	EventType string
}

// Match reports whether entry passes the filter.
func (f Filter) Match(entry Entry) bool {
	if f.RunID != "" && !strings.HasPrefix(entry.RunID, f.RunID) {
		return false
	}
	if f.EventType != "" && entry.EventType != f.EventType {
		return false
	}
	if f.MinLevel != "" {
		want, ok := levelRank[strings.ToLower(f.MinLevel)]
		if ok && levelRank[entry.Level] < want {
			return false
		}
	}
	return true
}

// Select decodes lines and keeps those matching f. Undecodable lines are
// dropped.
func (f Filter) Select(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entry, ok := ParseLine(line)
		if !ok || !f.Match(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
