package edl

import "strings"

// DefaultSessionHeader introduces the session name line.
const DefaultSessionHeader = "SESSION NAME:"

// DefaultSessionName is used when a file carries no session header.
const DefaultSessionName = "Unknown Session"

// State is the mute state of a clip.
type State string

const (
	// Muted clips are parsed but never contribute to duration.
	Muted State = "Muted"
	// Unmuted clips are played on the timeline.
	Unmuted State = "Unmuted"
)

// Clip is one matched clip line.
type Clip struct {
	File    string
	Line    int
	Channel int
	Event   int
	Name    string
	Start   int64
	End     int64
	// Sync is the third timecode column. It is kept for inspection only.
	Sync  int64
	State State
}

// Audible reports whether the clip contributes to duration.
func (c Clip) Audible() bool {
	return c.State == Unmuted
}

// Session summarises one input file.
type Session struct {
	File    string
	Name    string
	Clips   int
	Muted   int
	Skipped int
}

// Document is the parse result for one file.
type Document struct {
	Session Session
	Clips   []Clip
}

// Options configures parsing.
type Options struct {
	// File labels the clips and session; usually the base name of the input.
	File string
	// Rate is the fixed frame rate; zero means timecode.DefaultRate.
	Rate int
	// SessionHeader overrides DefaultSessionHeader.
	SessionHeader string
	// DefaultSession overrides DefaultSessionName.
	DefaultSession string
}

func (o Options) sessionHeader() string {
	if header := strings.TrimSpace(o.SessionHeader); header != "" {
		return header
	}
	return DefaultSessionHeader
}

func (o Options) defaultSession() string {
	if name := strings.TrimSpace(o.DefaultSession); name != "" {
		return name
	}
	return DefaultSessionName
}
