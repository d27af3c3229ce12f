package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Clip is one line of a generated EDL fixture.
type Clip struct {
	Name  string
	Start string
	End   string
	Muted bool
}

// EDL renders a minimal track listing in the layout Pro Tools exports. An
// empty session omits the SESSION NAME header.
func EDL(session string, clips ...Clip) string {
	var b strings.Builder
	if session != "" {
		fmt.Fprintf(&b, "SESSION NAME:\t%s\n", session)
	}
	b.WriteString("SAMPLE RATE:\t48000.000000\n\n")
	b.WriteString("TRACK NAME:\tMusic\n")
	b.WriteString("CHANNEL \tEVENT   \tCLIP NAME                     \tSTART TIME    \tEND TIME      \tDURATION      \tSTATE\n")
	for i, clip := range clips {
		state := "Unmuted"
		if clip.Muted {
			state = "Muted"
		}
		fmt.Fprintf(&b, "1       \t%d       \t%s\t%s\t%s\t%s\t%s\n", i+1, clip.Name, clip.Start, clip.End, clip.End, state)
	}
	return b.String()
}

// WriteEDL writes an EDL fixture named name under dir and returns its path.
func WriteEDL(t testing.TB, dir, name, session string, clips ...Clip) string {
	t.Helper()

	path := filepath.Join(dir, name)
	WriteFile(t, path, EDL(session, clips...))
	return path
}
