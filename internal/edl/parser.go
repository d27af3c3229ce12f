package edl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"cuesheet/internal/timecode"
)

// tcToken is one fixed-width HH:MM:SS:FF timecode. Drop-frame (;) and dotted
// forms are not part of the grammar.
const tcToken = `(\d{2}:\d{2}:\d{2}:\d{2})`

// clipLineRegex matches a clip line.
// Format: CHANNEL EVENT NAME START END SYNC STATE
var clipLineRegex = regexp.MustCompile(
	`^(\d+)\s+(\d+)\s+(.+?)\s+` + tcToken + `\s+` + tcToken + `\s+` + tcToken + `\s+(Muted|Unmuted)$`,
)

// maxLineBytes covers clip names far longer than any DAW writes.
const maxLineBytes = 1024 * 1024

// ParseFile reads and parses the file at path. Options.File defaults to the
// base name of path.
func ParseFile(path string, opts Options) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open edl: %w", err)
	}
	defer f.Close()
	if strings.TrimSpace(opts.File) == "" {
		opts.File = filepath.Base(path)
	}
	return Parse(f, opts)
}

// ParseString parses EDL text held in memory.
func ParseString(text string, opts Options) (Document, error) {
	return Parse(strings.NewReader(text), opts)
}

// Parse reads EDL text from r. UTF-8 (with or without BOM) and UTF-16 with a
// BOM are accepted.
func Parse(r io.Reader, opts Options) (Document, error) {
	codec := timecode.New(opts.Rate)
	header := opts.sessionHeader()

	doc := Document{Session: Session{File: opts.File}}
	sessionFound := false

	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if !sessionFound && strings.HasPrefix(line, header) {
			doc.Session.Name = strings.TrimSpace(strings.TrimPrefix(line, header))
			sessionFound = true
			continue
		}

		matches := clipLineRegex.FindStringSubmatch(line)
		if matches == nil {
			doc.Session.Skipped++
			continue
		}

		frames, ok := decodeFields(codec, matches[4:7])
		if !ok {
			doc.Session.Skipped++
			continue
		}
		channel, _ := strconv.Atoi(matches[1])
		event, _ := strconv.Atoi(matches[2])
		clip := Clip{
			File:    opts.File,
			Line:    lineNum,
			Channel: channel,
			Event:   event,
			Name:    strings.TrimSpace(matches[3]),
			Start:   frames[0],
			End:     frames[1],
			Sync:    frames[2],
			State:   State(matches[7]),
		}

		doc.Clips = append(doc.Clips, clip)
		doc.Session.Clips++
		if !clip.Audible() {
			doc.Session.Muted++
		}
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("read edl line %d: %w", lineNum+1, err)
	}

	if !sessionFound || doc.Session.Name == "" {
		doc.Session.Name = opts.defaultSession()
	}
	return doc, nil
}

func decodeFields(codec timecode.Codec, fields []string) ([3]int64, bool) {
	var frames [3]int64
	for i, text := range fields {
		value, err := codec.Decode(text)
		if err != nil {
			return frames, false
		}
		frames[i] = value
	}
	return frames, true
}
