package reference

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrUnavailable reports that the reference file could not be loaded.
var ErrUnavailable = errors.New("reference data unavailable")

var libraryLineRegex = regexp.MustCompile(`^LIBRARY\s+([A-Za-z0-9]+)\s+(.+)$`)

// Library is a production music library declared in the reference text.
type Library struct {
	Code      string
	Publisher string
}

// DB is the immutable reference database.
type DB struct {
	path      string
	text      string
	checksum  string
	libraries map[string]Library
	codes     []string
}

// Load reads path. Any failure wraps ErrUnavailable.
func Load(path string) (*DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: no reference file configured", ErrUnavailable)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	db := New(string(data))
	db.path = path
	return db, nil
}

// New builds a DB from text already in memory.
func New(text string) *DB {
	sum := sha256.Sum256([]byte(text))
	db := &DB{
		text:      text,
		checksum:  hex.EncodeToString(sum[:]),
		libraries: make(map[string]Library),
	}
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		matches := libraryLineRegex.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if matches == nil {
			continue
		}
		code := strings.ToUpper(matches[1])
		if _, exists := db.libraries[code]; exists {
			continue
		}
		db.libraries[code] = Library{Code: code, Publisher: strings.TrimSpace(matches[2])}
		db.codes = append(db.codes, code)
	}
	return db
}

// Path returns the file the DB was loaded from, if any.
func (db *DB) Path() string {
	if db == nil {
		return ""
	}
	return db.path
}

// Text returns the full reference text.
func (db *DB) Text() string {
	if db == nil {
		return ""
	}
	return db.text
}

// Checksum identifies the reference content.
func (db *DB) Checksum() string {
	if db == nil {
		return ""
	}
	return db.checksum
}

// Libraries returns declared libraries in file order.
func (db *DB) Libraries() []Library {
	if db == nil {
		return nil
	}
	out := make([]Library, 0, len(db.codes))
	for _, code := range db.codes {
		out = append(out, db.libraries[code])
	}
	return out
}

// LibraryFor matches name against the "<CODE>_" naming convention.
func (db *DB) LibraryFor(name string) (Library, bool) {
	if db == nil || len(db.libraries) == 0 {
		return Library{}, false
	}
	prefix, _, found := strings.Cut(strings.TrimSpace(name), "_")
	if !found || prefix == "" {
		return Library{}, false
	}
	lib, ok := db.libraries[strings.ToUpper(prefix)]
	return lib, ok
}
