package compdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/ccflags/internal/flags"
)

// ErrNotFound is returned when a directory holds no compilation database.
var ErrNotFound = errors.New("compilation database not found")

// Database is an in-memory, read-only compilation database.
type Database struct {
	dir     string
	entries map[string]Entry
	order   []string
}

// Load reads dir/compile_commands.json.
func Load(dir string) (*Database, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", dir, ErrNotFound)
		}
		return nil, err
	}

	db, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	db.dir = dir
	return db, nil
}

// Parse builds a Database from the raw JSON of a compile_commands.json file.
// When several entries name the same file the first one wins.
func Parse(data []byte) (*Database, error) {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return FromEntries(entries), nil
}

// FromEntries builds a Database from already decoded entries.
func FromEntries(entries []Entry) *Database {
	db := &Database{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.File == "" {
			continue
		}
		key := e.AbsFile()
		if _, seen := db.entries[key]; seen {
			continue
		}
		db.entries[key] = e
		db.order = append(db.order, key)
	}
	return db
}

// Dir returns the directory the database was loaded from, if any.
func (db *Database) Dir() string {
	return db.dir
}

// Len returns the number of distinct files in the database.
func (db *Database) Len() int {
	return len(db.entries)
}

// Entries returns the entries in file order of first appearance.
func (db *Database) Entries() []Entry {
	out := make([]Entry, 0, len(db.order))
	for _, key := range db.order {
		out = append(out, db.entries[key])
	}
	return out
}

// CompilationInfoForFile implements Lookup.
func (db *Database) CompilationInfoForFile(path string) (CompilationInfo, bool) {
	e, ok := db.entries[NormalizePath(path)]
	if !ok {
		return CompilationInfo{}, false
	}
	info, err := InfoForEntry(e)
	if err != nil {
		return CompilationInfo{}, false
	}
	return info, true
}

// InfoForEntry converts a database entry into CompilationInfo.
func InfoForEntry(e Entry) (CompilationInfo, error) {
	args, err := e.Args()
	if err != nil {
		return CompilationInfo{}, err
	}
	return CompilationInfo{
		Flags:            flags.StripCompiler(args, e.File, e.Directory),
		WorkingDirectory: e.Directory,
	}, nil
}
