package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/blackwell-systems/ccflags/internal/compdb"
)

// ImportDatabase replaces every indexed entry with the contents of cdb and
// records the import. It returns the number of entries written.
func (db *DB) ImportDatabase(cdb *compdb.Database, source string) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return 0, fmt.Errorf("clearing entries: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO entries (file, directory, arguments) VALUES (?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, e := range cdb.Entries() {
		info, err := compdb.InfoForEntry(e)
		if err != nil {
			return 0, err
		}
		args, err := json.Marshal(info.Flags)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.Exec(e.AbsFile(), info.WorkingDirectory, string(args)); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", e.File, err)
		}
		count++
	}

	if _, err := tx.Exec(
		"INSERT INTO imports (source, imported_at, entry_count) VALUES (?, ?, ?)",
		source, time.Now().UTC().Format(time.RFC3339), count,
	); err != nil {
		return 0, fmt.Errorf("recording import: %w", err)
	}

	return count, tx.Commit()
}

// CompilationInfoForFile implements compdb.Lookup. Query errors are treated
// as "not known".
func (db *DB) CompilationInfoForFile(path string) (compdb.CompilationInfo, bool) {
	var dir, args string
	err := db.conn.QueryRow(
		"SELECT directory, arguments FROM entries WHERE file = ?",
		compdb.NormalizePath(path),
	).Scan(&dir, &args)
	if err != nil {
		return compdb.CompilationInfo{}, false
	}

	var flags []string
	if err := json.Unmarshal([]byte(args), &flags); err != nil {
		return compdb.CompilationInfo{}, false
	}
	return compdb.CompilationInfo{Flags: flags, WorkingDirectory: dir}, true
}

// EntryCount returns the number of indexed files.
func (db *DB) EntryCount() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// LastImport returns the most recent import, or nil if none exist.
func (db *DB) LastImport() (*Import, error) {
	row := db.conn.QueryRow(
		"SELECT id, source, imported_at, entry_count FROM imports ORDER BY id DESC LIMIT 1",
	)

	var imp Import
	var importedAt string
	err := row.Scan(&imp.ID, &imp.Source, &importedAt, &imp.EntryCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	imp.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &imp, nil
}
