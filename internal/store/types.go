// Package store provides a SQLite index of compilation database entries, so
// large databases need not be re-parsed on every editor start.
package store

import "time"

// Import records one load of a compile_commands.json into the index.
type Import struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"imported_at"`
	EntryCount int       `json:"entry_count"`
}
