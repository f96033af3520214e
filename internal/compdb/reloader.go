package compdb

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Reloader waits after the last change to
// compile_commands.json before reloading it. Build systems often rewrite the
// file in several steps.
const DefaultDebounce = 250 * time.Millisecond

// Reloader holds the current Database for a directory and swaps it out when
// compile_commands.json changes on disk. It implements Lookup.
type Reloader struct {
	dir      string
	debounce time.Duration
	onReload func(*Database, error)

	mu sync.RWMutex
	db *Database
}

// NewReloader loads the database in dir and returns a Reloader serving it.
// onReload, if non-nil, is called after every reload attempt.
func NewReloader(dir string, onReload func(*Database, error)) (*Reloader, error) {
	db, err := Load(dir)
	if err != nil {
		return nil, err
	}
	return &Reloader{
		dir:      dir,
		debounce: DefaultDebounce,
		onReload: onReload,
		db:       db,
	}, nil
}

// Current returns the database currently being served.
func (r *Reloader) Current() *Database {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.db
}

// CompilationInfoForFile implements Lookup against the current database.
func (r *Reloader) CompilationInfoForFile(path string) (CompilationInfo, bool) {
	return r.Current().CompilationInfoForFile(path)
}

// Reload re-reads compile_commands.json. On failure the previous database
// stays in service.
func (r *Reloader) Reload() (*Database, error) {
	db, err := Load(r.dir)
	if err == nil {
		r.mu.Lock()
		r.db = db
		r.mu.Unlock()
	}
	if r.onReload != nil {
		r.onReload(db, err)
	}
	return db, err
}

// Run watches the database directory and reloads on change. It blocks until
// ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: generators usually replace the file
	// via rename, which drops a watch on the old inode.
	if err := watcher.Add(r.dir); err != nil {
		return fmt.Errorf("watching %s: %w", r.dir, err)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != FileName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				timer.Reset(r.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if _, err := r.Reload(); err != nil {
				log.Printf("Warning: reloading %s: %v", filepath.Join(r.dir, FileName), err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watcher error: %v", err)
		}
	}
}
