package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/resolver"
	"github.com/blackwell-systems/ccflags/internal/store"
)

// databaseDir picks the compile_commands.json directory: --db-dir, then the
// configured database_dir, then discovery upward from hint.
func databaseDir(cfg *config.Config, hint string) (string, error) {
	if flagDBDir != "" {
		return flagDBDir, nil
	}
	if cfg.DatabaseDir != "" {
		return cfg.DatabaseDir, nil
	}
	if hint == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		hint = wd
	}
	dir, err := compdb.Discover(hint, cfg.SearchDirs)
	if err != nil {
		return "", fmt.Errorf("searching from %s: %w", hint, err)
	}
	debugf("using compilation database in %s", dir)
	return dir, nil
}

// openLookup returns the Lookup for one-shot commands. The returned close
// func is never nil.
func openLookup(cfg *config.Config, hint string) (compdb.Lookup, func(), error) {
	if cfg.UseIndex && flagDBDir == "" {
		db, err := store.Open(cfg.IndexPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening index: %w", err)
		}
		debugf("using index %s", cfg.IndexPath)
		return db, func() { _ = db.Close() }, nil
	}

	dir, err := databaseDir(cfg, hint)
	if err != nil {
		return nil, nil, err
	}
	db, err := compdb.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading compilation database: %w", err)
	}
	return db, func() {}, nil
}

// newResolver applies the configured extra and fallback flags.
func newResolver(cfg *config.Config, db compdb.Lookup) *resolver.Resolver {
	return &resolver.Resolver{
		DB:            db,
		ExtraFlags:    cfg.ExtraFlags,
		FallbackFlags: cfg.FallbackFlags,
		FallbackDir:   fallbackDir(),
		Parallelism:   cfg.Parallelism,
	}
}

// fallbackDir is where relative paths in fallback_flags are anchored: the
// directory of the config file in use.
func fallbackDir() string {
	if flagConfig != "" {
		if abs, err := filepath.Abs(flagConfig); err == nil {
			return filepath.Dir(abs)
		}
	}
	return config.ConfigDir()
}

// absFiles makes command-line file arguments absolute.
func absFiles(args []string) ([]string, error) {
	files := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		files = append(files, abs)
	}
	return files, nil
}
