package compdb

import (
	"os"
	"path/filepath"
)

// Discover walks upward from start looking for a compilation database. In
// every directory it checks each of subdirs in order ("" meaning the
// directory itself) and returns the first directory holding a
// compile_commands.json. ErrNotFound is returned when the filesystem root is
// reached without a match.
func Discover(start string, subdirs []string) (string, error) {
	if len(subdirs) == 0 {
		subdirs = []string{""}
	}

	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, sub := range subdirs {
			candidate := filepath.Join(dir, sub)
			if _, err := os.Stat(filepath.Join(candidate, FileName)); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}
