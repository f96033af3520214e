// Package flags rewrites compiler flag lists taken from a compilation database
// into a form an editor can use from any working directory.
package flags

import (
	"path/filepath"
	"strings"
)

// standalonePathFlags take their path as the following token: "-I dir".
var standalonePathFlags = []string{"-isystem", "-I", "-iquote"}

// combinedPathFlags are followed directly by their path: "-Idir", "--sysroot=dir".
var combinedPathFlags = []string{"-isystem", "-I", "-iquote", "--sysroot="}

// Normalize returns flags with every relative path argument of an include or
// sysroot flag joined onto workingDirectory. The result has the same length
// and order as flags. An empty workingDirectory returns a copy of flags.
func Normalize(flags []string, workingDirectory string) []string {
	out := make([]string, 0, len(flags))
	if workingDirectory == "" {
		return append(out, flags...)
	}

	expectPath := false
	for _, flag := range flags {
		if expectPath {
			expectPath = false
			out = append(out, absPath(workingDirectory, flag))
			continue
		}

		if isStandalonePathFlag(flag) {
			expectPath = true
			out = append(out, flag)
			continue
		}

		// "--sysroot=" with nothing after it has no path to rewrite.
		if prefix, ok := combinedPathPrefix(flag); ok && len(flag) > len(prefix) {
			out = append(out, prefix+absPath(workingDirectory, flag[len(prefix):]))
			continue
		}

		out = append(out, flag)
	}

	return out
}

func isStandalonePathFlag(flag string) bool {
	for _, f := range standalonePathFlags {
		if flag == f {
			return true
		}
	}
	return false
}

func combinedPathPrefix(flag string) (string, bool) {
	for _, prefix := range combinedPathFlags {
		if strings.HasPrefix(flag, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// absPath joins rel onto cwd unless it is already absolute.
func absPath(cwd string, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(cwd, rel)
}
