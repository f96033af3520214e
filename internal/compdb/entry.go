// Package compdb loads clang-style compilation databases (compile_commands.json)
// and answers per-file compilation lookups.
package compdb

import (
	"fmt"
	"path/filepath"

	"github.com/mattn/go-shellwords"
)

// FileName is the conventional name of a compilation database file.
const FileName = "compile_commands.json"

// Entry is one object of a compile_commands.json array.
type Entry struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments,omitempty"`
	Command   string   `json:"command,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// Args returns the compiler invocation for the entry. Arguments takes
// precedence over Command, which is split with shell quoting rules.
func (e Entry) Args() ([]string, error) {
	if len(e.Arguments) > 0 {
		return e.Arguments, nil
	}
	if e.Command == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(e.Command)
	if err != nil {
		return nil, fmt.Errorf("splitting command for %s: %w", e.File, err)
	}
	return args, nil
}

// AbsFile returns the entry's file as a cleaned absolute path.
func (e Entry) AbsFile() string {
	if filepath.IsAbs(e.File) {
		return NormalizePath(e.File)
	}
	return NormalizePath(filepath.Join(e.Directory, e.File))
}

// CompilationInfo is what a Lookup knows about one file: its flags (without
// the compiler executable) and the directory they are relative to.
type CompilationInfo struct {
	Flags            []string `json:"flags"`
	WorkingDirectory string   `json:"working_directory"`
}

// Lookup answers whether a file is known and, if so, how it is compiled.
type Lookup interface {
	CompilationInfoForFile(path string) (CompilationInfo, bool)
}

// NormalizePath cleans a file path to a canonical form suitable for use as a
// lookup key. Returns an empty string for empty input.
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}
