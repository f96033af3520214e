package flags

import (
	"path/filepath"
	"strings"
)

// HeaderExtensions are the extensions treated as headers.
var HeaderExtensions = []string{".h", ".hxx", ".hpp", ".hh"}

// SourceExtensions are tried, in order, when looking for the source file that
// sits next to a header.
var SourceExtensions = []string{".cpp", ".cxx", ".cc", ".c", ".m", ".mm"}

// IsHeaderFile reports whether name has a header extension.
func IsHeaderFile(name string) bool {
	return hasExtension(name, HeaderExtensions)
}

// SourceCandidates returns the sibling source paths for a header, in the
// order they should be tried. Non-headers return nil.
func SourceCandidates(header string) []string {
	if !IsHeaderFile(header) {
		return nil
	}
	base := strings.TrimSuffix(header, filepath.Ext(header))
	candidates := make([]string, 0, len(SourceExtensions))
	for _, ext := range SourceExtensions {
		candidates = append(candidates, base+ext)
	}
	return candidates
}

func hasExtension(name string, exts []string) bool {
	ext := filepath.Ext(name)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
