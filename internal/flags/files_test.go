package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHeaderFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"foo.h", true},
		{"foo.hpp", true},
		{"foo.hxx", true},
		{"dir/foo.hh", true},
		{"foo.cpp", false},
		{"foo.c", false},
		{"foo", false},
		{"foo.H", false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, IsHeaderFile(tc.name), tc.name)
	}
}

func TestSourceCandidates(t *testing.T) {
	got := SourceCandidates("/src/lib/widget.hpp")
	assert.Equal(t, []string{
		"/src/lib/widget.cpp",
		"/src/lib/widget.cxx",
		"/src/lib/widget.cc",
		"/src/lib/widget.c",
		"/src/lib/widget.m",
		"/src/lib/widget.mm",
	}, got)

	assert.Nil(t, SourceCandidates("/src/lib/widget.cpp"))
}
