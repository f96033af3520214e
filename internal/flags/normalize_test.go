package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		dir   string
		want  []string
	}{
		{"separate include", []string{"-I", "foo"}, "/root", []string{"-I", "/root/foo"}},
		{"joined include", []string{"-Ifoo"}, "/root", []string{"-I/root/foo"}},
		{"sysroot", []string{"--sysroot=foo"}, "/root", []string{"--sysroot=/root/foo"}},
		{"absolute include", []string{"-I", "/abs/foo"}, "/root", []string{"-I", "/abs/foo"}},
		{"absolute joined include", []string{"-I/abs/foo"}, "/root", []string{"-I/abs/foo"}},
		{"unrelated flag", []string{"-Wall"}, "/root", []string{"-Wall"}},
		{"separate isystem", []string{"-isystem", "third_party"}, "/src", []string{"-isystem", "/src/third_party"}},
		{"joined isystem", []string{"-isystemthird_party"}, "/src", []string{"-isystem/src/third_party"}},
		{"joined iquote", []string{"-iquoteinc"}, "/src", []string{"-iquote/src/inc"}},
		{
			name:  "separate iquote",
			flags: []string{"-iquote", "inc", "-iquote", "/abs/inc"},
			dir:   "/src",
			want:  []string{"-iquote", "/src/inc", "-iquote", "/abs/inc"},
		},
		{
			name:  "mixed command line",
			flags: []string{"-Wall", "-I", "include", "-DNDEBUG", "-Isrc", "-std=c++17", "--sysroot=sdk"},
			dir:   "/home/dev/proj",
			want: []string{
				"-Wall", "-I", "/home/dev/proj/include", "-DNDEBUG",
				"-I/home/dev/proj/src", "-std=c++17", "--sysroot=/home/dev/proj/sdk",
			},
		},
		{"empty sysroot", []string{"--sysroot="}, "/root", []string{"--sysroot="}},
		{"dangling include flag", []string{"-Wall", "-I"}, "/root", []string{"-Wall", "-I"}},
		{"empty input", []string{}, "/root", []string{}},
		{"dot-dot is cleaned", []string{"-I", "../lib"}, "/root/build", []string{"-I", "/root/lib"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.flags, tc.dir))
		})
	}
}

func TestNormalize_EmptyWorkingDirectory(t *testing.T) {
	inputs := [][]string{
		{"-I", "foo"},
		{"-Ifoo", "--sysroot=bar"},
		{"-Wall"},
		{},
	}

	for _, in := range inputs {
		got := Normalize(in, "")
		assert.Equal(t, in, got)
	}
}

func TestNormalize_ReturnsCopy(t *testing.T) {
	in := []string{"-Wall", "-O2"}
	got := Normalize(in, "")
	got[0] = "-Werror"
	assert.Equal(t, "-Wall", in[0], "input must not be aliased by the result")
}

func TestNormalize_PreservesLength(t *testing.T) {
	inputs := [][]string{
		{"-I"},
		{"-I", "-I", "x"},
		{"-isystem", "a", "-I", "b", "-Ic", "-iquoted", "--sysroot=e", "f.cpp"},
		{"-x", "c++", "-std=c++11"},
	}

	for _, in := range inputs {
		assert.Len(t, Normalize(in, "/work"), len(in))
	}
}
