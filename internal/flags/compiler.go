package flags

import (
	"path/filepath"
	"strings"
)

// StripCompiler turns a full compiler invocation from a compilation database
// into a flag list: the compiler executable, "-c", the "-o" output and the
// input file itself are dropped. Everything else keeps its order.
//
// The input file is matched by path, so a relative argument resolved against
// directory names the same file as an absolute file and the other way round.
func StripCompiler(args []string, file string, directory string) []string {
	if len(args) == 0 {
		return nil
	}

	input := ""
	if file != "" {
		input = resolveArg(directory, file)
	}

	out := make([]string, 0, len(args))
	start := 0
	if !strings.HasPrefix(args[0], "-") {
		start = 1
	}

	for i := start; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-c":
			continue
		case arg == "-o":
			i++ // skip the output file too
			continue
		case isJoinedOutput(arg):
			continue
		case input != "" && !strings.HasPrefix(arg, "-") && resolveArg(directory, arg) == input:
			continue
		}
		out = append(out, arg)
	}

	return out
}

// isJoinedOutput reports "-ofile". Clang's -objc* and -objcmt-* options share
// the prefix and are kept.
func isJoinedOutput(arg string) bool {
	return len(arg) > 2 && strings.HasPrefix(arg, "-o") && !strings.HasPrefix(arg, "-obj")
}

func resolveArg(directory, path string) string {
	if directory == "" {
		return filepath.Clean(path)
	}
	return filepath.Clean(absPath(directory, path))
}
