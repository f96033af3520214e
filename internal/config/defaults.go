// Package config provides configuration loading and defaults for ccflags.
package config

// DefaultConfigDir is the default location for ccflags configuration.
const DefaultConfigDir = "~/.config/ccflags"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultIndexPath is where `ccflags index` writes the SQLite index.
const DefaultIndexPath = "~/.config/ccflags/index.db"

// DefaultSearchDirs are checked, in order, in every directory while walking
// up from a source file to find compile_commands.json. "" is the directory
// itself.
var DefaultSearchDirs = []string{"", "build", "out", "cmake-build-debug"}

// DefaultParallelism bounds concurrent lookups for multi-file requests.
const DefaultParallelism = 8

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
}

// EnvPrefix is the prefix for environment overrides, e.g. CCFLAGS_DATABASE_DIR.
const EnvPrefix = "CCFLAGS"
