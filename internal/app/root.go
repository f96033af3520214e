// Package app contains the Cobra command tree for ccflags.
package app

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
	flagDBDir   string
)

var rootCmd = &cobra.Command{
	Use:   "ccflags",
	Short: "Compiler flags for editor code completion",
	Long: `ccflags reads a build-system-generated compilation database
(compile_commands.json) and prints the compiler flags for a source file,
with include and sysroot paths made absolute so an editor can use them
from any working directory.

Headers without their own entry borrow the flags of a sibling source file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFlags(0)
		log.SetPrefix("ccflags: ")
		// A broken config file is reported by the command itself.
		cfg, err := config.Load(flagConfig)
		if err != nil {
			cfg = nil
		}
		output.ConfigureColor(colorDisabled(cfg))
	},
}

// colorDisabled reports whether --no-color or output.color turns color off.
func colorDisabled(cfg *config.Config) bool {
	if flagNoColor {
		return true
	}
	return cfg != nil && !cfg.Output.Color
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// debugf logs only with --verbose.
func debugf(format string, args ...any) {
	if flagVerbose {
		log.Printf(format, args...)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/ccflags/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBDir, "db-dir", "", "Directory containing compile_commands.json (default: discover)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
