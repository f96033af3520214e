package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/output"
	"github.com/blackwell-systems/ccflags/internal/resolver"
)

var flagsFormat string

var flagsCmd = &cobra.Command{
	Use:   "flags FILE...",
	Short: "Print the compiler flags for one or more files",
	Long: `Print the normalized compiler flags for each FILE, one flag per line.

With several files, each block is preceded by a "# FILE" line. Files the
compilation database knows nothing about are reported on stderr; the
command fails only when none of the files could be resolved.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFlags,
}

func init() {
	flagsCmd.Flags().StringVar(&flagsFormat, "format", output.FormatText, "Output format: text, json, yaml")
	rootCmd.AddCommand(flagsCmd)
}

func runFlags(cmd *cobra.Command, args []string) error {
	format := flagsFormat
	if flagJSON {
		format = output.FormatJSON
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := absFiles(args)
	if err != nil {
		return err
	}

	db, closeDB, err := openLookup(cfg, files[0])
	if err != nil {
		return err
	}
	defer closeDB()

	results, err := newResolver(cfg, db).ResolveAll(cmd.Context(), files)
	if err != nil {
		return err
	}

	resolved := 0
	for _, r := range results {
		if r.Result == nil {
			fmt.Fprintf(os.Stderr, "no compilation info for %s\n", r.File)
			continue
		}
		resolved++
	}
	if resolved == 0 {
		return fmt.Errorf("no compilation info for %s", strings.Join(args, ", "))
	}

	if format != output.FormatText {
		if len(results) == 1 {
			return output.Write(os.Stdout, format, results[0].Result)
		}
		return output.Write(os.Stdout, format, results)
	}

	renderFlagsText(results)
	return nil
}

func renderFlagsText(results []resolver.FileResult) {
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		if len(results) > 1 {
			fmt.Printf("# %s\n", r.File)
		}
		for _, f := range r.Result.Flags {
			fmt.Println(f)
		}
	}
}
