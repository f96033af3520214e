package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/flags"
	"github.com/blackwell-systems/ccflags/internal/output"
	"github.com/blackwell-systems/ccflags/internal/resolver"
)

var showCmd = &cobra.Command{
	Use:   "show FILE",
	Short: "Show how a file's flags were resolved",
	Long: `Show the compilation database entry used for FILE, its working
directory, and each flag before and after path normalization.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// showOutput is the JSON-serializable result of the show command.
type showOutput struct {
	File             string   `json:"file"`
	IsHeader         bool     `json:"is_header"`
	WorkingDirectory string   `json:"working_directory"`
	Original         []string `json:"original"`
	Normalized       []string `json:"normalized"`
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	db, closeDB, err := openLookup(cfg, file)
	if err != nil {
		return err
	}
	defer closeDB()

	info, ok := resolver.CompilationInfo(db, file)
	if !ok {
		return fmt.Errorf("no compilation info for %s", file)
	}

	out := showOutput{
		File:             file,
		IsHeader:         flags.IsHeaderFile(file),
		WorkingDirectory: info.WorkingDirectory,
		Original:         info.Flags,
		Normalized:       flags.Normalize(info.Flags, info.WorkingDirectory),
	}

	if flagJSON {
		return output.Write(os.Stdout, output.FormatJSON, out)
	}

	fmt.Println(output.Section("Flags for " + filepath.Base(file)))
	fmt.Println()
	fmt.Printf("  %s %s\n", output.StyleMuted.Render("file:     "), out.File)
	fmt.Printf("  %s %s\n", output.StyleMuted.Render("directory:"), out.WorkingDirectory)
	if out.IsHeader {
		fmt.Printf("  %s\n", output.StyleWarning.Render("header: flags borrowed from a sibling source file when one exists"))
	}
	fmt.Println()
	output.FlagDiffTable(out.Original, out.Normalized).Print()
	return nil
}
