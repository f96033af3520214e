package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/output"
	"github.com/blackwell-systems/ccflags/internal/store"
)

var indexFlagOutput string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Import compile_commands.json into the SQLite index",
	Long: `Parse the compilation database once and store every entry in a SQLite
index (default ~/.config/ccflags/index.db). Set use_index: true in the
config to answer lookups from the index instead of the JSON file.

Re-run after the build system regenerates compile_commands.json.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFlagOutput, "output", "o", "", "Index path (default: index_path from config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir, err := databaseDir(cfg, "")
	if err != nil {
		return err
	}
	cdb, err := compdb.Load(dir)
	if err != nil {
		return fmt.Errorf("loading compilation database: %w", err)
	}

	path := cfg.IndexPath
	if indexFlagOutput != "" {
		path = indexFlagOutput
	}
	db, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	defer db.Close()

	n, err := db.ImportDatabase(cdb, dir)
	if err != nil {
		return fmt.Errorf("importing %s: %w", dir, err)
	}

	if flagJSON {
		imp, err := db.LastImport()
		if err != nil {
			return err
		}
		return output.Write(cmd.OutOrStdout(), output.FormatJSON, imp)
	}

	fmt.Fprintf(cmd.OutOrStdout(), " %s %d entries from %s into %s\n",
		output.StyleSuccess.Render("✓"), n, dir, path)
	return nil
}
