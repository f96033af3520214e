package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/config"
	"github.com/blackwell-systems/ccflags/internal/output"
	"github.com/blackwell-systems/ccflags/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the ccflags setup is healthy",
	Long: `Run a series of health checks against your configuration and
compilation database. Prints a pass/fail line for each check and a summary
of how many checks passed.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	checks := doctorChecks(cfg)

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		return output.Write(os.Stdout, output.FormatJSON, doctorOutput{
			Checks:      checks,
			PassedCount: passed,
			TotalCount:  len(checks),
		})
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()

	for _, c := range checks {
		renderDoctorCheck(c)
	}

	fmt.Println()
	summary := fmt.Sprintf("%d/%d checks passed", passed, len(checks))
	if passed == len(checks) {
		fmt.Printf(" %s\n\n", output.StyleSuccess.Render(summary))
	} else {
		fmt.Printf(" %s\n\n", output.StyleWarning.Render(summary))
	}

	return nil
}

// doctorChecks runs every check against cfg.
func doctorChecks(cfg *config.Config) []doctorCheck {
	var checks []doctorCheck

	dirCheck, dir := checkDatabaseDir(cfg)
	checks = append(checks, dirCheck)

	var db *compdb.Database
	if dir != "" {
		var parseCheck doctorCheck
		parseCheck, db = checkDatabaseParses(dir)
		checks = append(checks, parseCheck)
	}
	if db != nil {
		checks = append(checks, checkEntryFiles(db))
	}

	if cfg.UseIndex {
		checks = append(checks, checkIndex(cfg.IndexPath, dir))
	}

	return checks
}

// renderDoctorCheck prints a single check result line.
func renderDoctorCheck(c doctorCheck) {
	var indicator string
	if c.Passed {
		indicator = output.StyleSuccess.Render("✓")
	} else {
		indicator = output.StyleWarning.Render("✗")
	}
	label := output.StyleBold.Render(c.Name)
	detail := output.StyleMuted.Render(c.Message)
	fmt.Printf("  %s  %-30s %s\n", indicator, label, detail)
}

// checkDatabaseDir locates compile_commands.json.
func checkDatabaseDir(cfg *config.Config) (doctorCheck, string) {
	dir, err := databaseDir(cfg, "")
	if err != nil {
		return doctorCheck{
			Name:    "Compilation database",
			Passed:  false,
			Message: err.Error(),
		}, ""
	}
	if _, err := os.Stat(filepath.Join(dir, compdb.FileName)); err != nil {
		return doctorCheck{
			Name:    "Compilation database",
			Passed:  false,
			Message: fmt.Sprintf("%s not found in %s", compdb.FileName, dir),
		}, ""
	}
	return doctorCheck{
		Name:    "Compilation database",
		Passed:  true,
		Message: dir,
	}, dir
}

// checkDatabaseParses loads the database and reports its size.
func checkDatabaseParses(dir string) (doctorCheck, *compdb.Database) {
	db, err := compdb.Load(dir)
	if err != nil {
		return doctorCheck{
			Name:    "Database parses",
			Passed:  false,
			Message: err.Error(),
		}, nil
	}
	if db.Len() == 0 {
		return doctorCheck{
			Name:    "Database parses",
			Passed:  false,
			Message: "no entries",
		}, db
	}
	return doctorCheck{
		Name:    "Database parses",
		Passed:  true,
		Message: fmt.Sprintf("%d entries", db.Len()),
	}, db
}

// checkEntryFiles verifies that the files named in the database still exist,
// which catches databases left over from a moved or cleaned tree.
func checkEntryFiles(db *compdb.Database) doctorCheck {
	missing := 0
	var firstMissing string
	for _, e := range db.Entries() {
		if _, err := os.Stat(e.AbsFile()); err != nil {
			if missing == 0 {
				firstMissing = e.AbsFile()
			}
			missing++
		}
	}
	if missing > 0 {
		return doctorCheck{
			Name:    "Source files exist",
			Passed:  false,
			Message: fmt.Sprintf("%d missing, e.g. %s", missing, firstMissing),
		}
	}
	return doctorCheck{
		Name:    "Source files exist",
		Passed:  true,
		Message: fmt.Sprintf("all %d present", db.Len()),
	}
}

// checkIndex verifies the SQLite index exists and is not older than the
// compilation database it was built from.
func checkIndex(indexPath, dbDir string) doctorCheck {
	const name = "SQLite index"

	if _, err := os.Stat(indexPath); err != nil {
		return doctorCheck{Name: name, Passed: false, Message: fmt.Sprintf("not found: %s (run 'ccflags index')", indexPath)}
	}

	db, err := store.Open(indexPath)
	if err != nil {
		return doctorCheck{Name: name, Passed: false, Message: err.Error()}
	}
	defer db.Close()

	imp, err := db.LastImport()
	if err != nil {
		return doctorCheck{Name: name, Passed: false, Message: err.Error()}
	}
	if imp == nil {
		return doctorCheck{Name: name, Passed: false, Message: "empty (run 'ccflags index')"}
	}

	if dbDir != "" {
		info, err := os.Stat(filepath.Join(dbDir, compdb.FileName))
		// Import times are stored with second precision.
		if err == nil && info.ModTime().Truncate(time.Second).After(imp.ImportedAt) {
			return doctorCheck{Name: name, Passed: false, Message: "stale: compile_commands.json changed since last import"}
		}
	}

	return doctorCheck{
		Name:    name,
		Passed:  true,
		Message: fmt.Sprintf("%d entries imported %s", imp.EntryCount, imp.ImportedAt.Local().Format("2006-01-02 15:04")),
	}
}
