package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Section returns a styled section header with a horizontal rule.
func Section(title string) string {
	header := StyleHeader.Render(title)
	rule := StyleMuted.Render(strings.Repeat("─", 66))
	return fmt.Sprintf("\n %s\n %s", header, rule)
}

// Write encodes v to w as JSON or YAML.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// FlagDiffTable lists each flag before and after normalization and marks the
// ones that changed.
func FlagDiffTable(original, normalized []string) *Table {
	tbl := NewTable("#", "Database", "Normalized", "")
	for i := range normalized {
		before := ""
		if i < len(original) {
			before = original[i]
		}
		mark := ""
		after := normalized[i]
		if before != after {
			mark = StyleSuccess.Render("rewritten")
			after = StyleBold.Render(after)
		}
		tbl.AddRow(fmt.Sprintf("%d", i+1), before, after, mark)
	}
	return tbl
}
