package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/me/yogastudio/pkg/model"
)

const dateFormat = "January 2, 2006"

// titleName renders a session name the way the session pages show it.
func titleName(name string) string {
	return cases.Title(language.English).String(name)
}

// displayName renders "First LAST".
func displayName(first, last string) string {
	return first + " " + cases.Upper(language.English).String(last)
}

func teacherName(t *model.Teacher) string {
	if t == nil {
		return "-"
	}
	return displayName(t.FirstName, t.LastName)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateFormat)
}

func ago(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return humanize.Time(*t)
}

// render writes v as JSON or YAML when -o asks for it, otherwise calls table.
func render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	switch cfg.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		table(w)
		return nil
	}
}

// notify prints a one-line notice.
func notify(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
