package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aidanlsb/ntn/internal/choices"
	"github.com/aidanlsb/ntn/internal/ui"
)

// printChoicesReport renders the result of an option operation.
func printChoicesReport(w io.Writer, r *choices.Report) {
	if len(r.OptionsCreated) > 0 {
		fmt.Fprintln(w, ui.Checkf("Created %s: %s", ui.Count(len(r.OptionsCreated), "option", "options"), quoteNames(r.OptionsCreated)))
	}
	if r.PagesUpdated > 0 || r.PagesUnchanged > 0 {
		fmt.Fprintln(w, ui.Checkf("Updated %s", ui.Count(r.PagesUpdated, "page", "pages")))
		if r.PagesUnchanged > 0 {
			fmt.Fprintln(w, "  "+ui.Hint(ui.Count(r.PagesUnchanged, "page was", "pages were")+" already up to date"))
		}
	}
	if len(r.OptionsRemoved) > 0 {
		fmt.Fprintln(w, ui.Checkf("Removed %s: %s", ui.Count(len(r.OptionsRemoved), "option", "options"), quoteNames(r.OptionsRemoved)))
	}
	if len(r.OptionsCreated) == 0 && r.PagesUpdated == 0 && len(r.OptionsRemoved) == 0 {
		fmt.Fprintln(w, ui.Info("Nothing to change"))
	}
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ui.Name(n)
	}
	return strings.Join(quoted, ", ")
}

// runMeta records how many items a command touched and how long it ran.
func runMeta(start time.Time, count int) *Meta {
	return &Meta{Count: count, DurationMs: time.Since(start).Milliseconds()}
}
