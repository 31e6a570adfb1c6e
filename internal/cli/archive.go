package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/pages"
	"github.com/aidanlsb/ntn/internal/ui"
)

var archiveCmd = newCommand("archive-all-pages-in-db", runArchiveAll)

func runArchiveAll(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	if err := confirmMutation(cmd, fmt.Sprintf("Archive every page of %s?", ui.Name(bound.String("database")))); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Archiving pages", func() (*pages.ArchiveReport, error) {
		return pages.New(api, logger).ArchiveAll(cmd.Context(), dbID)
	})
	if err != nil {
		if report != nil && len(report.Archived) > 0 {
			logger.Warn("archive stopped early", "archived", len(report.Archived))
		}
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), report, runMeta(start, len(report.Archived)))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Checkf("Archived %s", ui.Count(len(report.Archived), "page", "pages")))
	return nil
}

func init() {
	rootCmd.AddCommand(archiveCmd)
}
