package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/dbcopy"
	"github.com/aidanlsb/ntn/internal/ui"
)

var copyCmd = newCommand("copy-between-dbs", runCopy)

func runCopy(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	sourceID, err := resolveDatabase(bound.String("source"))
	if err != nil {
		return err
	}
	targetID, err := resolveDatabase(bound.String("target"))
	if err != nil {
		return err
	}
	skipContent, _ := cmd.Flags().GetBool("skip-content")
	copyArgs := dbcopy.Args{SourceID: sourceID, TargetID: targetID, SkipContent: skipContent}
	if err := copyArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	if err := confirmMutation(cmd, fmt.Sprintf("Copy every page of %s into %s?", ui.Name(bound.String("source")), ui.Name(bound.String("target")))); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Copying pages", func() (*dbcopy.Report, error) {
		return dbcopy.New(api, logger).Copy(cmd.Context(), copyArgs)
	})
	if err != nil {
		if report != nil && len(report.Pages) > 0 {
			logger.Warn("copy stopped early", "pages_copied", len(report.Pages))
		}
		return err
	}

	if isJSONOutput() {
		var warnings []Warning
		for _, name := range report.PropertiesSkipped {
			warnings = append(warnings, Warning{Code: WarnPropertySkipped, Message: fmt.Sprintf("property %q cannot be created through the API", name)})
		}
		outputSuccessWithWarnings(cmd.OutOrStdout(), report, warnings, runMeta(start, len(report.Pages)))
		return nil
	}

	out := cmd.OutOrStdout()
	if len(report.PropertiesCreated) > 0 {
		fmt.Fprintln(out, ui.Checkf("Created %s: %s", ui.Count(len(report.PropertiesCreated), "property", "properties"), quoteNames(report.PropertiesCreated)))
	}
	for _, name := range report.PropertiesSkipped {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warningf("Skipped %s: the API cannot create this property type", ui.Name(name)))
	}
	blocks := 0
	for _, p := range report.Pages {
		blocks += p.Blocks
	}
	msg := ui.Count(len(report.Pages), "page", "pages")
	if !skipContent {
		msg += " with " + ui.Count(blocks, "block", "blocks")
	}
	fmt.Fprintln(out, ui.Checkf("Copied %s", msg))
	return nil
}

func init() {
	rootCmd.AddCommand(copyCmd)
}
