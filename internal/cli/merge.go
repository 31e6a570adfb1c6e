package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/choices"
	"github.com/aidanlsb/ntn/internal/ui"
)

var mergeCmd = newCommand("merge-select-options", runMerge)

func runMerge(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	mergeArgs := choices.MergeArgs{
		DatabaseID: dbID,
		Property:   bound.String("property"),
		Inputs:     bound.Strings("inputs"),
		Output:     output,
	}
	if err := mergeArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Merge %s into %s on %s?", quoteNames(mergeArgs.Inputs), ui.Name(output), ui.Name(mergeArgs.Property))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Merging options", func() (*choices.Report, error) {
		return choices.New(api, logger).Merge(cmd.Context(), mergeArgs)
	})
	if err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), report, runMeta(start, report.PagesUpdated))
		return nil
	}
	printChoicesReport(cmd.OutOrStdout(), report)
	return nil
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
