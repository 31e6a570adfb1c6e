package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/choices"
	"github.com/aidanlsb/ntn/internal/ui"
)

var (
	moveToSelectCmd = newCommand("set-select-from-multi-select", func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args, (*choices.Editor).MoveToSelect)
	})
	moveToMultiSelectCmd = newCommand("set-multi-select-from-multi-select", func(cmd *cobra.Command, args []string) error {
		return runMove(cmd, args, (*choices.Editor).MoveToMultiSelect)
	})
)

type moveFunc func(*choices.Editor, context.Context, choices.MoveArgs) (*choices.Report, error)

func runMove(cmd *cobra.Command, args []string, move moveFunc) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	source, _ := cmd.Flags().GetString("source")
	target, _ := cmd.Flags().GetString("target")
	keep, _ := cmd.Flags().GetBool("keep-source-options")
	moveArgs := choices.MoveArgs{
		DatabaseID:        dbID,
		Source:            source,
		Target:            target,
		Options:           bound.Strings("options"),
		KeepSourceOptions: keep,
	}
	if err := moveArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Move %s from %s to %s?", quoteNames(moveArgs.Options), ui.Name(source), ui.Name(target))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Moving options", func() (*choices.Report, error) {
		return move(choices.New(api, logger), cmd.Context(), moveArgs)
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
	rootCmd.AddCommand(moveToSelectCmd)
	rootCmd.AddCommand(moveToMultiSelectCmd)
}
