package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/choices"
	"github.com/aidanlsb/ntn/internal/ui"
)

var (
	removeCmd       = newCommand("remove-select-options", runRemove)
	removeUnusedCmd = newCommand("remove-unused-select-options", runRemoveUnused)
)

func runRemove(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	removeArgs := choices.RemoveArgs{DatabaseID: dbID, Property: bound.String("property"), Options: bound.Strings("options")}
	if err := removeArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Remove %s from %s?", quoteNames(removeArgs.Options), ui.Name(removeArgs.Property))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Removing options", func() (*choices.Report, error) {
		return choices.New(api, logger).Remove(cmd.Context(), removeArgs)
	})
	if err != nil {
		return err
	}
	return renderRemoval(cmd, report, missingFrom(removeArgs.Options, report.OptionsRemoved), start)
}

func runRemoveUnused(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	unusedArgs := choices.RemoveUnusedArgs{DatabaseID: dbID, Property: bound.String("property")}
	if err := unusedArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Remove every unused option of %s?", ui.Name(unusedArgs.Property))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Checking option usage", func() (*choices.Report, error) {
		return choices.New(api, logger).RemoveUnused(cmd.Context(), unusedArgs)
	})
	if err != nil {
		return err
	}
	return renderRemoval(cmd, report, nil, start)
}

func renderRemoval(cmd *cobra.Command, report *choices.Report, unknown []string, start time.Time) error {
	if isJSONOutput() {
		var warnings []Warning
		for _, name := range unknown {
			warnings = append(warnings, Warning{Code: WarnOptionNotDefined, Message: fmt.Sprintf("option %q is not defined", name)})
		}
		outputSuccessWithWarnings(cmd.OutOrStdout(), report, warnings, runMeta(start, len(report.OptionsRemoved)))
		return nil
	}
	for _, name := range unknown {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warningf("Option %s is not defined", ui.Name(name)))
	}
	printChoicesReport(cmd.OutOrStdout(), report)
	return nil
}

// missingFrom returns the names of requested absent from removed, once each.
func missingFrom(requested, removed []string) []string {
	done := make(map[string]bool, len(removed))
	for _, n := range removed {
		done[n] = true
	}
	var out []string
	for _, n := range requested {
		if !done[n] {
			done[n] = true
			out = append(out, n)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(removeUnusedCmd)
}
