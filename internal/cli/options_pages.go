package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/pages"
	"github.com/aidanlsb/ntn/internal/ui"
)

var (
	createPagesCmd = newCommand("create-pages-for-multiselect", runCreatePages)
	setRelationCmd = newCommand("set-relation-from-multiselect", runSetRelation)
)

func runCreatePages(cmd *cobra.Command, args []string) error {
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
	createArgs := pages.CreateFromOptionsArgs{SourceID: sourceID, Property: bound.String("property"), TargetID: targetID}
	if err := createArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Create a page in %s for each option of %s?", ui.Name(bound.String("target")), ui.Name(createArgs.Property))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Creating pages", func() (*pages.CreateReport, error) {
		return pages.New(api, logger).CreateFromOptions(cmd.Context(), createArgs)
	})
	if err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), report, runMeta(start, len(report.Created)))
		return nil
	}

	out := cmd.OutOrStdout()
	created := make(map[string]bool, len(report.Created))
	for _, name := range report.Created {
		created[name] = true
	}
	names := make([]string, 0, len(report.Pages))
	for name := range report.Pages {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := ui.NewTable("OPTION", "PAGE", "")
	for _, name := range names {
		status := "existing"
		if created[name] {
			status = "created"
		}
		tbl.AddRow(name, report.Pages[name], status)
	}
	fmt.Fprint(out, tbl.String())
	fmt.Fprintln(out, ui.Checkf("Created %s, %s already existed",
		ui.Count(len(report.Created), "page", "pages"), ui.Count(len(report.Existed), "page", "pages")))
	return nil
}

func runSetRelation(cmd *cobra.Command, args []string) error {
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	relArgs := pages.RelationArgs{DatabaseID: dbID, Source: bound.String("source"), Relation: bound.String("relation")}
	if related, _ := cmd.Flags().GetString("related"); related != "" {
		relArgs.RelatedID, err = resolveDatabase(related)
		if err != nil {
			return err
		}
	}
	if err := relArgs.Validate(); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	prompt := fmt.Sprintf("Set %s from %s on every page?", ui.Name(relArgs.Relation), ui.Name(relArgs.Source))
	if err := confirmMutation(cmd, prompt); err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := withSpinner("Linking pages", func() (*pages.RelationReport, error) {
		return pages.New(api, logger).SetRelationFromOptions(cmd.Context(), relArgs)
	})
	if err != nil {
		return err
	}

	if isJSONOutput() {
		outputSuccess(cmd.OutOrStdout(), report, runMeta(start, report.PagesUpdated))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.Checkf("Updated %s", ui.Count(report.PagesUpdated, "page", "pages")))
	if report.PagesUnchanged > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  "+ui.Hint(ui.Count(report.PagesUnchanged, "page was", "pages were")+" already up to date"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(createPagesCmd)
	rootCmd.AddCommand(setRelationCmd)
}
