package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/ui"
)

var describeCmd = newCommand("describe-db", runDescribe)

type optionInfo struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

type propertyInfo struct {
	Name     string              `json:"name" yaml:"name"`
	Type     notion.PropertyType `json:"type" yaml:"type"`
	Options  []optionInfo        `json:"options,omitempty" yaml:"options,omitempty"`
	Relation string              `json:"relation_database,omitempty" yaml:"relation_database,omitempty"`
}

type databaseInfo struct {
	ID         string         `json:"id" yaml:"id"`
	Title      string         `json:"title" yaml:"title"`
	URL        string         `json:"url,omitempty" yaml:"url,omitempty"`
	Properties []propertyInfo `json:"properties" yaml:"properties"`
}

func describeDatabase(db *notion.Database) databaseInfo {
	info := databaseInfo{ID: db.ID, Title: db.PlainTitle(), URL: db.URL}
	for _, name := range db.PropertyNames() {
		cfg := db.Properties[name]
		prop := propertyInfo{Name: name, Type: cfg.Type()}
		if options, ok := notion.ChoiceOptions(cfg); ok {
			for _, o := range options {
				prop.Options = append(prop.Options, optionInfo{Name: o.Name, Color: o.Color})
			}
		}
		if rel, ok := cfg.(*notion.RelationConfig); ok {
			prop.Relation = rel.DatabaseID
		}
		info.Properties = append(info.Properties, prop)
	}
	return info
}

// describeMarkdown renders a schema as a markdown document.
func describeMarkdown(info databaseInfo) string {
	var b strings.Builder
	title := info.Title
	if title == "" {
		title = "Untitled"
	}
	fmt.Fprintf(&b, "# %s\n\n`%s`\n\n", title, info.ID)
	b.WriteString("| Property | Type | Options |\n|---|---|---|\n")
	for _, p := range info.Properties {
		var detail string
		switch {
		case len(p.Options) > 0:
			names := make([]string, len(p.Options))
			for i, o := range p.Options {
				names[i] = o.Name
			}
			detail = strings.Join(names, ", ")
		case p.Relation != "":
			detail = "→ " + p.Relation
		}
		fmt.Fprintf(&b, "| **%s** | %s | %s |\n", escapeCell(p.Name), p.Type, escapeCell(detail))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "yaml" {
		return fmt.Errorf("%w: unknown format %q (use text or yaml)", errInvalidInput, format)
	}
	bound, err := boundArgs(cmd, args)
	if err != nil {
		return err
	}
	dbID, err := resolveDatabase(bound.String("database"))
	if err != nil {
		return err
	}
	api, err := apiFor(cmd)
	if err != nil {
		return err
	}

	db, err := api.RetrieveDatabase(cmd.Context(), dbID)
	if err != nil {
		return fmt.Errorf("retrieve database %s: %w", dbID, err)
	}
	info := describeDatabase(db)

	out := cmd.OutOrStdout()
	switch {
	case isJSONOutput():
		outputSuccess(out, info, &Meta{Count: len(info.Properties)})
	case format == "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	default:
		rendered, err := ui.RenderMarkdown(describeMarkdown(info), ui.TermWidth())
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
