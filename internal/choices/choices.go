// Package choices rewrites the options of select and multi_select
// properties: merging options into one, removing options, and moving values
// from a multi_select property into another property.
//
// Options are always matched by name. Page rewrites happen one request at a
// time and are not transactional with the schema cleanup that follows them.
package choices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aidanlsb/ntn/internal/notion"
)

var (
	// ErrPropertyNotFound means the named property is not on the schema.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrWrongPropertyType means the property exists with an unexpected type.
	ErrWrongPropertyType = errors.New("wrong property type")

	// ErrOptionNotFound means a named option is not defined on the property.
	ErrOptionNotFound = errors.New("option not found")

	// ErrAmbiguousMatch means a page holds more than one of the options being
	// moved into a single-choice property.
	ErrAmbiguousMatch = errors.New("ambiguous match")
)

// Report summarizes what an operation changed.
type Report struct {
	PagesUpdated   int      `json:"pages_updated"`
	PagesUnchanged int      `json:"pages_unchanged"`
	OptionsCreated []string `json:"options_created,omitempty"`
	OptionsRemoved []string `json:"options_removed,omitempty"`
}

// Editor runs option operations against one workspace.
type Editor struct {
	api    notion.API
	logger *slog.Logger
}

// New returns an Editor. A nil logger discards output.
func New(api notion.API, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{api: api, logger: logger}
}

// choiceProperty loads a database and the named select or multi_select
// property. When want is non-empty the property must have that type.
func (e *Editor) choiceProperty(ctx context.Context, databaseID, property string, want notion.PropertyType) (*notion.Database, notion.PropertyConfig, error) {
	db, err := e.api.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		return nil, nil, fmt.Errorf("retrieve database %s: %w", databaseID, err)
	}
	cfg, err := lookupChoice(db, property, want)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}

func lookupChoice(db *notion.Database, property string, want notion.PropertyType) (notion.PropertyConfig, error) {
	cfg, ok := db.Properties[property]
	if !ok {
		return nil, fmt.Errorf("%w: %q on database %s", ErrPropertyNotFound, property, db.ID)
	}
	if want != "" && cfg.Type() != want {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrWrongPropertyType, property, cfg.Type(), want)
	}
	if !cfg.Type().IsChoice() {
		return nil, fmt.Errorf("%w: %q is %s, not select or multi_select", ErrWrongPropertyType, property, cfg.Type())
	}
	return cfg, nil
}

// dropOptions rewrites the property's option list without the named options.
// Names that are not defined are ignored; no request is made when nothing
// would be removed. It returns the names actually removed.
func (e *Editor) dropOptions(ctx context.Context, databaseID, property string, cfg notion.PropertyConfig, names []string) ([]string, error) {
	drop := nameSet(names)
	options, _ := notion.ChoiceOptions(cfg)

	remaining := make([]notion.Option, 0, len(options))
	var removed []string
	for _, o := range options {
		if drop[o.Name] {
			removed = append(removed, o.Name)
			continue
		}
		remaining = append(remaining, o)
	}
	if len(removed) == 0 {
		return nil, nil
	}

	updated, err := notion.WithOptions(cfg, remaining)
	if err != nil {
		return nil, err
	}
	_, err = e.api.UpdateDatabase(ctx, databaseID, &notion.UpdateDatabaseRequest{
		Properties: map[string]notion.PropertyConfig{property: updated},
	})
	if err != nil {
		return nil, fmt.Errorf("remove options from %q: %w", property, err)
	}
	e.logger.Info("removed options", "database", databaseID, "property", property, "options", removed)
	return removed, nil
}

// updatePage writes property values to a page.
func (e *Editor) updatePage(ctx context.Context, pageID string, values notion.PropertyValues) error {
	if _, err := e.api.UpdatePage(ctx, pageID, &notion.UpdatePageRequest{Properties: values}); err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}
	e.logger.Info("updated page", "page", pageID)
	return nil
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// uniqueNames drops repeated names, keeping the first occurrence of each.
// Options are identified by name.
func uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// sameNames reports whether a and b hold the same option names, ignoring order.
func sameNames(a, b []notion.Option) bool {
	if len(a) != len(b) {
		return false
	}
	set := nameSet(notion.OptionNames(a))
	for _, o := range b {
		if !set[o.Name] {
			return false
		}
	}
	return true
}

// missingNames returns the names not defined in options, in input order.
func missingNames(options []notion.Option, names []string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := notion.FindOption(options, n); !ok {
			missing = append(missing, n)
		}
	}
	return missing
}

func multiValue(page *notion.Page, property string) (*notion.MultiSelectValue, error) {
	switch v := page.Properties[property].(type) {
	case nil:
		return &notion.MultiSelectValue{}, nil
	case *notion.MultiSelectValue:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: page %s has %s value for %q", ErrWrongPropertyType, page.ID, v.Type(), property)
	}
}
