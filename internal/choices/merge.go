package choices

import (
	"context"
	"fmt"

	"github.com/aidanlsb/ntn/internal/notion"
)

// Merge rewrites every page holding one of args.Inputs so that it holds
// args.Output instead, then deletes the inputs from the schema.
//
// Output may also appear among Inputs; it is kept exactly once. Inputs that
// are no longer defined on the property are skipped, so running Merge again
// on converged data makes no requests after the schema read.
func (e *Editor) Merge(ctx context.Context, args MergeArgs) (*Report, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	args.Inputs = uniqueNames(args.Inputs)

	db, cfg, err := e.choiceProperty(ctx, args.DatabaseID, args.Property, "")
	if err != nil {
		return nil, err
	}
	options, _ := notion.ChoiceOptions(cfg)
	output, ok := notion.FindOption(options, args.Output)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an option of %q", ErrOptionNotFound, args.Output, args.Property)
	}

	var merged []string
	for _, name := range args.Inputs {
		if name == args.Output {
			continue
		}
		if _, defined := notion.FindOption(options, name); !defined {
			e.logger.Debug("skipping undefined option", "property", args.Property, "option", name)
			continue
		}
		merged = append(merged, name)
	}

	report := &Report{}
	if len(merged) == 0 {
		return report, nil
	}

	pages, err := notion.QueryAll(ctx, e.api, db.ID, notion.MatchAnyOption(args.Property, cfg.Type(), merged))
	if err != nil {
		return nil, err
	}

	drop := nameSet(args.Inputs)
	for i := range pages {
		page := &pages[i]
		value, changed, err := mergedValue(page, args.Property, drop, output)
		if err != nil {
			return report, err
		}
		if !changed {
			report.PagesUnchanged++
			continue
		}
		if err := e.updatePage(ctx, page.ID, notion.PropertyValues{args.Property: value}); err != nil {
			return report, err
		}
		report.PagesUpdated++
	}

	removed, err := e.dropOptions(ctx, db.ID, args.Property, cfg, merged)
	if err != nil {
		return report, err
	}
	report.OptionsRemoved = removed
	return report, nil
}

// mergedValue computes the page's new value: every option in drop removed,
// output present once.
func mergedValue(page *notion.Page, property string, drop map[string]bool, output notion.Option) (notion.PropertyValue, bool, error) {
	switch v := page.Properties[property].(type) {
	case *notion.SelectValue:
		if v.Option == nil || v.Option.Name == output.Name || !drop[v.Option.Name] {
			return v, false, nil
		}
		o := output
		return &notion.SelectValue{Option: &o}, true, nil

	case *notion.MultiSelectValue:
		next := make([]notion.Option, 0, len(v.Options)+1)
		for _, o := range v.Options {
			if !drop[o.Name] {
				next = append(next, o)
			}
		}
		if _, ok := notion.FindOption(next, output.Name); !ok {
			next = append(next, output)
		}
		if sameNames(v.Options, next) {
			return v, false, nil
		}
		return &notion.MultiSelectValue{Options: next}, true, nil

	case nil:
		return nil, false, fmt.Errorf("%w: page %s has no value for %q", ErrPropertyNotFound, page.ID, property)
	default:
		return nil, false, fmt.Errorf("%w: page %s has %s value for %q", ErrWrongPropertyType, page.ID, v.Type(), property)
	}
}
