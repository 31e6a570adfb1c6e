package choices

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidanlsb/ntn/internal/notion"
)

// MoveToSelect moves args.Options out of a multi_select property into a
// select property on the same database. A page holding more than one of the
// options cannot be mapped to a single value: the whole operation fails with
// ErrAmbiguousMatch before anything is written.
func (e *Editor) MoveToSelect(ctx context.Context, args MoveArgs) (*Report, error) {
	return e.move(ctx, args, notion.TypeSelect)
}

// MoveToMultiSelect moves args.Options out of one multi_select property into
// another. The target gains each moved option at most once.
func (e *Editor) MoveToMultiSelect(ctx context.Context, args MoveArgs) (*Report, error) {
	return e.move(ctx, args, notion.TypeMultiSelect)
}

func (e *Editor) move(ctx context.Context, args MoveArgs, targetType notion.PropertyType) (*Report, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	args.Options = uniqueNames(args.Options)

	db, sourceCfg, err := e.choiceProperty(ctx, args.DatabaseID, args.Source, notion.TypeMultiSelect)
	if err != nil {
		return nil, err
	}
	targetCfg, err := lookupChoice(db, args.Target, targetType)
	if err != nil {
		return nil, err
	}

	sourceOptions, _ := notion.ChoiceOptions(sourceCfg)
	if missing := missingNames(sourceOptions, args.Options); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s missing from %q", ErrOptionNotFound, strings.Join(missing, ", "), args.Source)
	}

	pages, err := notion.QueryAll(ctx, e.api, db.ID, notion.MatchAnyOption(args.Source, notion.TypeMultiSelect, args.Options))
	if err != nil {
		return nil, err
	}
	moving := nameSet(args.Options)
	matched := make([][]string, len(pages))
	for i := range pages {
		source, err := multiValue(&pages[i], args.Source)
		if err != nil {
			return nil, err
		}
		for _, o := range source.Options {
			if moving[o.Name] {
				matched[i] = append(matched[i], o.Name)
			}
		}
		if targetType == notion.TypeSelect && len(matched[i]) > 1 {
			return nil, fmt.Errorf("%w: page %s holds %s in %q", ErrAmbiguousMatch, pages[i].ID, strings.Join(matched[i], ", "), args.Source)
		}
	}

	report := &Report{}
	targetOptions, created, err := e.ensureOptions(ctx, db.ID, args.Target, targetCfg, sourceOptions, args.Options)
	if err != nil {
		return report, err
	}
	report.OptionsCreated = created

	for i := range pages {
		page := &pages[i]
		if len(matched[i]) == 0 {
			report.PagesUnchanged++
			continue
		}
		source, _ := multiValue(page, args.Source)
		kept := make([]notion.Option, 0, len(source.Options))
		for _, o := range source.Options {
			if !moving[o.Name] {
				kept = append(kept, o)
			}
		}

		var target notion.PropertyValue
		if targetType == notion.TypeSelect {
			o, _ := notion.FindOption(targetOptions, matched[i][0])
			target = &notion.SelectValue{Option: &o}
		} else {
			current, err := multiValue(page, args.Target)
			if err != nil {
				return report, err
			}
			next := append([]notion.Option(nil), current.Options...)
			for _, name := range matched[i] {
				if _, present := notion.FindOption(next, name); present {
					continue
				}
				o, _ := notion.FindOption(targetOptions, name)
				next = append(next, o)
			}
			target = &notion.MultiSelectValue{Options: next}
		}

		err := e.updatePage(ctx, page.ID, notion.PropertyValues{
			args.Source: &notion.MultiSelectValue{Options: kept},
			args.Target: target,
		})
		if err != nil {
			return report, err
		}
		report.PagesUpdated++
	}

	if args.KeepSourceOptions {
		return report, nil
	}
	removed, err := e.dropOptions(ctx, db.ID, args.Source, sourceCfg, args.Options)
	if err != nil {
		return report, err
	}
	report.OptionsRemoved = removed
	return report, nil
}

// ensureOptions appends the named options missing from the target property,
// copying each color from the source, and returns the target's options as
// stored after the update along with the names created.
func (e *Editor) ensureOptions(ctx context.Context, databaseID, property string, cfg notion.PropertyConfig, source []notion.Option, names []string) ([]notion.Option, []string, error) {
	options, _ := notion.ChoiceOptions(cfg)
	missing := missingNames(options, names)
	if len(missing) == 0 {
		return options, nil, nil
	}

	next := append([]notion.Option(nil), options...)
	for _, name := range missing {
		src, _ := notion.FindOption(source, name)
		next = append(next, notion.Option{Name: name, Color: src.Color})
	}
	updatedCfg, err := notion.WithOptions(cfg, next)
	if err != nil {
		return nil, nil, err
	}
	db, err := e.api.UpdateDatabase(ctx, databaseID, &notion.UpdateDatabaseRequest{
		Properties: map[string]notion.PropertyConfig{property: updatedCfg},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("add options to %q: %w", property, err)
	}
	e.logger.Info("created options", "database", databaseID, "property", property, "options", missing)

	stored, err := lookupChoice(db, property, cfg.Type())
	if err != nil {
		return nil, nil, err
	}
	storedOptions, _ := notion.ChoiceOptions(stored)
	if still := missingNames(storedOptions, missing); len(still) > 0 {
		return nil, nil, fmt.Errorf("%w: %s not created on %q", ErrOptionNotFound, strings.Join(still, ", "), property)
	}
	return storedOptions, missing, nil
}
