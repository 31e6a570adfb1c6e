package choices

import (
	"context"
	"fmt"

	"github.com/aidanlsb/ntn/internal/notion"
)

// Remove deletes the named options from a select or multi_select property.
// Notion clears the option from every page that held it.
func (e *Editor) Remove(ctx context.Context, args RemoveArgs) (*Report, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	args.Options = uniqueNames(args.Options)

	db, cfg, err := e.choiceProperty(ctx, args.DatabaseID, args.Property, "")
	if err != nil {
		return nil, err
	}
	options, _ := notion.ChoiceOptions(cfg)
	if missing := missingNames(options, args.Options); len(missing) > 0 {
		e.logger.Info("ignoring undefined options", "property", args.Property, "options", missing)
	}

	removed, err := e.dropOptions(ctx, db.ID, args.Property, cfg, args.Options)
	if err != nil {
		return nil, err
	}
	return &Report{OptionsRemoved: removed}, nil
}

// RemoveUnused deletes every option of the property that no page holds.
// Each option costs one single-result query.
func (e *Editor) RemoveUnused(ctx context.Context, args RemoveUnusedArgs) (*Report, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	db, cfg, err := e.choiceProperty(ctx, args.DatabaseID, args.Property, "")
	if err != nil {
		return nil, err
	}
	options, _ := notion.ChoiceOptions(cfg)

	var unused []string
	for _, o := range options {
		filter := notion.MatchOption(args.Property, cfg.Type(), o.Name)
		used, err := notion.AnyMatch(ctx, e.api, db.ID, &filter)
		if err != nil {
			return nil, err
		}
		if !used {
			unused = append(unused, o.Name)
		}
	}

	removed, err := e.dropOptions(ctx, db.ID, args.Property, cfg, unused)
	if err != nil {
		return nil, err
	}
	return &Report{OptionsRemoved: removed}, nil
}
