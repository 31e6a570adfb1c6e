package dbcopy

import (
	"encoding/json"
	"fmt"

	"github.com/aidanlsb/ntn/internal/notion"
)

// uncreatable are property kinds the API refuses in a schema update.
var uncreatable = map[notion.PropertyType]bool{
	notion.TypeStatus:       true,
	notion.TypeButton:       true,
	notion.TypeVerification: true,
}

type schemaPlan struct {
	create  map[string]notion.PropertyConfig
	names   []string
	skipped []string
}

// planSchema compares the two schemas. Common properties must share a type;
// source-only properties other than the title are planned for creation.
func planSchema(source, target *notion.Database) (*schemaPlan, error) {
	plan := &schemaPlan{create: make(map[string]notion.PropertyConfig)}

	for _, name := range source.PropertyNames() {
		cfg := source.Properties[name]
		if existing, ok := target.Properties[name]; ok {
			if existing.Type() != cfg.Type() {
				return nil, fmt.Errorf("%w: %q is %s on the target but %s on the source",
					ErrTypeMismatch, name, existing.Type(), cfg.Type())
			}
			continue
		}
		if cfg.Type() == notion.TypeTitle {
			continue
		}
		if uncreatable[cfg.Type()] {
			plan.skipped = append(plan.skipped, name)
			continue
		}
		plan.create[name] = creationConfig(cfg)
		plan.names = append(plan.names, name)
	}
	return plan, nil
}

// creationConfig strips generated option ids so the target assigns its own.
func creationConfig(cfg notion.PropertyConfig) notion.PropertyConfig {
	switch c := cfg.(type) {
	case *notion.SelectConfig:
		return &notion.SelectConfig{Options: withoutIDs(c.Options)}
	case *notion.MultiSelectConfig:
		return &notion.MultiSelectConfig{Options: withoutIDs(c.Options)}
	case *notion.RelationConfig:
		return &notion.RelationConfig{DatabaseID: c.DatabaseID}
	}
	return cfg
}

func withoutIDs(options []notion.Option) []notion.Option {
	out := make([]notion.Option, 0, len(options))
	for _, o := range options {
		out = append(out, notion.Option{Name: o.Name, Color: o.Color})
	}
	return out
}

// pageValues converts a source page's values for creation on target. Choice
// values are reduced to names, the title moves to the target's title
// property, and computed values are dropped.
func pageValues(page *notion.Page, target *notion.Database, sourceTitle, targetTitle string) (notion.PropertyValues, error) {
	out := make(notion.PropertyValues, len(page.Properties))
	for name, value := range page.Properties {
		if value == nil || value.Type().ReadOnly() {
			continue
		}
		if name == sourceTitle {
			out[targetTitle] = value
			continue
		}
		if _, ok := target.Properties[name]; !ok {
			continue
		}

		switch v := value.(type) {
		case *notion.SelectValue:
			if v.Option == nil {
				out[name] = &notion.SelectValue{}
				continue
			}
			o := v.Option.Unassigned()
			out[name] = &notion.SelectValue{Option: &o}
		case *notion.MultiSelectValue:
			opts := make([]notion.Option, 0, len(v.Options))
			for _, o := range v.Options {
				opts = append(opts, o.Unassigned())
			}
			out[name] = &notion.MultiSelectValue{Options: opts}
		case *notion.OtherValue:
			if v.HasHostedFile() {
				return nil, fmt.Errorf("%w: files property %q", ErrHostedFile, name)
			}
			if v.Kind != notion.TypeStatus {
				out[name] = v
				continue
			}
			status, err := statusByName(v)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			out[name] = status
		default:
			out[name] = value
		}
	}
	return out, nil
}

// statusByName reduces a status value to its option name.
func statusByName(v *notion.OtherValue) (*notion.OtherValue, error) {
	if len(v.Raw) == 0 || string(v.Raw) == "null" {
		return v, nil
	}
	var o notion.Option
	if err := json.Unmarshal(v.Raw, &o); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(o.Unassigned())
	if err != nil {
		return nil, err
	}
	return &notion.OtherValue{Kind: notion.TypeStatus, Raw: raw}, nil
}
