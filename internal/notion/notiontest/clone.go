package notiontest

import (
	"encoding/json"

	"github.com/aidanlsb/ntn/internal/notion"
)

func cloneDatabase(db *notion.Database) *notion.Database {
	out := *db
	out.Title = append([]notion.RichText(nil), db.Title...)
	out.Properties = make(notion.PropertyConfigs, len(db.Properties))
	for name, cfg := range db.Properties {
		out.Properties[name] = cloneConfig(cfg)
	}
	return &out
}

func cloneConfig(cfg notion.PropertyConfig) notion.PropertyConfig {
	switch c := cfg.(type) {
	case *notion.TitleConfig:
		return &notion.TitleConfig{}
	case *notion.SelectConfig:
		return &notion.SelectConfig{Options: append([]notion.Option(nil), c.Options...)}
	case *notion.MultiSelectConfig:
		return &notion.MultiSelectConfig{Options: append([]notion.Option(nil), c.Options...)}
	case *notion.RelationConfig:
		return &notion.RelationConfig{DatabaseID: c.DatabaseID, Raw: cloneRaw(c.Raw)}
	case *notion.OtherConfig:
		return &notion.OtherConfig{Kind: c.Kind, Raw: cloneRaw(c.Raw)}
	}
	return cfg
}

func clonePage(p *notion.Page) *notion.Page {
	out := *p
	out.Properties = cloneValues(p.Properties)
	return &out
}

func cloneValues(values notion.PropertyValues) notion.PropertyValues {
	out := make(notion.PropertyValues, len(values))
	for name, v := range values {
		out[name] = cloneValue(v)
	}
	return out
}

func cloneValue(v notion.PropertyValue) notion.PropertyValue {
	switch val := v.(type) {
	case *notion.TitleValue:
		return &notion.TitleValue{RichText: append([]notion.RichText(nil), val.RichText...)}
	case *notion.SelectValue:
		if val.Option == nil {
			return &notion.SelectValue{}
		}
		o := *val.Option
		return &notion.SelectValue{Option: &o}
	case *notion.MultiSelectValue:
		return &notion.MultiSelectValue{Options: append([]notion.Option(nil), val.Options...)}
	case *notion.RelationValue:
		return &notion.RelationValue{Relations: append([]notion.PageRef(nil), val.Relations...)}
	case *notion.OtherValue:
		return &notion.OtherValue{Kind: val.Kind, Raw: cloneRaw(val.Raw)}
	}
	return v
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

// Title returns a title value holding text.
func Title(text string) notion.PropertyValue {
	return &notion.TitleValue{RichText: notion.NewText(text)}
}

// Select returns a select value for the option called name, or an unset value
// when name is empty.
func Select(name string) notion.PropertyValue {
	if name == "" {
		return &notion.SelectValue{}
	}
	return &notion.SelectValue{Option: &notion.Option{Name: name}}
}

// MultiSelect returns a multi_select value holding the named options.
func MultiSelect(names ...string) notion.PropertyValue {
	v := &notion.MultiSelectValue{Options: []notion.Option{}}
	for _, n := range names {
		v.Options = append(v.Options, notion.Option{Name: n})
	}
	return v
}

// Relation returns a relation value pointing at pageIDs.
func Relation(pageIDs ...string) notion.PropertyValue {
	v := &notion.RelationValue{Relations: []notion.PageRef{}}
	for _, id := range pageIDs {
		v.Relations = append(v.Relations, notion.PageRef{ID: id})
	}
	return v
}

// Options builds options from names.
func Options(names ...string) []notion.Option {
	out := make([]notion.Option, 0, len(names))
	for _, n := range names {
		out = append(out, notion.Option{Name: n})
	}
	return out
}
