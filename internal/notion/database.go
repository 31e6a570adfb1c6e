// Package notion is a small client for the parts of the Notion REST API used
// by ntn: database schemas, page queries and updates, and block children.
//
// Schema property definitions and page property values are modelled as sum
// types. Callers type-switch on the variant instead of branching on a type
// string, and every kind this package does not model is carried as raw JSON
// so it can be passed back to the API unchanged.
package notion

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PropertyType is the type tag of a database property.
type PropertyType string

const (
	TypeTitle          PropertyType = "title"
	TypeRichText       PropertyType = "rich_text"
	TypeNumber         PropertyType = "number"
	TypeSelect         PropertyType = "select"
	TypeMultiSelect    PropertyType = "multi_select"
	TypeStatus         PropertyType = "status"
	TypeDate           PropertyType = "date"
	TypePeople         PropertyType = "people"
	TypeFiles          PropertyType = "files"
	TypeCheckbox       PropertyType = "checkbox"
	TypeURL            PropertyType = "url"
	TypeEmail          PropertyType = "email"
	TypePhoneNumber    PropertyType = "phone_number"
	TypeRelation       PropertyType = "relation"
	TypeFormula        PropertyType = "formula"
	TypeRollup         PropertyType = "rollup"
	TypeCreatedTime    PropertyType = "created_time"
	TypeCreatedBy      PropertyType = "created_by"
	TypeLastEditedTime PropertyType = "last_edited_time"
	TypeLastEditedBy   PropertyType = "last_edited_by"
	TypeUniqueID       PropertyType = "unique_id"
	TypeVerification   PropertyType = "verification"
	TypeButton         PropertyType = "button"
)

// ReadOnly reports whether values of this type are computed by Notion and
// rejected when creating or updating a page.
func (t PropertyType) ReadOnly() bool {
	switch t {
	case TypeFormula, TypeRollup, TypeCreatedTime, TypeCreatedBy,
		TypeLastEditedTime, TypeLastEditedBy, TypeUniqueID, TypeVerification, TypeButton:
		return true
	}
	return false
}

// IsChoice reports whether the type holds options (select or multi_select).
func (t PropertyType) IsChoice() bool {
	return t == TypeSelect || t == TypeMultiSelect
}

// Option is a named choice of a select or multi_select property.
// Choices are matched by Name; ID and Color are assigned by Notion.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Unassigned returns a copy without the generated ID and color, so the
// receiving schema associates it by name.
func (o Option) Unassigned() Option {
	return Option{Name: o.Name}
}

// FindOption returns the option called name.
func FindOption(options []Option, name string) (Option, bool) {
	for _, o := range options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// OptionNames returns the names of options in order.
func OptionNames(options []Option) []string {
	names := make([]string, 0, len(options))
	for _, o := range options {
		names = append(names, o.Name)
	}
	return names
}

// PropertyConfig is one property definition of a database schema.
//
// Variants: *TitleConfig, *SelectConfig, *MultiSelectConfig, *RelationConfig
// and *OtherConfig.
type PropertyConfig interface {
	Type() PropertyType
	isPropertyConfig()
}

// TitleConfig is the schema of the title property.
type TitleConfig struct{}

// SelectConfig is the schema of a single-choice property.
type SelectConfig struct {
	Options []Option
}

// MultiSelectConfig is the schema of a multi-choice property.
type MultiSelectConfig struct {
	Options []Option
}

// RelationConfig is the schema of a relation property.
type RelationConfig struct {
	DatabaseID string
	// Raw is the full relation body as returned by the API.
	Raw json.RawMessage
}

// OtherConfig carries the schema of any property kind not modelled above.
type OtherConfig struct {
	Kind PropertyType
	Raw  json.RawMessage
}

func (*TitleConfig) Type() PropertyType       { return TypeTitle }
func (*SelectConfig) Type() PropertyType      { return TypeSelect }
func (*MultiSelectConfig) Type() PropertyType { return TypeMultiSelect }
func (*RelationConfig) Type() PropertyType    { return TypeRelation }
func (c *OtherConfig) Type() PropertyType     { return c.Kind }

func (*TitleConfig) isPropertyConfig()       {}
func (*SelectConfig) isPropertyConfig()      {}
func (*MultiSelectConfig) isPropertyConfig() {}
func (*RelationConfig) isPropertyConfig()    {}
func (*OtherConfig) isPropertyConfig()       {}

type optionsBody struct {
	Options []Option `json:"options"`
}

func (c *TitleConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(TypeTitle): struct{}{}})
}

func (c *SelectConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(TypeSelect): optionsBody{Options: nonNilOptions(c.Options)}})
}

func (c *MultiSelectConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(TypeMultiSelect): optionsBody{Options: nonNilOptions(c.Options)}})
}

func (c *RelationConfig) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return json.Marshal(map[string]json.RawMessage{string(TypeRelation): c.Raw})
	}
	body := map[string]any{
		"database_id":     c.DatabaseID,
		"single_property": struct{}{},
	}
	return json.Marshal(map[string]any{string(TypeRelation): body})
}

func (c *OtherConfig) MarshalJSON() ([]byte, error) {
	raw := c.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	return json.Marshal(map[string]json.RawMessage{string(c.Kind): raw})
}

func nonNilOptions(options []Option) []Option {
	if options == nil {
		return []Option{}
	}
	return options
}

// ChoiceOptions returns the options of a select or multi_select config.
func ChoiceOptions(cfg PropertyConfig) ([]Option, bool) {
	switch c := cfg.(type) {
	case *SelectConfig:
		return c.Options, true
	case *MultiSelectConfig:
		return c.Options, true
	}
	return nil, false
}

// WithOptions returns a config of the same choice kind holding options.
func WithOptions(cfg PropertyConfig, options []Option) (PropertyConfig, error) {
	switch cfg.(type) {
	case *SelectConfig:
		return &SelectConfig{Options: options}, nil
	case *MultiSelectConfig:
		return &MultiSelectConfig{Options: options}, nil
	}
	return nil, fmt.Errorf("%s property has no options", cfg.Type())
}

// PropertyConfigs maps property names to their definitions.
type PropertyConfigs map[string]PropertyConfig

type propertyEnvelope struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type PropertyType `json:"type"`
}

// UnmarshalJSON dispatches each property on its "type" tag.
func (p *PropertyConfigs) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PropertyConfigs, len(raw))
	for name, msg := range raw {
		cfg, err := decodePropertyConfig(msg)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = cfg
	}
	*p = out
	return nil
}

func decodePropertyConfig(msg json.RawMessage) (PropertyConfig, error) {
	var env propertyEnvelope
	if err := json.Unmarshal(msg, &env); err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil {
		return nil, err
	}
	body := fields[string(env.Type)]

	switch env.Type {
	case TypeTitle:
		return &TitleConfig{}, nil
	case TypeSelect:
		var b optionsBody
		if err := unmarshalBody(body, &b); err != nil {
			return nil, err
		}
		return &SelectConfig{Options: b.Options}, nil
	case TypeMultiSelect:
		var b optionsBody
		if err := unmarshalBody(body, &b); err != nil {
			return nil, err
		}
		return &MultiSelectConfig{Options: b.Options}, nil
	case TypeRelation:
		var b struct {
			DatabaseID string `json:"database_id"`
		}
		if err := unmarshalBody(body, &b); err != nil {
			return nil, err
		}
		return &RelationConfig{DatabaseID: b.DatabaseID, Raw: body}, nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return &OtherConfig{Kind: env.Type, Raw: body}, nil
	}
}

func unmarshalBody(body json.RawMessage, v any) error {
	if len(body) == 0 || string(body) == "null" {
		return nil
	}
	return json.Unmarshal(body, v)
}

// Database is a Notion database: its identity and schema.
type Database struct {
	ID         string          `json:"id"`
	Title      []RichText      `json:"title,omitempty"`
	URL        string          `json:"url,omitempty"`
	Properties PropertyConfigs `json:"properties"`
}

// PlainTitle returns the database title as plain text.
func (d *Database) PlainTitle() string {
	return PlainText(d.Title)
}

// TitlePropertyName returns the name of the schema's title property.
func (d *Database) TitlePropertyName() (string, error) {
	for _, name := range d.PropertyNames() {
		if _, ok := d.Properties[name].(*TitleConfig); ok {
			return name, nil
		}
	}
	return "", fmt.Errorf("database %s: %w", d.ID, ErrNoTitleProperty)
}

// PropertyNames returns the schema's property names, sorted.
func (d *Database) PropertyNames() []string {
	names := make([]string, 0, len(d.Properties))
	for name := range d.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
