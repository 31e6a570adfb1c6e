package notion

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RichText is one span of Notion rich text.
//
// Only the plain text and "text" content are interpreted; mention and
// equation bodies are kept raw so a title can be written back unchanged.
type RichText struct {
	Type        string          `json:"type,omitempty"`
	Text        *TextContent    `json:"text,omitempty"`
	Mention     json.RawMessage `json:"mention,omitempty"`
	Equation    json.RawMessage `json:"equation,omitempty"`
	Annotations json.RawMessage `json:"annotations,omitempty"`
	PlainText   string          `json:"plain_text,omitempty"`
	Href        *string         `json:"href,omitempty"`
}

// TextContent is the body of a "text" rich text span.
type TextContent struct {
	Content string          `json:"content"`
	Link    json.RawMessage `json:"link,omitempty"`
}

// NewText returns a single plain text span.
func NewText(content string) []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: content}, PlainText: content}}
}

// PlainText concatenates the plain text of spans.
func PlainText(spans []RichText) string {
	var b strings.Builder
	for _, s := range spans {
		switch {
		case s.PlainText != "":
			b.WriteString(s.PlainText)
		case s.Text != nil:
			b.WriteString(s.Text.Content)
		}
	}
	return b.String()
}

// PageRef references a page by ID, as used by relation values.
type PageRef struct {
	ID string `json:"id"`
}

// Parent identifies where a page lives.
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// DatabaseParent returns the parent reference for a database.
func DatabaseParent(databaseID string) Parent {
	return Parent{Type: "database_id", DatabaseID: databaseID}
}

// PropertyValue is the value of one property on a page.
//
// Variants: *TitleValue, *SelectValue, *MultiSelectValue, *RelationValue and
// *OtherValue.
type PropertyValue interface {
	Type() PropertyType
	isPropertyValue()
}

// TitleValue is the value of the title property.
type TitleValue struct {
	RichText []RichText
}

// SelectValue is the value of a single-choice property; Option is nil when unset.
type SelectValue struct {
	Option *Option
}

// MultiSelectValue is the value of a multi-choice property.
type MultiSelectValue struct {
	Options []Option
}

// RelationValue is the value of a relation property.
type RelationValue struct {
	Relations []PageRef
}

// OtherValue carries the body of any value kind not modelled above.
type OtherValue struct {
	Kind PropertyType
	Raw  json.RawMessage
}

// HasHostedFile reports whether a files value lists a file stored by Notion.
// Like hosted file blocks, such entries only carry expiring URLs and cannot
// be written to another page.
func (v *OtherValue) HasHostedFile() bool {
	if v.Kind != TypeFiles {
		return false
	}
	var files []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(v.Raw, &files); err != nil {
		return false
	}
	for _, f := range files {
		if f.Type == "file" {
			return true
		}
	}
	return false
}

func (*TitleValue) Type() PropertyType       { return TypeTitle }
func (*SelectValue) Type() PropertyType      { return TypeSelect }
func (*MultiSelectValue) Type() PropertyType { return TypeMultiSelect }
func (*RelationValue) Type() PropertyType    { return TypeRelation }
func (v *OtherValue) Type() PropertyType     { return v.Kind }

func (*TitleValue) isPropertyValue()       {}
func (*SelectValue) isPropertyValue()      {}
func (*MultiSelectValue) isPropertyValue() {}
func (*RelationValue) isPropertyValue()    {}
func (*OtherValue) isPropertyValue()       {}

func (v *TitleValue) MarshalJSON() ([]byte, error) {
	spans := v.RichText
	if spans == nil {
		spans = []RichText{}
	}
	return json.Marshal(map[string]any{string(TypeTitle): spans})
}

func (v *SelectValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(TypeSelect): v.Option})
}

func (v *MultiSelectValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{string(TypeMultiSelect): nonNilOptions(v.Options)})
}

func (v *RelationValue) MarshalJSON() ([]byte, error) {
	refs := v.Relations
	if refs == nil {
		refs = []PageRef{}
	}
	return json.Marshal(map[string]any{string(TypeRelation): refs})
}

func (v *OtherValue) MarshalJSON() ([]byte, error) {
	raw := v.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	return json.Marshal(map[string]json.RawMessage{string(v.Kind): raw})
}

// Names returns the option names held by the value.
func (v *MultiSelectValue) Names() []string {
	return OptionNames(v.Options)
}

// Has reports whether the value holds an option called name.
func (v *MultiSelectValue) Has(name string) bool {
	_, ok := FindOption(v.Options, name)
	return ok
}

// Name returns the selected option's name, or "" when unset.
func (v *SelectValue) Name() string {
	if v.Option == nil {
		return ""
	}
	return v.Option.Name
}

// PropertyValues maps property names to page values.
type PropertyValues map[string]PropertyValue

// UnmarshalJSON dispatches each value on its "type" tag.
func (p *PropertyValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(PropertyValues, len(raw))
	for name, msg := range raw {
		v, err := decodePropertyValue(msg)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		out[name] = v
	}
	*p = out
	return nil
}

func decodePropertyValue(msg json.RawMessage) (PropertyValue, error) {
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
		var spans []RichText
		if err := unmarshalBody(body, &spans); err != nil {
			return nil, err
		}
		return &TitleValue{RichText: spans}, nil
	case TypeSelect:
		var opt *Option
		if err := unmarshalBody(body, &opt); err != nil {
			return nil, err
		}
		return &SelectValue{Option: opt}, nil
	case TypeMultiSelect:
		var opts []Option
		if err := unmarshalBody(body, &opts); err != nil {
			return nil, err
		}
		return &MultiSelectValue{Options: opts}, nil
	case TypeRelation:
		var refs []PageRef
		if err := unmarshalBody(body, &refs); err != nil {
			return nil, err
		}
		return &RelationValue{Relations: refs}, nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return &OtherValue{Kind: env.Type, Raw: body}, nil
	}
}

// Page is a database record.
type Page struct {
	ID         string         `json:"id"`
	Parent     Parent         `json:"parent"`
	Archived   bool           `json:"archived"`
	URL        string         `json:"url,omitempty"`
	Properties PropertyValues `json:"properties"`
}

// Title returns the plain text of the page's title property.
func (p *Page) Title() string {
	for _, v := range p.Properties {
		if t, ok := v.(*TitleValue); ok {
			return PlainText(t.RichText)
		}
	}
	return ""
}
