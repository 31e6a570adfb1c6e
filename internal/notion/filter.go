package notion

// Filter is a database query filter: either a compound of nested filters
// (Or/And) or a condition on one property.
type Filter struct {
	Or  []Filter `json:"or,omitempty"`
	And []Filter `json:"and,omitempty"`

	Property    string           `json:"property,omitempty"`
	Select      *OptionCondition `json:"select,omitempty"`
	MultiSelect *OptionCondition `json:"multi_select,omitempty"`
	Title       *TextCondition   `json:"title,omitempty"`
}

// OptionCondition filters select and multi_select values.
// Select supports Equals; multi_select supports Contains.
type OptionCondition struct {
	Equals     string `json:"equals,omitempty"`
	Contains   string `json:"contains,omitempty"`
	IsEmpty    bool   `json:"is_empty,omitempty"`
	IsNotEmpty bool   `json:"is_not_empty,omitempty"`
}

// TextCondition filters title and rich text values.
type TextCondition struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// MatchOption returns the condition "property holds the option called name"
// using the operator the property type supports.
func MatchOption(property string, kind PropertyType, name string) Filter {
	if kind == TypeSelect {
		return Filter{Property: property, Select: &OptionCondition{Equals: name}}
	}
	return Filter{Property: property, MultiSelect: &OptionCondition{Contains: name}}
}

// MatchAnyOption returns a disjunction of MatchOption for each name.
func MatchAnyOption(property string, kind PropertyType, names []string) *Filter {
	clauses := make([]Filter, 0, len(names))
	for _, name := range names {
		clauses = append(clauses, MatchOption(property, kind, name))
	}
	return &Filter{Or: clauses}
}

// TitleEquals matches pages whose title is exactly title.
func TitleEquals(property, title string) Filter {
	return Filter{Property: property, Title: &TextCondition{Equals: title}}
}
