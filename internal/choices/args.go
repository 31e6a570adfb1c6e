package choices

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MergeArgs names the options merged into Output.
type MergeArgs struct {
	DatabaseID string
	Property   string
	Inputs     []string
	Output     string
}

// Validate checks that every field is set.
func (a MergeArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DatabaseID, validation.Required),
		validation.Field(&a.Property, validation.Required),
		validation.Field(&a.Inputs, validation.Required, validation.Each(validation.Required)),
		validation.Field(&a.Output, validation.Required),
	)
}

// RemoveArgs names options to delete from a property.
type RemoveArgs struct {
	DatabaseID string
	Property   string
	Options    []string
}

func (a RemoveArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DatabaseID, validation.Required),
		validation.Field(&a.Property, validation.Required),
		validation.Field(&a.Options, validation.Required, validation.Each(validation.Required)),
	)
}

// RemoveUnusedArgs names the property whose unreferenced options are deleted.
type RemoveUnusedArgs struct {
	DatabaseID string
	Property   string
}

func (a RemoveUnusedArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DatabaseID, validation.Required),
		validation.Field(&a.Property, validation.Required),
	)
}

// MoveArgs moves Options from the multi_select Source property into Target.
type MoveArgs struct {
	DatabaseID string
	Source     string
	Target     string
	Options    []string

	// KeepSourceOptions leaves the moved options defined on Source.
	KeepSourceOptions bool
}

func (a MoveArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DatabaseID, validation.Required),
		validation.Field(&a.Source, validation.Required),
		validation.Field(&a.Target, validation.Required, validation.NotIn(a.Source).Error("must differ from the source property")),
		validation.Field(&a.Options, validation.Required, validation.Each(validation.Required)),
	)
}
