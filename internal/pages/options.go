package pages

import (
	"context"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/ntn/internal/notion"
)

// CreateFromOptionsArgs names the multi_select property whose options become
// pages in the target database.
type CreateFromOptionsArgs struct {
	SourceID string
	Property string
	TargetID string
}

func (a CreateFromOptionsArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SourceID, validation.Required),
		validation.Field(&a.Property, validation.Required),
		validation.Field(&a.TargetID, validation.Required),
	)
}

// CreateReport maps every option name to its page in the target database.
type CreateReport struct {
	Pages   map[string]string `json:"pages"`
	Created []string          `json:"created"`
	Existed []string          `json:"existed,omitempty"`
}

// CreateFromOptions creates one page per option of a multi_select property,
// titled with the option name. Options that already have a page with that
// title are not created again.
func (e *Editor) CreateFromOptions(ctx context.Context, args CreateFromOptionsArgs) (*CreateReport, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	source, err := e.api.RetrieveDatabase(ctx, args.SourceID)
	if err != nil {
		return nil, fmt.Errorf("retrieve source %s: %w", args.SourceID, err)
	}
	cfg, err := property(source, args.Property, notion.TypeMultiSelect)
	if err != nil {
		return nil, err
	}
	options, _ := notion.ChoiceOptions(cfg)

	target, err := e.api.RetrieveDatabase(ctx, args.TargetID)
	if err != nil {
		return nil, fmt.Errorf("retrieve target %s: %w", args.TargetID, err)
	}
	titleProp, err := target.TitlePropertyName()
	if err != nil {
		return nil, err
	}
	existing, err := TitleIndex(ctx, e.api, target.ID)
	if err != nil {
		return nil, err
	}

	report := &CreateReport{Pages: make(map[string]string, len(options)), Created: []string{}}
	for _, o := range options {
		if id, ok := existing[o.Name]; ok {
			report.Pages[o.Name] = id
			report.Existed = append(report.Existed, o.Name)
			continue
		}
		page, err := e.api.CreatePage(ctx, &notion.CreatePageRequest{
			Parent:     notion.DatabaseParent(target.ID),
			Properties: notion.PropertyValues{titleProp: &notion.TitleValue{RichText: notion.NewText(o.Name)}},
		})
		if err != nil {
			return report, fmt.Errorf("create page %q: %w", o.Name, err)
		}
		e.logger.Info("created page", "page", page.ID, "title", o.Name)
		existing[o.Name] = page.ID
		report.Pages[o.Name] = page.ID
		report.Created = append(report.Created, o.Name)
	}
	return report, nil
}

// RelationArgs turns the values of a multi_select property into links to the
// pages of RelatedID with matching titles.
type RelationArgs struct {
	DatabaseID string
	Source     string
	Relation   string

	// RelatedID defaults to the database the relation property points at.
	RelatedID string
}

func (a RelationArgs) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.DatabaseID, validation.Required),
		validation.Field(&a.Source, validation.Required),
		validation.Field(&a.Relation, validation.Required),
	)
}

// RelationReport counts the pages written.
type RelationReport struct {
	PagesUpdated   int `json:"pages_updated"`
	PagesUnchanged int `json:"pages_unchanged"`
}

// SetRelationFromOptions sets the relation property of every page to the
// related pages titled like its multi_select options. Every option name is
// resolved before the first write; an unknown title fails the whole
// operation with ErrUnknownTitle.
func (e *Editor) SetRelationFromOptions(ctx context.Context, args RelationArgs) (*RelationReport, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	db, err := e.api.RetrieveDatabase(ctx, args.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("retrieve database %s: %w", args.DatabaseID, err)
	}
	if _, err := property(db, args.Source, notion.TypeMultiSelect); err != nil {
		return nil, err
	}
	relCfg, err := property(db, args.Relation, notion.TypeRelation)
	if err != nil {
		return nil, err
	}
	related := args.RelatedID
	if related == "" {
		related = relCfg.(*notion.RelationConfig).DatabaseID
	}

	index, err := TitleIndex(ctx, e.api, related)
	if err != nil {
		return nil, err
	}
	pages, err := notion.QueryAll(ctx, e.api, db.ID, nil)
	if err != nil {
		return nil, err
	}

	wanted := make([][]notion.PageRef, len(pages))
	var unknown []string
	for i := range pages {
		names, err := optionNames(&pages[i], args.Source)
		if err != nil {
			return nil, err
		}
		refs := make([]notion.PageRef, 0, len(names))
		for _, name := range names {
			id, ok := index[name]
			if !ok {
				unknown = append(unknown, name)
				continue
			}
			refs = append(refs, notion.PageRef{ID: id})
		}
		wanted[i] = refs
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s in database %s", ErrUnknownTitle, strings.Join(dedupe(unknown), ", "), related)
	}

	report := &RelationReport{}
	for i := range pages {
		page := &pages[i]
		if sameRefs(currentRefs(page, args.Relation), wanted[i]) {
			report.PagesUnchanged++
			continue
		}
		_, err := e.api.UpdatePage(ctx, page.ID, &notion.UpdatePageRequest{
			Properties: notion.PropertyValues{args.Relation: &notion.RelationValue{Relations: wanted[i]}},
		})
		if err != nil {
			return report, fmt.Errorf("update page %s: %w", page.ID, err)
		}
		e.logger.Info("updated page", "page", page.ID, "relations", len(wanted[i]))
		report.PagesUpdated++
	}
	return report, nil
}

func optionNames(page *notion.Page, property string) ([]string, error) {
	switch v := page.Properties[property].(type) {
	case nil:
		return nil, nil
	case *notion.MultiSelectValue:
		return v.Names(), nil
	default:
		return nil, fmt.Errorf("%w: page %s has %s value for %q", ErrWrongPropertyType, page.ID, v.Type(), property)
	}
}

func currentRefs(page *notion.Page, property string) []notion.PageRef {
	if v, ok := page.Properties[property].(*notion.RelationValue); ok {
		return v.Relations
	}
	return nil
}

func sameRefs(a, b []notion.PageRef) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, r := range a {
		seen[r.ID] = true
	}
	for _, r := range b {
		if !seen[r.ID] {
			return false
		}
	}
	return true
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
