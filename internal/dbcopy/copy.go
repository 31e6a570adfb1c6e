// Package dbcopy copies the schema and pages of one Notion database into
// another.
//
// The copy is best-effort. Properties missing from the target are created,
// every page is recreated, and the direct block children of each page are
// appended to the copy. Pages with more than one listing of children and
// pages embedding Notion-hosted files are rejected before anything is
// written for that page.
package dbcopy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/ntn/internal/notion"
)

var (
	// ErrSourceNotFound means the source database could not be retrieved.
	ErrSourceNotFound = errors.New("source database not found")

	// ErrTargetNotFound means the target database could not be retrieved.
	ErrTargetNotFound = errors.New("target database not found")

	// ErrTypeMismatch means a property exists on both databases with different types.
	ErrTypeMismatch = errors.New("property type mismatch")

	// ErrPropertyNotCreated means a property was missing from the target
	// schema after the schema update that should have created it.
	ErrPropertyNotCreated = errors.New("property not created")

	// ErrTooManyBlocks means a page has more direct children than one listing returns.
	ErrTooManyBlocks = errors.New("page has more than 100 blocks")

	// ErrHostedFile means a block or a files value references a file stored
	// by Notion, which the API only exposes as an expiring URL.
	ErrHostedFile = errors.New("references a notion-hosted file")

	// ErrUnsupportedBlock means a block type cannot be recreated through the API.
	ErrUnsupportedBlock = errors.New("unsupported block type")
)

// Args selects the databases to copy between.
type Args struct {
	SourceID string
	TargetID string

	// SkipContent copies properties only.
	SkipContent bool
}

func (a Args) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SourceID, validation.Required),
		validation.Field(&a.TargetID, validation.Required, validation.NotIn(a.SourceID).Error("must differ from the source database")),
	)
}

// PageCopy links a source page to its copy.
type PageCopy struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Blocks   int    `json:"blocks"`
}

// Report summarizes a copy.
type Report struct {
	PropertiesCreated []string   `json:"properties_created,omitempty"`
	PropertiesSkipped []string   `json:"properties_skipped,omitempty"`
	Pages             []PageCopy `json:"pages"`
}

// Copier copies databases.
type Copier struct {
	api    notion.API
	logger *slog.Logger
}

// New returns a Copier. A nil logger discards output.
func New(api notion.API, logger *slog.Logger) *Copier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Copier{api: api, logger: logger}
}

// Copy creates the source's missing properties on the target, then recreates
// every source page on the target.
func (c *Copier) Copy(ctx context.Context, args Args) (*Report, error) {
	if err := args.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	source, err := c.api.RetrieveDatabase(ctx, args.SourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, args.SourceID, err)
	}
	target, err := c.api.RetrieveDatabase(ctx, args.TargetID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTargetNotFound, args.TargetID, err)
	}

	sourceTitle, err := source.TitlePropertyName()
	if err != nil {
		return nil, err
	}

	plan, err := planSchema(source, target)
	if err != nil {
		return nil, err
	}
	report := &Report{PropertiesSkipped: plan.skipped}
	for _, name := range plan.skipped {
		c.logger.Info("skipping property the API cannot create", "property", name, "type", source.Properties[name].Type())
	}

	if len(plan.create) > 0 {
		target, err = c.createProperties(ctx, target.ID, plan)
		if err != nil {
			return report, err
		}
		report.PropertiesCreated = plan.names
	}

	targetTitle, err := target.TitlePropertyName()
	if err != nil {
		return report, err
	}

	pages, err := notion.QueryAll(ctx, c.api, source.ID, nil)
	if err != nil {
		return report, err
	}

	for i := range pages {
		page := &pages[i]
		copied, err := c.copyPage(ctx, page, target, sourceTitle, targetTitle, args.SkipContent)
		if err != nil {
			return report, fmt.Errorf("copy page %s: %w", page.ID, err)
		}
		report.Pages = append(report.Pages, *copied)
	}
	return report, nil
}

// createProperties adds the planned properties in one schema update, then
// re-reads the target and checks every property landed under its name.
func (c *Copier) createProperties(ctx context.Context, targetID string, plan *schemaPlan) (*notion.Database, error) {
	_, err := c.api.UpdateDatabase(ctx, targetID, &notion.UpdateDatabaseRequest{Properties: plan.create})
	if err != nil {
		return nil, fmt.Errorf("create properties on %s: %w", targetID, err)
	}
	c.logger.Info("created properties", "database", targetID, "properties", plan.names)

	target, err := c.api.RetrieveDatabase(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("re-read target %s: %w", targetID, err)
	}
	for _, name := range plan.names {
		got, ok := target.Properties[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrPropertyNotCreated, name)
		}
		if want := plan.create[name].Type(); got.Type() != want {
			return nil, fmt.Errorf("%w: %q is %s, want %s", ErrPropertyNotCreated, name, got.Type(), want)
		}
	}
	return target, nil
}

func (c *Copier) copyPage(ctx context.Context, page *notion.Page, target *notion.Database, sourceTitle, targetTitle string, skipContent bool) (*PageCopy, error) {
	var children []json.RawMessage
	if !skipContent {
		var err error
		children, err = c.blockPayloads(ctx, page.ID)
		if err != nil {
			return nil, err
		}
	}

	props, err := pageValues(page, target, sourceTitle, targetTitle)
	if err != nil {
		return nil, err
	}
	created, err := c.api.CreatePage(ctx, &notion.CreatePageRequest{
		Parent:     notion.DatabaseParent(target.ID),
		Properties: props,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Info("created page", "source", page.ID, "page", created.ID)

	if len(children) > 0 {
		if _, err := c.api.AppendBlockChildren(ctx, created.ID, children); err != nil {
			return nil, fmt.Errorf("append blocks to %s: %w", created.ID, err)
		}
		c.logger.Info("appended blocks", "page", created.ID, "count", len(children))
	}
	return &PageCopy{SourceID: page.ID, TargetID: created.ID, Blocks: len(children)}, nil
}

// blockPayloads lists the page's direct children and converts them to
// creation payloads, failing on anything that cannot be recreated.
func (c *Copier) blockPayloads(ctx context.Context, pageID string) ([]json.RawMessage, error) {
	list, err := c.api.ListBlockChildren(ctx, pageID, &notion.ListBlockChildrenRequest{PageSize: notion.MaxBlockPageSize})
	if err != nil {
		return nil, fmt.Errorf("list blocks of %s: %w", pageID, err)
	}
	if list.HasMore {
		return nil, ErrTooManyBlocks
	}

	payloads := make([]json.RawMessage, 0, len(list.Results))
	for _, b := range list.Results {
		switch {
		case b.IsHostedFile():
			return nil, fmt.Errorf("%w: %s block %s", ErrHostedFile, b.Type, b.ID)
		case unsupportedBlocks[b.Type]:
			return nil, fmt.Errorf("%w: %s block %s", ErrUnsupportedBlock, b.Type, b.ID)
		}
		if b.HasChildren {
			c.logger.Debug("nested blocks are not copied", "block", b.ID, "type", b.Type)
		}
		payload, err := b.CreationPayload()
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

var unsupportedBlocks = map[string]bool{
	"child_page":     true,
	"child_database": true,
	"unsupported":    true,
}
