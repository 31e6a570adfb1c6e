// Package pages runs page-level batch operations on Notion databases:
// archiving every page, creating pages from the options of a property, and
// turning multi_select values into relations.
package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/aidanlsb/ntn/internal/notion"
)

var (
	// ErrUnknownTitle means an option name matched no page title in the
	// related database.
	ErrUnknownTitle = errors.New("no page with that title")

	// ErrPropertyNotFound means the named property is not on the schema.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrWrongPropertyType means the property exists with an unexpected type.
	ErrWrongPropertyType = errors.New("wrong property type")
)

// Editor runs page operations against one workspace.
type Editor struct {
	api    notion.API
	logger *slog.Logger
}

// New returns an Editor. A nil logger discards output.
func New(api notion.API, logger *slog.Logger) *Editor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Editor{api: api, logger: logger}
}

// ArchiveReport lists the pages archived.
type ArchiveReport struct {
	Archived []string `json:"archived"`
}

// ArchiveAll archives every page of the database.
func (e *Editor) ArchiveAll(ctx context.Context, databaseID string) (*ArchiveReport, error) {
	if err := validation.Validate(databaseID, validation.Required); err != nil {
		return nil, fmt.Errorf("invalid arguments: database: %w", err)
	}

	pages, err := notion.QueryAll(ctx, e.api, databaseID, nil)
	if err != nil {
		return nil, err
	}

	report := &ArchiveReport{Archived: []string{}}
	for _, p := range pages {
		if _, err := e.api.UpdatePage(ctx, p.ID, &notion.UpdatePageRequest{Archived: notion.Bool(true)}); err != nil {
			return report, fmt.Errorf("archive page %s: %w", p.ID, err)
		}
		e.logger.Info("archived page", "page", p.ID)
		report.Archived = append(report.Archived, p.ID)
	}
	return report, nil
}

// TitleIndex maps the plain-text title of every page in the database to its
// page ID. When titles repeat, the first page in query order wins.
func TitleIndex(ctx context.Context, q notion.Querier, databaseID string) (map[string]string, error) {
	pages, err := notion.QueryAll(ctx, q, databaseID, nil)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(pages))
	for _, p := range pages {
		title := p.Title()
		if _, seen := index[title]; seen {
			continue
		}
		index[title] = p.ID
	}
	return index, nil
}

func property(db *notion.Database, name string, want notion.PropertyType) (notion.PropertyConfig, error) {
	cfg, ok := db.Properties[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on database %s", ErrPropertyNotFound, name, db.ID)
	}
	if cfg.Type() != want {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrWrongPropertyType, name, cfg.Type(), want)
	}
	return cfg, nil
}
