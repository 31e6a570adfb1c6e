package audit

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/aidanlsb/ntn/internal/notion"
)

// API wraps a notion.API and journals every mutating call, successful or not.
// Reads pass through untouched.
type API struct {
	notion.API
	log *Logger
}

// Wrap returns api unchanged when the logger is disabled.
func Wrap(api notion.API, log *Logger) notion.API {
	if !log.Enabled() {
		return api
	}
	return &API{API: api, log: log}
}

func (a *API) record(entry Entry, err error) {
	if err != nil {
		entry.Error = err.Error()
	}
	// A failed journal write must not hide the outcome of the API call.
	_ = a.log.Log(entry)
}

func (a *API) UpdateDatabase(ctx context.Context, databaseID string, req *notion.UpdateDatabaseRequest) (*notion.Database, error) {
	db, err := a.API.UpdateDatabase(ctx, databaseID, req)
	a.record(Entry{
		Operation:  "update_database",
		Entity:     "database",
		ID:         databaseID,
		Properties: configNames(req.Properties),
	}, err)
	return db, err
}

func (a *API) CreatePage(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error) {
	page, err := a.API.CreatePage(ctx, req)
	entry := Entry{
		Operation:  "create_page",
		Entity:     "page",
		Parent:     req.Parent.DatabaseID,
		Properties: valueNames(req.Properties),
		Count:      len(req.Children),
	}
	if page != nil {
		entry.ID = page.ID
	}
	a.record(entry, err)
	return page, err
}

func (a *API) UpdatePage(ctx context.Context, pageID string, req *notion.UpdatePageRequest) (*notion.Page, error) {
	page, err := a.API.UpdatePage(ctx, pageID, req)
	op := "update_page"
	if req.Archived != nil && *req.Archived {
		op = "archive_page"
	}
	a.record(Entry{
		Operation:  op,
		Entity:     "page",
		ID:         pageID,
		Properties: valueNames(req.Properties),
	}, err)
	return page, err
}

func (a *API) AppendBlockChildren(ctx context.Context, blockID string, children []json.RawMessage) (*notion.BlockList, error) {
	list, err := a.API.AppendBlockChildren(ctx, blockID, children)
	a.record(Entry{
		Operation: "append_blocks",
		Entity:    "block",
		ID:        blockID,
		Count:     len(children),
	}, err)
	return list, err
}

func configNames(props map[string]notion.PropertyConfig) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func valueNames(props notion.PropertyValues) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
