package notion

import (
	"context"
	"encoding/json"
)

// API is the set of Notion operations ntn consumes. *Client implements it
// over HTTP; tests use notiontest.Server.
type API interface {
	Querier

	RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error)
	UpdateDatabase(ctx context.Context, databaseID string, req *UpdateDatabaseRequest) (*Database, error)
	CreatePage(ctx context.Context, req *CreatePageRequest) (*Page, error)
	UpdatePage(ctx context.Context, pageID string, req *UpdatePageRequest) (*Page, error)
	ListBlockChildren(ctx context.Context, blockID string, req *ListBlockChildrenRequest) (*BlockList, error)
	AppendBlockChildren(ctx context.Context, blockID string, children []json.RawMessage) (*BlockList, error)
}

// Querier runs one page of a database query.
type Querier interface {
	QueryDatabase(ctx context.Context, databaseID string, req *QueryRequest) (*QueryResponse, error)
}

// QueryRequest is the body of a database query.
type QueryRequest struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// QueryResponse is one page of query results.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// UpdateDatabaseRequest changes a database schema. A property mapped to nil
// is removed from the schema.
type UpdateDatabaseRequest struct {
	Properties map[string]PropertyConfig `json:"properties"`
}

// CreatePageRequest creates a page under Parent.
type CreatePageRequest struct {
	Parent     Parent            `json:"parent"`
	Properties PropertyValues    `json:"properties"`
	Children   []json.RawMessage `json:"children,omitempty"`
}

// UpdatePageRequest changes page properties and/or the archived flag.
type UpdatePageRequest struct {
	Properties PropertyValues `json:"properties,omitempty"`
	Archived   *bool          `json:"archived,omitempty"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
