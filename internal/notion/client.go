package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultVersion is the Notion-Version header sent with every request.
	DefaultVersion = "2022-06-28"

	// DefaultRequestsPerSecond matches Notion's documented average rate limit.
	DefaultRequestsPerSecond = 3.0
)

// Options configures a Client.
type Options struct {
	// Token is the integration secret. Required.
	Token string

	// BaseURL overrides DefaultBaseURL (used by tests).
	BaseURL string

	// Version overrides DefaultVersion.
	Version string

	// RequestsPerSecond paces outgoing requests. Zero means the default,
	// a negative value disables pacing.
	RequestsPerSecond float64

	// HTTPClient defaults to a client with a 60s timeout.
	HTTPClient *http.Client

	// Logger receives one debug record per request. Defaults to a discard logger.
	Logger *slog.Logger
}

// Client talks to the Notion REST API. Requests are issued one at a time by
// the caller and are never retried.
type Client struct {
	token   string
	baseURL string
	version string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var _ API = (*Client)(nil)

// NewClient builds a client for a single CLI invocation.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("notion token is required")
	}

	c := &Client{
		token:   strings.TrimSpace(opts.Token),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		version: opts.Version,
		http:    opts.HTTPClient,
		logger:  opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.version == "" {
		c.version = DefaultVersion
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 60 * time.Second}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rps := opts.RequestsPerSecond
	switch {
	case rps == 0:
		c.limiter = rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1)
	case rps < 0:
		c.limiter = rate.NewLimiter(rate.Inf, 1)
	default:
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}

	return c, nil
}

// RetrieveDatabase fetches a database and its schema.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// QueryDatabase fetches one page of matching pages.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req *QueryRequest) (*QueryResponse, error) {
	if req == nil {
		req = &QueryRequest{}
	}
	var res QueryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateDatabase changes a database schema and returns the updated database.
func (c *Client) UpdateDatabase(ctx context.Context, databaseID string, req *UpdateDatabaseRequest) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodPatch, "/databases/"+url.PathEscape(databaseID), req, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// CreatePage creates a page.
func (c *Client) CreatePage(ctx context.Context, req *CreatePageRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage changes page properties or archives it.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req *UpdatePageRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListBlockChildren fetches one page of a block's direct children.
func (c *Client) ListBlockChildren(ctx context.Context, blockID string, req *ListBlockChildrenRequest) (*BlockList, error) {
	q := url.Values{}
	if req != nil {
		if req.StartCursor != "" {
			q.Set("start_cursor", req.StartCursor)
		}
		if req.PageSize > 0 {
			q.Set("page_size", strconv.Itoa(req.PageSize))
		}
	}
	path := "/blocks/" + url.PathEscape(blockID) + "/children"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var list BlockList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// AppendBlockChildren appends blocks to the end of a block or page.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []json.RawMessage) (*BlockList, error) {
	body := map[string]any{"children": children}
	var list BlockList
	if err := c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID)+"/children", body, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("notion request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(data, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
