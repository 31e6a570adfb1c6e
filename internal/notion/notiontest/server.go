// Package notiontest provides an in-memory implementation of notion.API for
// tests. It keeps databases, pages and block children in memory, paginates
// query results, evaluates filters, and records every call.
package notiontest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aidanlsb/ntn/internal/notion"
)

// Call records one API invocation.
type Call struct {
	Method string
	ID     string
}

// Server is a fake Notion workspace.
type Server struct {
	// PageSize is the number of results per query page. Defaults to 100.
	PageSize int

	// Fail makes the named method return the error instead of running.
	Fail map[string]error

	mu        sync.Mutex
	databases map[string]*notion.Database
	pages     []*notion.Page
	blocks    map[string][]notion.Block
	calls     []Call
	nextID    int
}

var _ notion.API = (*Server)(nil)

// New returns an empty workspace.
func New() *Server {
	return &Server{
		databases: make(map[string]*notion.Database),
		blocks:    make(map[string][]notion.Block),
		Fail:      make(map[string]error),
	}
}

func (s *Server) newID(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

func (s *Server) record(method, id string) error {
	s.calls = append(s.calls, Call{Method: method, ID: id})
	if err := s.Fail[method]; err != nil {
		return err
	}
	return nil
}

func notFound(kind, id string) error {
	return &notion.APIError{
		Status:  http.StatusNotFound,
		Code:    "object_not_found",
		Message: fmt.Sprintf("Could not find %s with ID: %s.", kind, id),
	}
}

func validationError(format string, args ...any) error {
	return &notion.APIError{
		Status:  http.StatusBadRequest,
		Code:    "validation_error",
		Message: fmt.Sprintf(format, args...),
	}
}

// AddDatabase stores a database. Options without an ID get one.
func (s *Server) AddDatabase(db *notion.Database) *notion.Database {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneDatabase(db)
	if stored.ID == "" {
		stored.ID = s.newID("db")
	}
	if stored.Properties == nil {
		stored.Properties = notion.PropertyConfigs{}
	}
	for name, cfg := range stored.Properties {
		stored.Properties[name] = s.assignOptionIDs(cfg, nil)
	}
	s.databases[stored.ID] = stored
	return cloneDatabase(stored)
}

// AddPage stores a page in a database and returns a copy of it.
func (s *Server) AddPage(databaseID string, props notion.PropertyValues) *notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	page := &notion.Page{
		ID:         s.newID("page"),
		Parent:     notion.DatabaseParent(databaseID),
		Properties: cloneValues(props),
	}
	if db, ok := s.databases[databaseID]; ok {
		s.linkOptions(db, page.Properties)
	}
	s.pages = append(s.pages, page)
	return clonePage(page)
}

// SetBlocks replaces the direct children of a page or block.
func (s *Server) SetBlocks(parentID string, blocks []notion.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[parentID] = append([]notion.Block(nil), blocks...)
}

// Database returns a copy of a stored database.
func (s *Server) Database(id string) *notion.Database {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.databases[id]
	if !ok {
		return nil
	}
	return cloneDatabase(db)
}

// Page returns a copy of a stored page, archived or not.
func (s *Server) Page(id string) *notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.ID == id {
			return clonePage(p)
		}
	}
	return nil
}

// Pages returns copies of the non-archived pages of a database, in creation order.
func (s *Server) Pages(databaseID string) []*notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notion.Page
	for _, p := range s.pages {
		if p.Parent.DatabaseID == databaseID && !p.Archived {
			out = append(out, clonePage(p))
		}
	}
	return out
}

// Blocks returns the direct children of a page or block.
func (s *Server) Blocks(parentID string) []notion.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notion.Block(nil), s.blocks[parentID]...)
}

// Calls returns the recorded calls.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many times method was called.
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Mutations returns how many calls changed remote state.
func (s *Server) Mutations() int {
	return s.CallCount("UpdateDatabase") + s.CallCount("CreatePage") +
		s.CallCount("UpdatePage") + s.CallCount("AppendBlockChildren")
}

// ResetCalls clears the call log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *Server) RetrieveDatabase(ctx context.Context, databaseID string) (*notion.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("RetrieveDatabase", databaseID); err != nil {
		return nil, err
	}
	db, ok := s.databases[databaseID]
	if !ok {
		return nil, notFound("database", databaseID)
	}
	return cloneDatabase(db), nil
}

func (s *Server) QueryDatabase(ctx context.Context, databaseID string, req *notion.QueryRequest) (*notion.QueryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("QueryDatabase", databaseID); err != nil {
		return nil, err
	}
	if _, ok := s.databases[databaseID]; !ok {
		return nil, notFound("database", databaseID)
	}
	if req == nil {
		req = &notion.QueryRequest{}
	}

	var matches []*notion.Page
	for _, p := range s.pages {
		if p.Parent.DatabaseID != databaseID || p.Archived {
			continue
		}
		if req.Filter != nil && !Matches(req.Filter, p) {
			continue
		}
		matches = append(matches, p)
	}

	start := 0
	if req.StartCursor != "" {
		n, err := strconv.Atoi(req.StartCursor)
		if err != nil || n < 0 || n > len(matches) {
			return nil, validationError("start_cursor %q is invalid", req.StartCursor)
		}
		start = n
	}
	size := s.PageSize
	if req.PageSize > 0 && (size <= 0 || req.PageSize < size) {
		size = req.PageSize
	}
	if size <= 0 {
		size = 100
	}
	end := start + size
	if end > len(matches) {
		end = len(matches)
	}

	res := &notion.QueryResponse{}
	for _, p := range matches[start:end] {
		res.Results = append(res.Results, *clonePage(p))
	}
	if end < len(matches) {
		next := strconv.Itoa(end)
		res.HasMore = true
		res.NextCursor = &next
	}
	return res, nil
}

func (s *Server) UpdateDatabase(ctx context.Context, databaseID string, req *notion.UpdateDatabaseRequest) (*notion.Database, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateDatabase", databaseID); err != nil {
		return nil, err
	}
	db, ok := s.databases[databaseID]
	if !ok {
		return nil, notFound("database", databaseID)
	}

	for name, cfg := range req.Properties {
		existing, exists := db.Properties[name]
		if cfg == nil {
			delete(db.Properties, name)
			continue
		}
		if exists && existing.Type() != cfg.Type() {
			return nil, validationError("property %s cannot change type from %s to %s", name, existing.Type(), cfg.Type())
		}
		updated := s.assignOptionIDs(cloneConfig(cfg), existing)
		db.Properties[name] = updated

		if newOptions, ok := notion.ChoiceOptions(updated); ok && exists {
			s.dropRemovedOptions(databaseID, name, newOptions)
		}
	}
	return cloneDatabase(db), nil
}

func (s *Server) CreatePage(ctx context.Context, req *notion.CreatePageRequest) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreatePage", req.Parent.DatabaseID); err != nil {
		return nil, err
	}
	db, ok := s.databases[req.Parent.DatabaseID]
	if !ok {
		return nil, notFound("database", req.Parent.DatabaseID)
	}
	if err := checkValues(db, req.Properties); err != nil {
		return nil, err
	}

	page := &notion.Page{
		ID:         s.newID("page"),
		Parent:     notion.DatabaseParent(db.ID),
		Properties: cloneValues(req.Properties),
	}
	s.linkOptions(db, page.Properties)
	s.pages = append(s.pages, page)
	for _, raw := range req.Children {
		var b notion.Block
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, validationError("invalid child block: %v", err)
		}
		b.ID = s.newID("block")
		s.blocks[page.ID] = append(s.blocks[page.ID], b)
	}
	return clonePage(page), nil
}

func (s *Server) UpdatePage(ctx context.Context, pageID string, req *notion.UpdatePageRequest) (*notion.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdatePage", pageID); err != nil {
		return nil, err
	}
	var page *notion.Page
	for _, p := range s.pages {
		if p.ID == pageID {
			page = p
			break
		}
	}
	if page == nil {
		return nil, notFound("page", pageID)
	}
	db := s.databases[page.Parent.DatabaseID]
	if db != nil {
		if err := checkValues(db, req.Properties); err != nil {
			return nil, err
		}
	}

	updated := cloneValues(req.Properties)
	if db != nil {
		s.linkOptions(db, updated)
	}
	for name, v := range updated {
		page.Properties[name] = v
	}
	if req.Archived != nil {
		page.Archived = *req.Archived
	}
	return clonePage(page), nil
}

func (s *Server) ListBlockChildren(ctx context.Context, blockID string, req *notion.ListBlockChildrenRequest) (*notion.BlockList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListBlockChildren", blockID); err != nil {
		return nil, err
	}
	children := s.blocks[blockID]

	start := 0
	if req != nil && req.StartCursor != "" {
		n, err := strconv.Atoi(req.StartCursor)
		if err != nil || n < 0 || n > len(children) {
			return nil, validationError("start_cursor %q is invalid", req.StartCursor)
		}
		start = n
	}
	size := notion.MaxBlockPageSize
	if req != nil && req.PageSize > 0 && req.PageSize < size {
		size = req.PageSize
	}
	end := start + size
	if end > len(children) {
		end = len(children)
	}

	list := &notion.BlockList{Results: append([]notion.Block(nil), children[start:end]...)}
	if end < len(children) {
		next := strconv.Itoa(end)
		list.HasMore = true
		list.NextCursor = &next
	}
	return list, nil
}

func (s *Server) AppendBlockChildren(ctx context.Context, blockID string, children []json.RawMessage) (*notion.BlockList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AppendBlockChildren", blockID); err != nil {
		return nil, err
	}
	if len(children) > notion.MaxBlockPageSize {
		return nil, validationError("body.children.length should be ≤ %d", notion.MaxBlockPageSize)
	}

	list := &notion.BlockList{}
	for _, raw := range children {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, validationError("invalid child block: %v", err)
		}
		if _, hasID := fields["id"]; hasID {
			return nil, validationError("body.children[].id should not be present")
		}
		var b notion.Block
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, validationError("invalid child block: %v", err)
		}
		b.ID = s.newID("block")
		s.blocks[blockID] = append(s.blocks[blockID], b)
		list.Results = append(list.Results, b)
	}
	return list, nil
}

// checkValues rejects values for unknown properties, values whose kind does
// not match the schema, and read-only kinds.
func checkValues(db *notion.Database, values notion.PropertyValues) error {
	for name, v := range values {
		cfg, ok := db.Properties[name]
		if !ok {
			return validationError("%s is not a property that exists.", name)
		}
		if v == nil {
			continue
		}
		if cfg.Type() != v.Type() {
			return validationError("%s is expected to be %s.", name, cfg.Type())
		}
		if v.Type().ReadOnly() {
			return validationError("%s is a read-only property.", name)
		}
	}
	return nil
}

// assignOptionIDs gives every option without an ID the ID of the same-named
// option in previous, or a fresh one.
func (s *Server) assignOptionIDs(cfg notion.PropertyConfig, previous notion.PropertyConfig) notion.PropertyConfig {
	options, ok := notion.ChoiceOptions(cfg)
	if !ok {
		return cfg
	}
	var prior []notion.Option
	if previous != nil {
		prior, _ = notion.ChoiceOptions(previous)
	}
	out := make([]notion.Option, len(options))
	for i, o := range options {
		if o.ID == "" {
			if p, found := notion.FindOption(prior, o.Name); found {
				o.ID = p.ID
				if o.Color == "" {
					o.Color = p.Color
				}
			} else {
				o.ID = s.newID("opt")
			}
		}
		if o.Color == "" {
			o.Color = "default"
		}
		out[i] = o
	}
	updated, _ := notion.WithOptions(cfg, out)
	return updated
}

// linkOptions resolves option values by name against the schema, creating
// options the schema does not have yet, the way Notion does.
func (s *Server) linkOptions(db *notion.Database, values notion.PropertyValues) {
	for name, v := range values {
		cfg, ok := db.Properties[name]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case *notion.SelectValue:
			if val.Option != nil {
				linked := s.linkOption(db, name, cfg, *val.Option)
				val.Option = &linked
			}
		case *notion.MultiSelectValue:
			for i, o := range val.Options {
				val.Options[i] = s.linkOption(db, name, cfg, o)
			}
		}
	}
}

func (s *Server) linkOption(db *notion.Database, property string, cfg notion.PropertyConfig, o notion.Option) notion.Option {
	options, _ := notion.ChoiceOptions(cfg)
	if existing, ok := notion.FindOption(options, o.Name); ok {
		return existing
	}
	created := notion.Option{ID: s.newID("opt"), Name: o.Name, Color: "default"}
	updated, err := notion.WithOptions(cfg, append(append([]notion.Option(nil), options...), created))
	if err == nil {
		db.Properties[property] = updated
	}
	return created
}

// dropRemovedOptions clears options deleted from a schema out of page values.
func (s *Server) dropRemovedOptions(databaseID, property string, remaining []notion.Option) {
	for _, p := range s.pages {
		if p.Parent.DatabaseID != databaseID {
			continue
		}
		switch val := p.Properties[property].(type) {
		case *notion.SelectValue:
			if val.Option != nil {
				if _, ok := notion.FindOption(remaining, val.Option.Name); !ok {
					val.Option = nil
				}
			}
		case *notion.MultiSelectValue:
			kept := val.Options[:0]
			for _, o := range val.Options {
				if _, ok := notion.FindOption(remaining, o.Name); ok {
					kept = append(kept, o)
				}
			}
			val.Options = kept
		}
	}
}

// Matches evaluates a filter against a page the way the API would.
func Matches(f *notion.Filter, p *notion.Page) bool {
	if len(f.Or) > 0 {
		for i := range f.Or {
			if Matches(&f.Or[i], p) {
				return true
			}
		}
		return false
	}
	if len(f.And) > 0 {
		for i := range f.And {
			if !Matches(&f.And[i], p) {
				return false
			}
		}
		return true
	}

	value := p.Properties[f.Property]
	switch {
	case f.Select != nil:
		sel, _ := value.(*notion.SelectValue)
		name := ""
		if sel != nil {
			name = sel.Name()
		}
		return matchOptionCondition(f.Select, nameList(name))
	case f.MultiSelect != nil:
		var names []string
		if ms, ok := value.(*notion.MultiSelectValue); ok {
			names = ms.Names()
		}
		return matchOptionCondition(f.MultiSelect, names)
	case f.Title != nil:
		title := ""
		if t, ok := value.(*notion.TitleValue); ok {
			title = notion.PlainText(t.RichText)
		}
		if f.Title.Equals != "" {
			return title == f.Title.Equals
		}
		return strings.Contains(title, f.Title.Contains)
	}
	return true
}

func nameList(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

func matchOptionCondition(c *notion.OptionCondition, names []string) bool {
	switch {
	case c.IsEmpty:
		return len(names) == 0
	case c.IsNotEmpty:
		return len(names) > 0
	case c.Equals != "":
		return len(names) == 1 && names[0] == c.Equals
	case c.Contains != "":
		for _, n := range names {
			if n == c.Contains {
				return true
			}
		}
	}
	return false
}
