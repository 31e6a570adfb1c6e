package notion

import (
	"encoding/json"
	"fmt"
)

// MaxBlockPageSize is the largest page of block children the API returns.
const MaxBlockPageSize = 100

// Block is a unit of page content. The full object is kept in Raw.
type Block struct {
	ID          string
	Type        string
	HasChildren bool
	Raw         json.RawMessage
}

// UnmarshalJSON keeps the complete block object alongside the fields above.
func (b *Block) UnmarshalJSON(data []byte) error {
	var head struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		HasChildren bool   `json:"has_children"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	b.ID = head.ID
	b.Type = head.Type
	b.HasChildren = head.HasChildren
	b.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the raw block object back out.
func (b Block) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return json.Marshal(map[string]any{"object": "block", "type": b.Type, b.Type: struct{}{}})
	}
	return b.Raw, nil
}

// hostedFileTypes are the block types whose body may point at a file stored
// by Notion itself.
var hostedFileTypes = map[string]bool{
	"image": true,
	"file":  true,
	"pdf":   true,
	"video": true,
	"audio": true,
}

// readOnlyBlockKeys are response-only keys rejected when appending a block.
var readOnlyBlockKeys = []string{
	"id", "parent", "created_time", "created_by", "last_edited_time",
	"last_edited_by", "has_children", "archived", "in_trash", "request_id",
}

// IsHostedFile reports whether the block embeds a Notion-hosted file. The API
// only exposes such files as expiring signed URLs, which it refuses when a
// block is created.
func (b Block) IsHostedFile() bool {
	if !hostedFileTypes[b.Type] {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Raw, &fields); err != nil {
		return false
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(fields[b.Type], &body); err != nil {
		return false
	}
	return body.Type == "file"
}

// CreationPayload returns the block with response-only keys removed, ready
// to be appended to another page.
func (b Block) CreationPayload() (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b.Raw, &fields); err != nil {
		return nil, fmt.Errorf("block %s: %w", b.ID, err)
	}
	for _, key := range readOnlyBlockKeys {
		delete(fields, key)
	}
	return json.Marshal(fields)
}

// BlockList is one page of block children.
type BlockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

// ListBlockChildrenRequest pages through block children.
type ListBlockChildrenRequest struct {
	StartCursor string
	PageSize    int
}
