package notion

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var trailingHexID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// ParseID normalizes a Notion object reference to the dashed UUID form.
//
// Accepted inputs are a dashed UUID, 32 hex characters, or a notion.so URL
// whose last path segment ends in the 32-character ID.
func ParseID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidID)
	}

	if id, err := uuid.Parse(s); err == nil {
		return id.String(), nil
	}

	candidate := s
	if strings.Contains(s, "/") {
		if u, err := url.Parse(s); err == nil && u.Path != "" {
			candidate = u.Path
		}
		candidate = strings.TrimRight(candidate, "/")
		if i := strings.LastIndex(candidate, "/"); i >= 0 {
			candidate = candidate[i+1:]
		}
	}
	if i := strings.IndexAny(candidate, "?#"); i >= 0 {
		candidate = candidate[:i]
	}

	hex := trailingHexID.FindString(candidate)
	if hex == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	id, err := uuid.Parse(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidID, raw, err)
	}
	return id.String(), nil
}
