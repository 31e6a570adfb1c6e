package notion

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrObjectNotFound is matched by API errors for missing or unshared objects.
	ErrObjectNotFound = errors.New("object not found")

	// ErrUnauthorized is matched by API errors for a rejected token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoTitleProperty means a database schema has no title property.
	ErrNoTitleProperty = errors.New("database has no title property")

	// ErrInvalidID means an input could not be parsed as a Notion ID.
	ErrInvalidID = errors.New("invalid notion id")
)

// APIError is the error object returned by the Notion API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("notion api: %s: %s", e.Code, e.Message)
}

// Is allows errors.Is to match the sentinel errors above.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrObjectNotFound:
		return e.Status == http.StatusNotFound || e.Code == "object_not_found"
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Code == "unauthorized"
	}
	return false
}
