package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/ntn/internal/choices"
	"github.com/aidanlsb/ntn/internal/config"
	"github.com/aidanlsb/ntn/internal/dbcopy"
	"github.com/aidanlsb/ntn/internal/notion"
	"github.com/aidanlsb/ntn/internal/pages"
	"github.com/aidanlsb/ntn/internal/ui"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Setup errors
	ErrTokenMissing  = "TOKEN_MISSING"
	ErrConfigInvalid = "CONFIG_INVALID"
	ErrInvalidID     = "INVALID_ID"
	ErrUnauthorized  = "UNAUTHORIZED"

	// Lookup errors
	ErrObjectNotFound   = "OBJECT_NOT_FOUND"
	ErrPropertyNotFound = "PROPERTY_NOT_FOUND"
	ErrWrongType        = "WRONG_PROPERTY_TYPE"
	ErrOptionNotFound   = "OPTION_NOT_FOUND"
	ErrUnknownTitle     = "UNKNOWN_TITLE"
	ErrNoTitleProperty  = "NO_TITLE_PROPERTY"

	// Batch errors
	ErrAmbiguousMatch     = "AMBIGUOUS_MATCH"
	ErrTypeMismatch       = "TYPE_MISMATCH"
	ErrPropertyNotCreated = "PROPERTY_NOT_CREATED"
	ErrUnsupportedContent = "UNSUPPORTED_CONTENT"
	ErrConfirmationDenied = "CANCELLED"
	ErrValidationFailed   = "VALIDATION_FAILED"
	ErrInvalidInput       = "INVALID_INPUT"
	ErrAPI                = "API_ERROR"
	ErrInterrupted        = "INTERRUPTED"
	ErrCommandFailed      = "COMMAND_FAILED"
)

// Warning codes for non-fatal issues.
const (
	WarnOptionNotDefined = "OPTION_NOT_DEFINED"
	WarnPropertySkipped  = "PROPERTY_SKIPPED"
)

var (
	errConfigInvalid = errors.New("invalid config")
	errInvalidInput  = errors.New("invalid input")
	errCancelled     = errors.New("cancelled")
)

// errorCodes maps sentinel errors to codes. Order matters: the first match
// wins, so specific sentinels precede the generic API ones.
var errorCodes = []struct {
	err        error
	code       string
	suggestion string
}{
	{config.ErrTokenMissing, ErrTokenMissing, "Set NOTION_TOKEN, pass --token, or run 'ntn config set token <secret>'"},
	{errConfigInvalid, ErrConfigInvalid, "Fix the file or run 'ntn config show' to see which one is loaded"},
	{errInvalidInput, ErrInvalidInput, "Run the command with --help for usage"},
	{errCancelled, ErrConfirmationDenied, ""},
	{notion.ErrInvalidID, ErrInvalidID, "Pass a database ID, a Notion URL, or an alias from [databases] in config.toml"},
	{dbcopy.ErrSourceNotFound, ErrObjectNotFound, "Check the ID and share the database with your integration"},
	{dbcopy.ErrTargetNotFound, ErrObjectNotFound, "Check the ID and share the database with your integration"},
	{choices.ErrPropertyNotFound, ErrPropertyNotFound, "Run 'ntn describe-db <database>' to list properties"},
	{pages.ErrPropertyNotFound, ErrPropertyNotFound, "Run 'ntn describe-db <database>' to list properties"},
	{choices.ErrWrongPropertyType, ErrWrongType, "Run 'ntn describe-db <database>' to check property types"},
	{pages.ErrWrongPropertyType, ErrWrongType, "Run 'ntn describe-db <database>' to check property types"},
	{choices.ErrOptionNotFound, ErrOptionNotFound, "Run 'ntn describe-db <database>' to list options"},
	{choices.ErrAmbiguousMatch, ErrAmbiguousMatch, "Move the options one at a time or clean up the listed pages first"},
	{pages.ErrUnknownTitle, ErrUnknownTitle, "Run 'ntn create-pages-for-multiselect' first to create the missing pages"},
	{notion.ErrNoTitleProperty, ErrNoTitleProperty, ""},
	{dbcopy.ErrTypeMismatch, ErrTypeMismatch, "Rename or retype the property on one of the databases"},
	{dbcopy.ErrPropertyNotCreated, ErrPropertyNotCreated, ""},
	{dbcopy.ErrTooManyBlocks, ErrUnsupportedContent, "Use --skip-content to copy properties only"},
	{dbcopy.ErrHostedFile, ErrUnsupportedContent, "Use --skip-content when only page blocks hold uploads; clear uploaded files from files properties first"},
	{dbcopy.ErrUnsupportedBlock, ErrUnsupportedContent, "Use --skip-content to copy properties only"},
	{notion.ErrUnauthorized, ErrUnauthorized, "Check the integration token"},
	{notion.ErrObjectNotFound, ErrObjectNotFound, "Check the ID and share the database with your integration"},
	{context.Canceled, ErrInterrupted, ""},
}

// classifyError returns the stable code, a suggestion and optional details
// for err.
func classifyError(err error) (code, suggestion string, details any) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code, ec.suggestion, nil
		}
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return ErrValidationFailed, "", validationDetails(verrs)
	}
	var verr validation.Error
	if errors.As(err, &verr) {
		return ErrValidationFailed, "", nil
	}

	var apiErr *notion.APIError
	if errors.As(err, &apiErr) {
		return ErrAPI, "", map[string]any{"status": apiErr.Status, "code": apiErr.Code}
	}

	return ErrCommandFailed, "", nil
}

func validationDetails(verrs validation.Errors) map[string]string {
	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field] = verrs[field].Error()
	}
	return out
}

// reportError prints err for the user: a JSON envelope on stdout with
// --json, otherwise "✗ message" and a hint on stderr.
func reportError(cmd *cobra.Command, err error) {
	code, suggestion, details := classifyError(err)
	if isJSONOutput() {
		outputError(cmd.OutOrStdout(), code, err.Error(), details, suggestion)
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Error(err.Error()))
	if suggestion != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "  "+ui.Hint(suggestion))
	}
}
