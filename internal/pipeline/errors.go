package pipeline

import (
	"errors"
	"fmt"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission on the same controller has not finished. Concurrent submissions
// could mint duplicate templates.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrNoSchemaAvailable is returned when the collection has no schemas to
// build a template from. The operator must create a schema first.
var ErrNoSchemaAvailable = errors.New("collection has no schemas")

// PermissionDeniedError blocks entry before any state change: the acting
// account is neither the collection author nor an authorized account.
type PermissionDeniedError struct {
	Account        string
	CollectionName string
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("account %q is not allowed to create templates in collection %q", e.Account, e.CollectionName)
}

// SchemaNotFoundError reports a schema name that is not among the
// collection's known schemas.
type SchemaNotFoundError struct {
	SchemaName string
}

func (e *SchemaNotFoundError) Error() string {
	return fmt.Sprintf("schema %q not found", e.SchemaName)
}

// InvalidNumberError reports an unparsable numeric attribute value.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("field %q: invalid number %q", e.Field, e.Value)
}

// UploadError reports a failed payload upload. The first failure aborts the
// whole batch.
type UploadError struct {
	Field string
	Cause error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("field %q: upload failed: %v", e.Field, e.Cause)
}

func (e *UploadError) Unwrap() error { return e.Cause }

// CoercionError reports a failed wire-type coercion for one field. The whole
// immutable set build fails atomically.
type CoercionError struct {
	Field string
	Cause error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("field %q: coercion failed: %v", e.Field, e.Cause)
}

func (e *CoercionError) Unwrap() error { return e.Cause }

// RefreshFailedError reports that the post-creation template listing lookup
// failed. The template itself was created; only the redirect lookup is
// affected.
type RefreshFailedError struct {
	Cause error
}

func (e *RefreshFailedError) Error() string {
	return fmt.Sprintf("template was created but the listing refresh failed: %v", e.Cause)
}

func (e *RefreshFailedError) Unwrap() error { return e.Cause }

// SubmissionError is the single user-facing record every submission failure
// is converted into at the controller boundary. Details carries the
// serialized raw cause for the diagnostic disclosure panel.
type SubmissionError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Details string `json:"details"`
	Cause   error  `json:"-"`
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *SubmissionError) Unwrap() error { return e.Cause }
