package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nftfolio/templatepress/internal/models"
)

// SubmissionState is the controller's lifecycle state.
type SubmissionState string

const (
	StateIdle        SubmissionState = "idle"
	StateSubmitting  SubmissionState = "submitting"
	StateSucceeded   SubmissionState = "succeeded"
	StateFailed      SubmissionState = "failed"
	StateRedirecting SubmissionState = "redirecting"
)

// ChainAPI is the ledger-side collaborator contract the controller depends
// on.
type ChainAPI interface {
	ListTemplates(ctx context.Context, collectionName string) ([]models.Template, error)
	CreateTemplate(ctx context.Context, request models.TemplateCreationRequest) (string, error)
}

// Config tunes the post-success redirect protocol.
type Config struct {
	// ConfirmDelay is how long the confirmation message stays visible before
	// the redirect target is reported. Purely a UX pause, not a wait for
	// ledger finality.
	ConfirmDelay time.Duration
	// PollInterval and PollRetries bound the listing polls that confirm the
	// new template is observable before redirecting.
	PollInterval time.Duration
	PollRetries  int
}

// DefaultConfig mirrors the historical 3 second confirmation pause.
func DefaultConfig() Config {
	return Config{
		ConfirmDelay: 3 * time.Second,
		PollInterval: time.Second,
		PollRetries:  5,
	}
}

// SubmissionResult is returned by a successful Submit. RefreshErr is set when
// the template was created but the listing lookup for the redirect target
// failed; the creation itself is irrevocable at that point.
type SubmissionResult struct {
	TransactionID string
	TemplateID    string
	RefreshErr    error
}

// Controller owns one operator session's attribute set and runs the
// submission pipeline: permission guard, payload uploads, immutable set
// build, ledger creation, post-success listing refresh. At most one
// submission is in flight at a time.
type Controller struct {
	chain    ChainAPI
	uploader *PayloadUploader
	validate *validator.Validate
	cfg      Config

	collection models.Collection
	account    string
	schemas    []models.Schema

	mu         sync.Mutex
	schemaName string
	attrs      []models.SchemaAttribute
	state      SubmissionState
}

// NewController opens a template session for account on the given collection.
// It rejects the session before any state exists when the account is not
// permitted or the collection has no schemas; the first schema is selected
// otherwise.
func NewController(chain ChainAPI, uploader *PayloadUploader, collection models.Collection, schemas []models.Schema, account string, cfg Config) (*Controller, error) {
	if !collection.IsAuthorized(account) {
		return nil, &PermissionDeniedError{Account: account, CollectionName: collection.Name}
	}
	if len(schemas) == 0 {
		return nil, ErrNoSchemaAvailable
	}

	c := &Controller{
		chain:      chain,
		uploader:   uploader,
		validate:   validator.New(),
		cfg:        cfg,
		collection: collection,
		account:    account,
		schemas:    schemas,
		state:      StateIdle,
	}
	attrs, err := SelectSchema(schemas, schemas[0].Name)
	if err != nil {
		return nil, err
	}
	c.schemaName = schemas[0].Name
	c.attrs = attrs
	return c, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SchemaName returns the currently selected schema.
func (c *Controller) SchemaName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.schemaName
}

// Attributes returns a copy of the current attribute set.
func (c *Controller) Attributes() []models.SchemaAttribute {
	c.mu.Lock()
	defer c.mu.Unlock()
	attrs := make([]models.SchemaAttribute, len(c.attrs))
	copy(attrs, c.attrs)
	return attrs
}

// SelectSchema switches the active schema, resetting every immutable flag and
// discarding entered values.
func (c *Controller) SelectSchema(schemaName string) ([]models.SchemaAttribute, error) {
	attrs, err := SelectSchema(c.schemas, schemaName)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.schemaName = schemaName
	c.attrs = attrs
	c.mu.Unlock()
	return attrs, nil
}

// SetImmutable flips one field's immutable flag and returns the fresh
// attribute set. An in-flight submission is unaffected: it operates on the
// snapshot taken when Submit was invoked.
func (c *Controller) SetImmutable(index int, immutable bool) ([]models.SchemaAttribute, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	attrs, err := SetImmutable(c.attrs, index, immutable)
	if err != nil {
		return nil, err
	}
	c.attrs = attrs
	return attrs, nil
}

// Submit runs one submission attempt to completion. A second call while one
// is in flight returns ErrSubmissionInFlight. Failures come back as a
// *SubmissionError; resubmission afterwards is always allowed.
func (c *Controller) Submit(ctx context.Context, snapshot models.FormSnapshot) (*SubmissionResult, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	c.state = StateSubmitting
	attrs := make([]models.SchemaAttribute, len(c.attrs))
	copy(attrs, c.attrs)
	c.mu.Unlock()

	result, err := c.run(ctx, attrs, snapshot)
	c.mu.Lock()
	if err != nil {
		c.state = StateFailed
	} else if result.TemplateID != "" {
		c.state = StateRedirecting
	} else {
		c.state = StateSucceeded
	}
	c.mu.Unlock()
	return result, err
}

func (c *Controller) run(ctx context.Context, attrs []models.SchemaAttribute, snapshot models.FormSnapshot) (*SubmissionResult, error) {
	if err := c.validate.Struct(snapshot); err != nil {
		return nil, newSubmissionError(fmt.Errorf("invalid form: %w", err))
	}

	uploads, err := c.uploader.UploadAll(ctx, attrs, snapshot)
	if err != nil {
		return nil, newSubmissionError(err)
	}

	immutable, err := BuildImmutableSet(attrs, snapshot, uploads)
	if err != nil {
		return nil, newSubmissionError(err)
	}

	request := models.TemplateCreationRequest{
		Creator:        c.account,
		CollectionName: c.collection.Name,
		SchemaName:     snapshot.SchemaName,
		Transferable:   snapshot.Transferable,
		Burnable:       snapshot.Burnable,
		MaxSupply:      snapshot.MaxSupply,
		ImmutableData:  immutable,
	}

	txID, err := c.chain.CreateTemplate(ctx, request)
	if err != nil {
		return nil, newSubmissionError(err)
	}

	// The template now exists; anything past this point must not be reported
	// as a creation failure.
	result := &SubmissionResult{TransactionID: txID}
	templateID, err := c.awaitNewestTemplate(ctx)
	if err != nil {
		result.RefreshErr = &RefreshFailedError{Cause: err}
		return result, nil
	}

	if c.cfg.ConfirmDelay > 0 {
		select {
		case <-time.After(c.cfg.ConfirmDelay):
		case <-ctx.Done():
		}
	}
	result.TemplateID = templateID
	return result, nil
}

// awaitNewestTemplate polls the collection's template listing until it
// returns at least one row, bounded by the configured retries. The listing
// is eventually consistent with the ledger, so the first poll may miss the
// fresh template.
func (c *Controller) awaitNewestTemplate(ctx context.Context) (string, error) {
	retries := c.cfg.PollRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.cfg.PollInterval):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		templates, err := c.chain.ListTemplates(ctx, c.collection.Name)
		if err != nil {
			lastErr = err
			continue
		}
		if len(templates) > 0 {
			return templates[0].TemplateID, nil
		}
		lastErr = errors.New("template listing is empty")
	}
	return "", lastErr
}

// newSubmissionError converts any pipeline failure into the single
// user-facing record. The message prefers a ledger rejection's first detail
// message; the raw cause always rides along serialized for diagnostics.
func newSubmissionError(cause error) *SubmissionError {
	subErr := &SubmissionError{
		Title:   "Error",
		Message: "Unable to create template",
		Cause:   cause,
	}

	var detailed interface{ DetailMessage() string }
	if errors.As(cause, &detailed) {
		if msg := detailed.DetailMessage(); msg != "" {
			subErr.Message = msg
		}
	} else {
		subErr.Message = cause.Error()
	}

	var raw interface{ RawPayload() string }
	if errors.As(cause, &raw) {
		subErr.Details = raw.RawPayload()
	} else if encoded, err := json.Marshal(map[string]string{"error": cause.Error()}); err == nil {
		subErr.Details = string(encoded)
	}
	return subErr
}
