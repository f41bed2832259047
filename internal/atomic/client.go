// Package atomic is the HTTP client for the AtomicAssets-style chain API:
// collection lookup, schema and template listings, and the ledger's template
// creation action.
package atomic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nftfolio/templatepress/internal/models"
)

// Client talks to one chain's asset API.
type Client struct {
	BaseURL string
	client  *http.Client
}

// NewClient creates a new chain API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// SetTimeout sets the timeout for API requests.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// envelope is the standard response wrapper of the asset API.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return &NotFoundError{Path: path}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return fmt.Errorf("request to %s rejected: %s", path, env.Message)
	}

	return json.Unmarshal(env.Data, out)
}

// GetCollection returns a collection by name.
func (c *Client) GetCollection(ctx context.Context, collectionName string) (*models.Collection, error) {
	var collection models.Collection
	err := c.get(ctx, "/atomicassets/v1/collections/"+collectionName, nil, &collection)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// ListSchemas returns all schemas of a collection in declaration order.
func (c *Client) ListSchemas(ctx context.Context, collectionName string) ([]models.Schema, error) {
	query := url.Values{}
	query.Set("collection_name", collectionName)

	var schemas []models.Schema
	err := c.get(ctx, "/atomicassets/v1/schemas", query, &schemas)
	if err != nil {
		return nil, err
	}
	return schemas, nil
}

// ListTemplates returns a collection's templates newest-first.
func (c *Client) ListTemplates(ctx context.Context, collectionName string) ([]models.Template, error) {
	query := url.Values{}
	query.Set("collection_name", collectionName)
	query.Set("sort", "created")
	query.Set("order", "desc")

	var templates []models.Template
	err := c.get(ctx, "/atomicassets/v1/templates", query, &templates)
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// NotFoundError reports a missing resource on the asset API.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Path)
}
