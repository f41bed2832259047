// Package ipfs is the client for the content-addressed pinning service that
// stores binary attribute payloads before template creation.
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client uploads binary payloads to a pinning service and returns their
// content identifiers. Uploads are idempotent: identical content yields the
// same identifier.
type Client struct {
	BaseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a pinning client. apiKey may be empty for unauthenticated
// gateways.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// SetTimeout sets the timeout for upload requests.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// Upload pins one payload and returns its content identifier.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/pinning/pinFileToIPFS", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result pinResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.IpfsHash == "" {
		return "", fmt.Errorf("upload service returned an empty content identifier")
	}
	return result.IpfsHash, nil
}
