package atomic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/nftfolio/templatepress/internal/models"
)

// ErrorDetail is one entry of a structured ledger rejection.
type ErrorDetail struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Method  string `json:"method,omitempty"`
}

// LedgerError is a structured rejection from the ledger. The raw payload is
// kept verbatim for diagnostics; Details may be empty when the node returned
// an unexpected shape.
type LedgerError struct {
	Code    int           `json:"code"`
	Name    string        `json:"name"`
	What    string        `json:"what"`
	Details []ErrorDetail `json:"details"`
	Raw     string        `json:"-"`
}

func (e *LedgerError) Error() string {
	if msg := e.DetailMessage(); msg != "" {
		return msg
	}
	if e.What != "" {
		return e.What
	}
	return "ledger rejected the transaction"
}

// DetailMessage extracts the first detail message, best-effort. Returns ""
// when the error payload did not carry the expected nested shape.
func (e *LedgerError) DetailMessage() string {
	if len(e.Details) > 0 {
		return e.Details[0].Message
	}
	return ""
}

// RawPayload returns the node's error body verbatim for diagnostics.
func (e *LedgerError) RawPayload() string { return e.Raw }

// ledgerErrorResponse is the node's error envelope.
type ledgerErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   struct {
		Code    int           `json:"code"`
		Name    string        `json:"name"`
		What    string        `json:"what"`
		Details []ErrorDetail `json:"details"`
	} `json:"error"`
}

// createTemplateResponse is returned on a successful creation push.
type createTemplateResponse struct {
	TransactionID string `json:"transaction_id"`
}

// CreateTemplate submits a template creation request to the ledger. The call
// is atomic: it either produces exactly one new template or none. Rejections
// surface as *LedgerError with the raw payload preserved.
func (c *Client) CreateTemplate(ctx context.Context, request models.TemplateCreationRequest) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to encode creation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chain/create_template", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ledger call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		// Decode the structured rejection best-effort; an unexpected shape
		// still yields a LedgerError carrying the raw body.
		var nodeErr ledgerErrorResponse
		ledgerErr := &LedgerError{Raw: string(body)}
		if err := json.Unmarshal(body, &nodeErr); err == nil {
			ledgerErr.Code = nodeErr.Error.Code
			ledgerErr.Name = nodeErr.Error.Name
			ledgerErr.What = nodeErr.Error.What
			ledgerErr.Details = nodeErr.Error.Details
		}
		return "", ledgerErr
	}

	var result createTemplateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode ledger response: %w", err)
	}
	return result.TransactionID, nil
}
