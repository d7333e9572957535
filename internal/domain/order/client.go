package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/printlab/printlab-engine/internal/pkg/validator"
)

const defaultTimeout = 30 * time.Second

// Client submits assembled orders to the print backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the backend at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Submit validates and posts the order. The payload is rejected locally
// before any bytes leave the machine.
func (c *Client) Submit(ctx context.Context, sub *Submission) (*Receipt, error) {
	if errs := validator.Validate(sub); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, errs)
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode order receipt: %w", err)
	}

	log.Info().
		Str("order_ref", sub.OrderRef).
		Str("order_id", receipt.OrderID).
		Int("items", len(sub.Items)).
		Msg("order submitted")
	return &receipt, nil
}
