// internal/app/system/matcher/matcher.go

// Package matcher is the client for the external donor/camp matching
// service. The ranking algorithm lives in that service; this client only
// forwards validated payloads and relays responses. Calls carry a fixed
// timeout, past which the failure surfaces as an upstream error — no
// retries.
package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds every matcher call.
const DefaultTimeout = 5 * time.Second

// Client calls the matching service.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// New builds a Client for the matcher base URL.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     logger,
	}
}

// MatchDonors forwards a recipient payload to the matcher and returns the
// raw response document for relaying.
func (c *Client) MatchDonors(ctx context.Context, payload interface{}) (json.RawMessage, error) {
	return c.post(ctx, "/matchDonors", payload, "")
}

// MatchCamps forwards a camp search to the matcher, passing the caller's
// bearer token through.
func (c *Client) MatchCamps(ctx context.Context, payload interface{}, bearerToken string) (json.RawMessage, error) {
	return c.post(ctx, "/findNearbyCamps", payload, bearerToken)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, bearerToken string) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("matcher: encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("matcher: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Error("matcher call failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("matcher: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("matcher: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("matcher returned error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("matcher: service returned %d", resp.StatusCode)
	}
	return json.RawMessage(raw), nil
}
