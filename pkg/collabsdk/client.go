package collabsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a typed client for the CollabFlow service. The zero value
// is not usable; construct with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	accessToken string
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetAccessToken attaches a bearer token to every subsequent request.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// do performs a JSON request/response round trip. A nil body sends no
// payload; a nil out discards the response body. Non-2xx responses
// come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("collabsdk: encode request: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return fmt.Errorf("collabsdk: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("collabsdk: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("collabsdk: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseErrorResponse(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("collabsdk: decode response: %w", err)
	}
	return nil
}

// parseErrorResponse turns an error body into a typed APIError. Bodies
// that are not the expected shape still produce a usable error.
func parseErrorResponse(status int, raw []byte) error {
	var wire ErrorResponse
	if err := json.Unmarshal(raw, &wire); err != nil || wire.Error == "" {
		return &APIError{
			StatusCode:  status,
			Code:        CodeInternal,
			Description: strings.TrimSpace(string(raw)),
		}
	}
	return &APIError{
		StatusCode:  status,
		Code:        wire.Error,
		Description: wire.ErrorDescription,
	}
}
