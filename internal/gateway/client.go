package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/unlatch-ai/poke-daddy/internal/dto"
)

// Client is a thin HTTP client over the server's admin surface. The
// gateway is the one caller the email-keyed admin endpoints exist for;
// when the server is configured with a shared admin token the client
// presents it on every call.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

func NewClient(baseURL, adminToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

func (c *Client) StatusByEmail(ctx context.Context, email string) (*dto.AdminStatusResponse, error) {
	var resp dto.AdminStatusResponse
	params := url.Values{"email": {email}}
	if err := c.call(ctx, http.MethodGet, "/admin/status-by-email", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UnblockApp(ctx context.Context, email, appBundleID string) (*dto.AdminUnblockResponse, error) {
	var resp dto.AdminUnblockResponse
	params := url.Values{"email": {email}, "app_bundle_id": {appBundleID}}
	if err := c.call(ctx, http.MethodPost, "/admin/unblock-app-by-email", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) EndBlocking(ctx context.Context, email string) (*dto.AdminEndBlockingResponse, error) {
	var resp dto.AdminEndBlockingResponse
	params := url.Values{"email": {email}}
	if err := c.call(ctx, http.MethodPost, "/admin/end-blocking-by-email", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) StartBlocking(ctx context.Context, email, profileID, profileName string) (*dto.AdminStartBlockingResponse, error) {
	params := url.Values{"email": {email}}
	if profileID != "" {
		params.Set("profile_id", profileID)
	}
	if profileName != "" {
		params.Set("profile_name", profileName)
	}

	var resp dto.AdminStartBlockingResponse
	if err := c.call(ctx, http.MethodPost, "/admin/start-blocking-by-email", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.adminToken != "" {
		req.Header.Set("X-Admin-Token", c.adminToken)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		var errResp dto.ErrorResponse
		if jerr := json.Unmarshal(body, &errResp); jerr == nil && errResp.Message != "" {
			return fmt.Errorf("server returned %d: %s", res.StatusCode, errResp.Message)
		}
		return fmt.Errorf("server returned %d", res.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
