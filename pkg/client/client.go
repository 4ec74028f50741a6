// Package client is a Go client for the admin API, used by the CLI and by
// operators scripting against the backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pawtrait-ai/backend/internal/api/dto"
	"github.com/pawtrait-ai/backend/internal/domain/analytics"
	"github.com/pawtrait-ai/backend/internal/domain/setting"
)

// Client talks to the backend API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new API client. apiKey may be empty for public endpoints.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the standard success wrapper around response data
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TrackingStatus fetches the public kill-switch status
func (c *Client) TrackingStatus(ctx context.Context) (*setting.TrackingStatus, error) {
	var status setting.TrackingStatus
	if err := c.getJSON(ctx, "/api/tracking-status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Settings fetches the admin settings
func (c *Client) Settings(ctx context.Context) (*dto.SettingsResponse, error) {
	var out dto.SettingsResponse
	if err := c.getEnvelope(ctx, "/api/admin/settings", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTracking flips the visitor tracking kill-switch
func (c *Client) SetTracking(ctx context.Context, enabled bool) (*dto.SettingsResponse, error) {
	body, _ := json.Marshal(map[string]bool{"visitorTrackingEnabled": enabled})
	var out dto.SettingsResponse
	if err := c.postEnvelope(ctx, "/api/admin/settings", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analytics fetches the analytics bundle for the trailing window
func (c *Client) Analytics(ctx context.Context, days int) (*analytics.Summary, error) {
	query := url.Values{}
	if days > 0 {
		query.Set("days", strconv.Itoa(days))
	}
	var out analytics.Summary
	if err := c.getEnvelope(ctx, "/api/admin/analytics", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VisitorListParams filters the visitor listing
type VisitorListParams struct {
	Page      int
	Limit     int
	Search    string
	Converted *bool
	Device    string
}

// Visitors fetches one page of the admin visitor listing
func (c *Client) Visitors(ctx context.Context, params VisitorListParams) (*dto.VisitorListResponse, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Converted != nil {
		query.Set("converted", strconv.FormatBool(*params.Converted))
	}
	if params.Device != "" {
		query.Set("device", params.Device)
	}

	var out dto.VisitorListResponse
	if err := c.getEnvelope(ctx, "/api/admin/visitors", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrderListParams filters the order listing
type OrderListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// Orders fetches one page of the admin order listing
func (c *Client) Orders(ctx context.Context, params OrderListParams) (*dto.OrderListResponse, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}

	var out dto.OrderListResponse
	if err := c.getEnvelope(ctx, "/api/admin/orders", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExportVisitors downloads the visitor CSV export
func (c *Client) ExportVisitors(ctx context.Context, search string) ([]byte, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}

	resp, err := c.do(ctx, http.MethodGet, "/api/admin/export-visitors", query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return c.httpClient.Do(req)
}

// getJSON decodes a bare (unwrapped) JSON response
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) getEnvelope(ctx context.Context, path string, query url.Values, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

func (c *Client) postEnvelope(ctx context.Context, path string, body []byte, out interface{}) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
