package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wishboard/internal/app/board"
	"wishboard/internal/app/plan"

	"go.uber.org/zap"
)

// APIError is a non-2xx answer of the board API. Message carries the
// server's own reason when it sent one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Client talks to the board API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger.Sugar() }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		logger: zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Board returns the presentation settings the server runs with.
func (c *Client) Board(ctx context.Context) (*board.Settings, error) {
	var settings board.Settings
	if err := c.do(ctx, http.MethodGet, "/api/board", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Summary returns the per-status counts of a board.
func (c *Client) Summary(ctx context.Context, slug string) (*board.Summary, error) {
	var summary board.Summary
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+url.PathEscape(slug), nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// List returns every plan of the board, newest first.
func (c *Client) List(ctx context.Context, slug string) ([]*plan.Plan, error) {
	var resp plan.ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/boards/"+url.PathEscape(slug)+"/plans", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Plans == nil {
		resp.Plans = []*plan.Plan{}
	}
	return resp.Plans, nil
}

func (c *Client) Get(ctx context.Context, id string) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Create(ctx context.Context, slug string, values Values) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.do(ctx, http.MethodPost, "/api/boards/"+url.PathEscape(slug)+"/plans", values.Fields(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update overwrites every writable field of the plan with values.
func (c *Client) Update(ctx context.Context, id string, values Values) (*plan.Plan, error) {
	var p plan.Plan
	if err := c.do(ctx, http.MethodPut, "/api/plans/"+url.PathEscape(id), values.Fields(), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) SetStatus(ctx context.Context, id string, status plan.Status) (*plan.Plan, error) {
	var p plan.Plan
	body := plan.StatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/api/plans/"+url.PathEscape(id)+"/status", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload plan.ErrorResponse
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil {
			if json.Unmarshal(raw, &payload) == nil {
				apiErr.Message = payload.Error
			}
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
