// Package client calls the shared list API and turns its envelopes into
// domain values and typed errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dejobratic/sharedorders/internal/orders/domain"
	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

const (
	defaultPath    = "/api/shared-data"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	endpoint   string
	httpClient *http.Client
}

type Option func(*options)

type options struct {
	path       string
	httpClient *http.Client
	timeout    time.Duration
}

// WithPath overrides the resource path appended to the base URL.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithHTTPClient replaces the traced default client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTimeout bounds every round trip of the default client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	o := options{path: defaultPath, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   o.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(o.path, "/"),
		httpClient: httpClient,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// FetchOrders returns the list without soft-deleted items.
func (c *Client) FetchOrders(ctx context.Context) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	if err := c.do(ctx, http.MethodGet, nil, &items); err != nil {
		return nil, err
	}
	return domain.Visible(items), nil
}

func (c *Client) CreateOrder(ctx context.Context, input domain.NewOrder) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := c.do(ctx, http.MethodPost, input, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateOrder(ctx context.Context, patch domain.Patch) (*domain.OrderItem, error) {
	var item domain.OrderItem
	if err := c.do(ctx, http.MethodPatch, patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) CompleteOrder(ctx context.Context, id string) (*domain.OrderItem, error) {
	completed := true
	return c.UpdateOrder(ctx, domain.Patch{ID: id, Completed: &completed})
}

// DeleteOrder flags the item deleted. The item stays in the stored list.
func (c *Client) DeleteOrder(ctx context.Context, id string) (*domain.OrderItem, error) {
	deleted := true
	return c.UpdateOrder(ctx, domain.Patch{ID: id, IsDeleted: &deleted})
}

func (c *Client) do(ctx context.Context, method string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ports.ErrUnavailable, method, c.endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ports.ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		status := resp.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
