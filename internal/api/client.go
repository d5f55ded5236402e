package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/k1networth/civicdesk/internal/request"
)

const defaultTimeout = 15 * time.Second

// Client talks to the requests API. It implements request.Store: every call
// is a single round trip with retries disabled.
type Client struct {
	http    *resty.Client
	metrics *Metrics
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) List(ctx context.Context, q string) ([]request.ServiceRequest, error) {
	var out []request.ServiceRequest
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if q != "" {
		req.SetQueryParam("q", q)
	}
	resp, err := req.Get("/requests")
	if err := c.done("list", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, draft request.ServiceRequest) (request.ServiceRequest, error) {
	draft.ID = ""
	var out request.ServiceRequest
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(draft).
		SetResult(&out).
		Post("/requests")
	if err := c.done("create", resp, err); err != nil {
		return request.ServiceRequest{}, err
	}
	return out, nil
}

func (c *Client) Update(ctx context.Context, id string, draft request.ServiceRequest) (request.ServiceRequest, error) {
	var out request.ServiceRequest
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(draft).
		SetResult(&out).
		SetPathParam("id", id).
		Put("/requests/{id}")
	if err := c.done("update", resp, err); err != nil {
		return request.ServiceRequest{}, err
	}
	return out, nil
}

// Delete removes a record. A 404 counts as success: the record is already
// absent, which is what the caller asked for.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Delete("/requests/{id}")
	if err == nil && resp != nil && resp.StatusCode() == http.StatusNotFound {
		c.count("delete", "ok")
		return nil
	}
	return c.done("delete", resp, err)
}

func (c *Client) done(op string, resp *resty.Response, err error) error {
	if err != nil {
		c.count(op, "error")
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.IsError() {
		c.count(op, "error")
		return fmt.Errorf("%s %s: unexpected status %d", resp.Request.Method, resp.Request.URL, resp.StatusCode())
	}
	c.count(op, "ok")
	return nil
}

func (c *Client) count(op, outcome string) {
	if c.metrics != nil {
		c.metrics.opsTotal.WithLabelValues(op, outcome).Inc()
	}
}
