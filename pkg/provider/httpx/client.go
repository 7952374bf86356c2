// Package httpx is the REST transport shared by provider adapters.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"meta-swap/pkg/provider"
)

// UserAgent is sent with every provider request
const UserAgent = "meta-swap/0.1"

// DefaultTimeout bounds a single provider call when none is configured
const DefaultTimeout = 30 * time.Second

// HTTPError is a provider response with status >= 400
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s - %s", e.StatusCode, e.Status, e.Body)
}

// Unwrap lets callers match provider.ErrProviderHTTP
func (e *HTTPError) Unwrap() error {
	return provider.ErrProviderHTTP
}

// Config configures a Client
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
	// RateLimit is the sustained requests per second, 0 disables limiting
	RateLimit float64
	Burst     int
	// HTTPClient overrides the tuned default client
	HTTPClient *http.Client
}

// Client issues JSON requests against one provider
type Client struct {
	rest    *resty.Client
	limiter *rate.Limiter
	headers map[string]string
}

// New creates a client for cfg
func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Transport: defaultTransport()}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	rest := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)
	for k, v := range cfg.Headers {
		if v != "" {
			rest.SetHeader(k, v)
		}
	}

	c := &Client{rest: rest}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

func defaultTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// WithHeader returns a client sending an extra header on each request.
// The transport and the rate limiter are shared with c.
func (c *Client) WithHeader(key, value string) *Client {
	headers := make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		headers[k] = v
	}
	if value != "" {
		headers[key] = value
	}
	return &Client{rest: c.rest, limiter: c.limiter, headers: headers}
}

// Get decodes the JSON answer of a GET into out. path may be absolute.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the answer into out
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	req := c.rest.R().SetContext(ctx).SetHeaders(c.headers)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() >= 400 {
		return &HTTPError{
			StatusCode: resp.StatusCode(),
			Status:     http.StatusText(resp.StatusCode()),
			Body:       string(resp.Body()),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", provider.ErrMalformedResponse, method, path, err)
	}
	return nil
}

// FromSettings builds a client config from provider settings
func FromSettings(s provider.Settings, defaultBaseURL string, headers map[string]string) Config {
	return Config{
		BaseURL:    s.BaseURLOr(defaultBaseURL),
		Timeout:    s.Timeout,
		Headers:    headers,
		RateLimit:  s.RateLimit,
		Burst:      s.Burst,
		HTTPClient: s.HTTPClient,
	}
}
