// Package api is the HTTP collaborator of mindtool views: page fetching for the
// pager, tag tables, and the handful of mutations after which views reload.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client defaults.
const (
	DefaultHTTPTimeout = 60 * time.Second
	DefaultUserAgent   = "mindtool"

	// maxErrorBody caps how much of a failed response body is kept in errors.
	maxErrorBody = 512
)

// Common client errors.
var (
	ErrNetworkFailure     = errors.New("network failure")
	ErrInvalidBaseURL     = errors.New("invalid API base URL")
	ErrIncompatibleServer = errors.New("incompatible server version")
)

// StatusError is returned (wrapped in ErrNetworkFailure) for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	Timeout    time.Duration
	RateLimit  float64 // requests per second; 0 disables pacing
	Burst      int
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Metrics    *Metrics
}

// Client talks to the content server.
type Client struct {
	base      *url.URL
	token     string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	metrics   *Metrics
	logger    zerolog.Logger
}

// NewClient validates opts and returns a ready client.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := max(opts.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		base:      base,
		token:     opts.Token,
		userAgent: userAgent,
		http:      httpClient,
		limiter:   limiter,
		metrics:   metrics,
		logger:    opts.Logger.With().Str("component", "api").Logger(),
	}, nil
}

// Metrics returns the client's request metrics.
func (c *Client) Metrics() *Metrics {
	return c.metrics
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// getJSON issues a GET and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, endpoint, out)
}

// sendJSON issues a request with a JSON body and decodes the response into out when non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, endpoint string, out any) error {
	return c.do(ctx, method, path, nil, body, endpoint, out)
}

//nolint:funlen // Request building, pacing, metrics and decoding read best in one place.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body any,
	endpoint string,
	out any,
) error {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return fmt.Errorf("%w: bad path %q: %w", ErrNetworkFailure, path, err)
	}
	target := c.base.ResolveReference(ref)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("encoding request body: %w", marshalErr)
		}
		reader = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			c.metrics.observe(method, endpoint, outcomeError, 0)
			return fmt.Errorf("%w: %w", ErrNetworkFailure, waitErr)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrNetworkFailure, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(method, endpoint, outcomeError, elapsed)
		c.logger.Debug().
			Str("operation", "request").
			Str("method", method).
			Str("url", target.String()).
			Str("request_id", requestID).
			Err(err).
			Msg("request failed")
		return fmt.Errorf("%w: %s %s: %w", ErrNetworkFailure, method, target.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.observe(method, endpoint, outcomeStatus, elapsed)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		c.logger.Debug().
			Str("operation", "request").
			Str("method", method).
			Str("url", target.String()).
			Str("request_id", requestID).
			Int("status", resp.StatusCode).
			Msg("unexpected response status")
		return fmt.Errorf("%w: %s %s: %w", ErrNetworkFailure, method, target.Path, statusErr)
	}

	c.metrics.observe(method, endpoint, outcomeOK, elapsed)
	c.logger.Debug().
		Str("operation", "request").
		Str("method", method).
		Str("url", target.String()).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: decoding %s response: %w", ErrNetworkFailure, target.Path, err)
	}
	return nil
}
