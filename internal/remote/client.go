// Package remote is the JSON-over-HTTP client used for every backend the app
// reads from. Requests are rate limited per client and retried on 429/5xx.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrUnauthorized is returned for HTTP 401. Callers show "login required".
var ErrUnauthorized = errors.New("remote: unauthorized")

// StatusError is returned for non-retryable or exhausted non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.StatusCode, e.Body)
}

// maxBody caps how much of a response is read.
const maxBody = 10 << 20

// Options configures a Client.
type Options struct {
	BaseURL       string
	Token         string
	Timeout       time.Duration
	RatePerSecond float64
	UserAgent     string
}

// Client talks to one backend host.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	backoffs  []time.Duration
}

// New creates a Client. Zero options fall back to a 30s timeout and
// 4 requests per second.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	rps := opts.RatePerSecond
	if rps <= 0 {
		rps = 4
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "tourfeed/1.0"
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		token:     opts.Token,
		userAgent: ua,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		backoffs:  []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// BaseURL returns the host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON issues GET baseURL+path?query and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.doWithRetry(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

// PostJSON sends in as a JSON body to baseURL+path?query and decodes the
// response into out. A nil out discards the response.
func (c *Client) PostJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("remote: encode %s: %w", path, err)
	}
	body, err := c.doWithRetry(ctx, http.MethodPost, c.endpoint(path, query), payload)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// doWithRetry retries up to len(backoffs) times on 429 and 5xx.
// On 429 a Retry-After header in seconds overrides the backoff, capped at 30s.
// A non-nil payload is sent as the JSON body of every attempt.
func (c *Client) doWithRetry(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= len(c.backoffs); attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("remote: rate limiter wait failed: %w", err)
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, fmt.Errorf("remote: failed to create request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("remote: request cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("remote: request failed: %w", err)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("remote: failed to read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}

		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable {
			return nil, statusErr
		}
		lastErr = statusErr

		if attempt < len(c.backoffs) {
			delay := c.backoffs[attempt]
			if resp.StatusCode == http.StatusTooManyRequests {
				if seconds, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && seconds > 0 {
					delay = min(time.Duration(seconds)*time.Second, 30*time.Second)
				}
			}

			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("remote: request cancelled during retry: %w", ctx.Err())
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("remote: all retries exhausted: %w", lastErr)
}
