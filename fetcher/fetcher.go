package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// HTTPError is returned when the server answers with a non-success status.
// Callers treat it like any other fetch failure, but the status code stays
// available for diagnostics.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (URL: %s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// IsHTTPError reports whether err is an HTTPError and returns it if so
func IsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// Client is a rate-limited HTTP client for fetching pages from the site.
// Each fetch is a single attempt: failures are reported, never retried.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	log        *logrus.Logger
}

// NewClient creates a new fetch client. maxRequestsPerMinute spreads requests
// evenly over the minute; timeout bounds each request so a fetch can never
// hang indefinitely.
func NewClient(userAgent string, timeout time.Duration, maxRequestsPerMinute int, log *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRequestsPerMinute <= 0 {
		maxRequestsPerMinute = 30
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(maxRequestsPerMinute)), 1)

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		userAgent:  userAgent,
		log:        log,
	}
}

// Fetch issues a single GET request and returns the response body.
// Transport failures and non-2xx statuses both come back as errors;
// the body is only returned for successful responses.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait interrupted: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"size":     len(body),
		"duration": time.Since(start),
	}).Debug("Fetch complete")

	return string(body), nil
}
