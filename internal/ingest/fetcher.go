// Package ingest fetches NN/g article pages and exports them into the corpus
// markdown convention.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"nngkb/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Response body cap; article pages are small.
const maxBodyBytes = 4 << 20

// Fetcher performs polite, retried HTTP fetches of article pages.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	retryPolicy *config.RetryPolicy
	userAgent   string
}

// NewFetcher creates a fetcher from the ingest configuration.
func NewFetcher(cfg *config.IngestConfig) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Retry.GetTimeout(),
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		retryPolicy: &cfg.Retry,
		userAgent:   cfg.UserAgent,
	}
}

// Fetch retrieves the page body for a URL, honoring the rate limit and
// retrying transient failures with exponential backoff.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := f.retryPolicy.GetRetryDelay(attempt)

			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		body, statusCode, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

		if statusCode != 0 && !isRetryableStatus(statusCode) {
			break
		}
	}

	return "", lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, // 408
		http.StatusTooManyRequests,    // 429
		http.StatusServiceUnavailable, // 503
		http.StatusGatewayTimeout:     // 504
		return true
	}

	return false
}
