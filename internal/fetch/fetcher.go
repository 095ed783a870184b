// Package fetch downloads documents from caller-supplied URLs with a
// bounded timeout.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"nistai/internal/domain"
)

// DefaultTimeout bounds a single document download.
const DefaultTimeout = 10 * time.Second

// DefaultMaxBytes caps the size of a fetched document (32 MiB).
const DefaultMaxBytes = 32 << 20

// Fetcher downloads document bytes over HTTP.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// New creates a fetcher. Non-positive arguments fall back to the defaults.
func New(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch downloads the resource at url. Transport errors, timeouts, and
// non-2xx responses all surface as domain.ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: no document URL provided", domain.ErrInvalidInput)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFetchFailed, err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrFetchFailed, f.maxBytes)
	}

	return data, nil
}
