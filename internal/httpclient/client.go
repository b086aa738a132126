// Package httpclient provides the single shared HTTP client used for
// every network operation in the store: plugin downloads, artifact
// downloads, checksum manifest fetches, and GitHub/OCI API calls.
// SPEC_FULL.md §5 calls for "a single Environment struct... shared
// resources: the HTTP client is shared across tools (connection
// pooling)" — this package is that shared client's home.
//
// Grounded on the teacher's internal/domain/config.RemoteLoader and
// internal/domain/plugin's GitHub search client (both construct a bare
// `*http.Client` with a fixed `Timeout` per call site); generalized
// here into one constructor so every caller gets the same pooled
// transport, egress policy, and timeouts instead of each allocating
// its own client.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Defaults per SPEC_FULL.md §5.
const (
	DefaultReadTimeout = 30 * time.Second
	DefaultIdleTimeout = 60 * time.Second
)

// Client wraps a pooled *http.Client with an HTTP egress allowlist and
// resumable-download support.
type Client struct {
	http      *http.Client
	allowlist []string // glob-style host patterns; "*" allows everything
	offline   bool
}

// Option configures a Client.
type Option func(*Client)

// WithAllowlist restricts egress to the given host patterns ("*" by
// default, matching SPEC_FULL.md §4.4's plugin container default).
func WithAllowlist(patterns ...string) Option {
	return func(c *Client) { c.allowlist = patterns }
}

// WithOffline marks the client offline: every request fails fast with
// ErrOffline instead of reaching the network, per `PROTO_OFFLINE`.
func WithOffline(offline bool) Option {
	return func(c *Client) { c.offline = offline }
}

// New constructs a shared Client with the store's default timeouts.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: DefaultReadTimeout,
			Transport: &http.Transport{
				IdleConnTimeout:     DefaultIdleTimeout,
				MaxIdleConns:        64,
				MaxIdleConnsPerHost: 8,
			},
		},
		allowlist: []string{"*"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv builds a Client honoring `PROTO_OFFLINE`.
func NewFromEnv(opts ...Option) *Client {
	offline := false
	if v := os.Getenv("PROTO_OFFLINE"); v == "1" || v == "true" {
		offline = true
	}
	return New(append([]Option{WithOffline(offline)}, opts...)...)
}

// ErrOffline is returned when a request is attempted while the client
// is in offline mode.
var ErrOffline = fmt.Errorf("network access disabled (PROTO_OFFLINE)")

// StatusError reports an unexpected HTTP response status, letting
// callers (internal/lifecycle's download retry policy) distinguish a
// 5xx from a 4xx without string-matching the error text.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("downloading %s: unexpected status %d", e.URL, e.Status)
}

// Retryable reports whether err warrants a retry per spec.md §4.6's
// "HTTP fetches retry up to 3x with exponential backoff on 5xx and
// connection errors; 4xx and checksum failures are not retried": a
// StatusError in the 5xx range, or any other error (connection
// refused, timeout, DNS failure) that isn't a 4xx StatusError.
// ErrOffline is never retryable.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= 500
	}
	return !errors.Is(err, ErrOffline)
}

// checkEgress returns an error if host is not permitted by the
// allowlist.
func (c *Client) checkEgress(host string) error {
	for _, pattern := range c.allowlist {
		if pattern == "*" || pattern == host {
			return nil
		}
	}
	return fmt.Errorf("egress to %q blocked by allowlist", host)
}

// Get issues a GET request, enforcing offline mode and the egress
// allowlist before dialing.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if c.offline {
		return nil, ErrOffline
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	if err := c.checkEgress(req.URL.Host); err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// Do issues req after checking offline mode and the egress allowlist.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.offline {
		return nil, ErrOffline
	}
	if err := c.checkEgress(req.URL.Host); err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

// DownloadResumable fetches url into destPath, resuming a partial
// download (destPath+".part") via a Range request when one exists.
// Content-Length, when present, must match the bytes this response
// delivered (the whole file on a 200, the remaining range on a 206).
// Grounded on SPEC_FULL.md §4.3's Url locator handler: "fetch with
// resumable GET; content-length must match or be absent."
func (c *Client) DownloadResumable(ctx context.Context, url, destPath string) error {
	partPath := destPath + ".part"

	var startOffset int64
	if info, err := os.Stat(partPath); err == nil {
		startOffset = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	if startOffset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", startOffset))
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode {
	case http.StatusOK:
		flags |= os.O_TRUNC
		startOffset = 0
	case http.StatusPartialContent:
		flags |= os.O_APPEND
	default:
		return &StatusError{URL: url, Status: resp.StatusCode}
	}

	out, err := os.OpenFile(partPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", partPath, err)
	}

	written, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return fmt.Errorf("writing %s: %w", partPath, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", partPath, closeErr)
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		// On a 206, want is the length of the remaining range, not the
		// whole file; either way it must equal what this response wrote.
		if want, err := strconv.ParseInt(cl, 10, 64); err == nil && want != written {
			return fmt.Errorf("downloading %s: content-length %d did not match %d bytes written", url, want, written)
		}
	}

	if err := os.Rename(partPath, destPath); err != nil {
		return fmt.Errorf("finalizing download %s: %w", destPath, err)
	}
	return nil
}
