package lifecycle

import (
	"context"
	"time"

	"github.com/moonrepo/protohost/internal/httpclient"
)

// maxDownloadAttempts and the backoff schedule implement spec.md
// §4.6's "HTTP fetches retry up to 3x with exponential backoff on 5xx
// and connection errors; 4xx and checksum failures are not retried":
// the first attempt plus up to three retries, with downloadBackoff[i]
// waited before retry i+1.
const maxDownloadAttempts = 1 + 3

var downloadBackoff = []time.Duration{
	250 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
}

// downloadWithRetry calls fetch up to maxDownloadAttempts times,
// backing off between attempts, stopping early on a non-retryable
// error (a 4xx status, or success).
func downloadWithRetry(ctx context.Context, fetch func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < maxDownloadAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(downloadBackoff[attempt-1]):
			}
		}

		err := fetch(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !httpclient.Retryable(err) {
			return err
		}
	}
	return lastErr
}
