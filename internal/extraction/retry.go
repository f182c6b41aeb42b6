package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Retrying wraps an Extractor with a bounded retry policy. Delay doubles
// after each failed attempt. Only service failures are retried; local
// failures such as an undecodable upload are deterministic and surface
// immediately.
type Retrying struct {
	inner     Extractor
	attempts  int
	baseDelay time.Duration
}

// NewRetrying creates a retrying Extractor. attempts is the total number of
// tries, including the first one.
func NewRetrying(inner Extractor, attempts int, baseDelay time.Duration) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Retrying{
		inner:     inner,
		attempts:  attempts,
		baseDelay: baseDelay,
	}
}

// Extract delegates to the wrapped Extractor, retrying failures until the
// attempt budget is exhausted or the context is canceled
func (r *Retrying) Extract(ctx context.Context, imageData []byte, contentType string) (string, error) {
	var lastErr error
	delay := r.baseDelay

	for attempt := 1; attempt <= r.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", ErrService, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}

		text, err := r.inner.Extract(ctx, imageData, contentType)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, ErrService) {
			return "", err
		}
		lastErr = err
		slog.Warn("Extraction attempt failed",
			"attempt", attempt,
			"max_attempts", r.attempts,
			"error", err,
		)
	}

	return "", lastErr
}

// Close closes the wrapped Extractor
func (r *Retrying) Close() error {
	return r.inner.Close()
}
