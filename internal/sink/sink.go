// Package sink implements the outbound dispatcher that forwards produced
// chunks to an external embedding service over HTTP.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
	"github.com/basilwick/chunkline/internal/logger"
)

// Ensure HTTPSink implements the interface.
var _ driven.Sink = (*HTTPSink)(nil)

const (
	// DefaultTimeout is the per-request timeout enforced by the HTTP client.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the retry ceiling: up to 3 attempts total,
	// exponential backoff 2^n seconds between them. 4xx responses are
	// not retried.
	DefaultMaxAttempts = 3

	// DefaultRate is the proactive outbound throttle, requests/second.
	DefaultRate = 10.0
)

// HTTPSink posts batches of chunks to "<baseURL>/embed/chunks".
type HTTPSink struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// New creates an HTTPSink targeting baseURL. baseURL should not have a
// trailing slash; it is used as-is otherwise.
func New(baseURL string) *HTTPSink {
	return &HTTPSink{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(DefaultRate), 1),
	}
}

type deliverRequest struct {
	Chunks []domain.Chunk `json:"chunks"`
}

// Deliver POSTs chunks to the embed endpoint, retrying transient
// failures with exponential backoff. 4xx responses are terminal and
// returned immediately without retry.
func (s *HTTPSink) Deliver(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	body, err := json.Marshal(deliverRequest{Chunks: chunks})
	if err != nil {
		return fmt.Errorf("marshal sink request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < DefaultMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		status, err := s.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err

		if status >= 400 && status < 500 {
			logger.Warn("sink: batch rejected with status %d, not retrying: %v", status, err)
			return err
		}
		logger.Warn("sink: delivery attempt %d/%d failed: %v", attempt+1, DefaultMaxAttempts, err)
	}

	return fmt.Errorf("sink: exhausted retries: %w", lastErr)
}

func (s *HTTPSink) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embed/chunks", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send sink request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("sink returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return resp.StatusCode, nil
}

// NoopSink accepts every batch without forwarding it. Used when
// EMBEDDING_SERVICE_URL is unset; the job processor's counters still
// advance normally.
type NoopSink struct{}

// Ensure NoopSink implements the interface.
var _ driven.Sink = NoopSink{}

func (NoopSink) Deliver(_ context.Context, _ []domain.Chunk) error { return nil }
