package driven

import (
	"context"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// Sink forwards produced chunks to an external embedding endpoint.
// Implementations may include:
//   - an HTTP client posting batches to EMBEDDING_SERVICE_URL
//   - a no-op sink used when no embedding service is configured
//
// A Sink must never block indefinitely; ctx governs per-call deadlines.
type Sink interface {
	// Deliver forwards a batch of chunks. Implementations retry
	// transient failures internally; a returned error means the batch
	// was not delivered after retries were exhausted. The job processor
	// counts such failures into Job.SinkErrors and never fails the job.
	Deliver(ctx context.Context, chunks []domain.Chunk) error
}
