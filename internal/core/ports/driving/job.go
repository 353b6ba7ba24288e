package driving

import (
	"context"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// JobProcessor owns the job registry: accepting submissions, running
// chunkers under bounded concurrency, and reporting status.
type JobProcessor interface {
	// Submit accepts a batch of items for a source. Returns accepted=false
	// (with no job created) if items is empty; the caller sees this
	// synchronously as domain.ErrInvalidRequest.
	Submit(ctx context.Context, sourceID string, sourceKind domain.SourceKind, items []domain.SourceItem) (jobID string, accepted bool, err error)

	// Status returns a coherent snapshot of a job's record.
	Status(ctx context.Context, jobID string) (domain.Job, error)

	// Shutdown stops accepting new work and waits for in-flight jobs to
	// finish their current item before returning.
	Shutdown(ctx context.Context) error
}
