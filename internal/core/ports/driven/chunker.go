package driven

import (
	"context"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// Chunker is the common contract every segmentation strategy implements:
// chunk(item, cfg) -> sequence<Chunk>. Implementations are pure functions
// of their inputs (same item and cfg always produce the same sequence)
// except where explicitly noted (e.g. fresh Chunk IDs).
type Chunker interface {
	// Chunk splits item.Content according to cfg and returns the
	// resulting chunks in source order, densely indexed from 0.
	Chunk(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error)

	// Name identifies the strategy for routing, logging, and explicit
	// strategy overrides (e.g. "token", "recursive", "code").
	Name() string
}
