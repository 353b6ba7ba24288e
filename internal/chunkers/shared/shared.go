// Package shared holds helpers common to more than one chunker
// implementation: id/metadata assembly and the recursive separator
// hierarchy used by both RecursiveChunker and as a fallback inside
// CodeChunker, DocumentChunker and TicketingChunker.
package shared

import (
	"github.com/google/uuid"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// SeparatorHierarchy is the ordered list RecursiveChunker (and every
// chunker that falls back to it) splits on, most structural first.
var SeparatorHierarchy = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", ", ", " ", ""}

// SentenceDelimiters is the fixed ordered delimiter set SentenceChunker
// splits on. Delimiters stay attached to the sentence they end.
var SentenceDelimiters = []string{". ", "! ", "? ", "\n"}

// NewChunk assembles a domain.Chunk with a fresh ID and the item's
// identity fields copied over, leaving content/offsets/metadata to the
// caller.
func NewChunk(item domain.SourceItem, content string, tokenCount, start, end, index int, meta map[string]any) domain.Chunk {
	return domain.Chunk{
		ID:           uuid.NewString(),
		SourceItemID: item.ID,
		SourceID:     item.SourceID,
		SourceKind:   item.SourceKind,
		Content:      content,
		TokenCount:   tokenCount,
		StartIndex:   start,
		EndIndex:     end,
		ChunkIndex:   index,
		Metadata:     meta,
	}
}

// BaseMetadata returns a fresh copy of the item's metadata, safe for a
// chunker to add keys to without mutating the item or aliasing across
// chunks.
func BaseMetadata(item domain.SourceItem) map[string]any {
	return domain.CloneMetadata(item.Metadata)
}
