// Package token implements TokenChunker: fixed-size sliding windows over
// the shared tokenizer's token stream.
package token

import (
	"context"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "token"

// Chunker windows the tokenized item into groups of chunk_size, striding
// by chunk_size - chunk_overlap, and decodes each window back to text.
type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	tokens, offsets := c.tok.OffsetTable(item.Content)
	if len(tokens) == 0 {
		return nil, nil
	}

	stride := cfg.Stride()
	if stride < 1 {
		stride = 1
	}

	var chunks []domain.Chunk
	index := 0

	for start := 0; start < len(tokens); start += stride {
		end := start + cfg.ChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}

		window := tokens[start:end]
		text := c.tok.Decode(window)
		if text == "" {
			if end == len(tokens) {
				break
			}
			continue
		}

		startByte := offsets[start]
		var endByte int
		if end < len(offsets) {
			endByte = offsets[end]
		} else {
			endByte = len(item.Content)
		}

		chunks = append(chunks, shared.NewChunk(item, text, len(window), startByte, endByte, index, shared.BaseMetadata(item)))
		index++

		if end == len(tokens) {
			break
		}
	}

	return chunks, nil
}
