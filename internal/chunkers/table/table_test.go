package table

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilwick/chunkline/internal/core/domain"
)

type charTokenizer struct{}

func (charTokenizer) Count(text string) int                { return len([]rune(text)) }
func (charTokenizer) Encode(text string) []int              { return make([]int, len([]rune(text))) }
func (charTokenizer) Decode(tokens []int) string             { return "" }
func (charTokenizer) OffsetTable(text string) ([]int, []int) { return nil, nil }

func TestTableChunker_MarkdownTableSingleChunk(t *testing.T) {
	content := "| a | b |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |"
	item := domain.SourceItem{ID: "x", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "| a | b |")
	assert.Contains(t, chunks[0].Content, "| 1 | 2 |")
}

func TestTableChunker_HeaderRepeatedAcrossChunks(t *testing.T) {
	content := "| a | b |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |\n| 5 | 6 |\n| 7 | 8 |"
	item := domain.SourceItem{ID: "x", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 20, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for _, ch := range chunks {
		assert.Contains(t, ch.Content, "| a | b |")
	}
}

func TestTableChunker_CSV(t *testing.T) {
	content := "name,age\nalice,30\nbob,25\n"
	item := domain.SourceItem{ID: "x", Content: content, ContentType: "text/csv"}
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "name,age")
	assert.Contains(t, chunks[0].Content, "alice,30")
}

func TestTableChunker_NoTableMarkersReturnsNoChunks(t *testing.T) {
	item := domain.SourceItem{ID: "x", Content: "just some prose, no tables here"}
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestTableChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "x", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
