package agentic

import (
	"context"
	"strings"
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

func TestAgenticChunker_SplitsOnHeadingBoundary(t *testing.T) {
	content := "# Intro\n" + strings.Repeat("word ", 30) + "\n\n# Details\n" + strings.Repeat("more ", 30)
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 80, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)
}

func TestAgenticChunker_HardCutWhenNoCandidate(t *testing.T) {
	content := strings.Repeat("x", 500)
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 50, ChunkOverlap: 0}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
}

func TestAgenticChunker_ChunkIndexDense(t *testing.T) {
	content := strings.Repeat("line of text here\n", 40)
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 60, ChunkOverlap: 5}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		assert.Equal(t, i, ch.ChunkIndex)
	}
}

func TestAgenticChunker_OverlapCarriesTrailingText(t *testing.T) {
	content := strings.Repeat("alpha beta gamma delta\n", 30)
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 50, ChunkOverlap: 10}

	c := New(charTokenizer{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
}

func TestAgenticChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
