package recursive

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilwick/chunkline/internal/core/domain"
)

// charTokenizer counts runes as tokens, keeping expectations simple and
// independent of any real BPE vocabulary.
type charTokenizer struct{}

func (charTokenizer) Count(text string) int                  { return len([]rune(text)) }
func (charTokenizer) Encode(text string) []int                { return make([]int, len([]rune(text))) }
func (charTokenizer) Decode(tokens []int) string               { return "" }
func (charTokenizer) OffsetTable(text string) ([]int, []int)   { return nil, nil }

func TestRecursiveChunker_FitsInOneChunk(t *testing.T) {
	text := "short text that fits"
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: text}
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
}

func TestRecursiveChunker_SplitsOnParagraphs(t *testing.T) {
	text := strings.Repeat("paragraph content here. ", 10) + "\n\n" + strings.Repeat("second paragraph text. ", 10)
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: text}
	cfg := domain.ChunkConfig{ChunkSize: 60, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.NotEmpty(t, ch.Content)
		assert.Equal(t, i, ch.ChunkIndex)
	}
}

func TestRecursiveChunker_Deterministic(t *testing.T) {
	text := strings.Repeat("some words to split up into pieces. ", 20)
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: text}
	cfg := domain.ChunkConfig{ChunkSize: 40, ChunkOverlap: 5}

	first, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	second, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRecursiveChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 40, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRecursiveChunker_OverlapAddsSharedPrefix(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta. ", 10)
	c := New(charTokenizer{})
	item := domain.SourceItem{ID: "a", Content: text}

	withoutOverlap, err := c.Chunk(context.Background(), item, domain.ChunkConfig{ChunkSize: 50, ChunkOverlap: 0})
	require.NoError(t, err)
	withOverlap, err := c.Chunk(context.Background(), item, domain.ChunkConfig{ChunkSize: 50, ChunkOverlap: 10})
	require.NoError(t, err)

	require.Greater(t, len(withoutOverlap), 1)
	require.Greater(t, len(withOverlap), 1)
	assert.GreaterOrEqual(t, len(withOverlap[1].Content), len(withoutOverlap[1].Content))
}
