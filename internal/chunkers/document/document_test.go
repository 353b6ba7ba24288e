package document

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

type stubFallback struct{}

func (stubFallback) Name() string { return "recursive" }
func (stubFallback) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}
	return []domain.Chunk{{Content: item.Content, TokenCount: len([]rune(item.Content)), StartIndex: 0, EndIndex: len(item.Content)}}, nil
}

func TestDocumentChunker_ThreeHeadingSections(t *testing.T) {
	section := strings.Repeat("word ", 50)
	content := "# First\n" + section + "\n# Second\n" + section + "\n# Third\n" + section
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 400, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "First", chunks[0].Metadata[domain.MetaSection])
	assert.Equal(t, "Second", chunks[1].Metadata[domain.MetaSection])
	assert.Equal(t, "Third", chunks[2].Metadata[domain.MetaSection])
}

func TestDocumentChunker_NestedHeadingPath(t *testing.T) {
	content := "# Top\nintro\n## Sub\nsub body\n"
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 400, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"Top"}, chunks[0].Metadata[domain.MetaHeadingPath])
	assert.Equal(t, []string{"Top", "Sub"}, chunks[1].Metadata[domain.MetaHeadingPath])
}

func TestDocumentChunker_CodeFenceNotTreatedAsHeading(t *testing.T) {
	content := "# Title\n```\n# not a heading\n```\nmore text\n"
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 400, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}

func TestDocumentChunker_NoHeadingsSingleSection(t *testing.T) {
	content := "just a plain paragraph with no headings at all"
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 400, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
}

func TestDocumentChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{}, stubFallback{})
	item := domain.SourceItem{ID: "a", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 400, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
