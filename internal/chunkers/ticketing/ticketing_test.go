package ticketing

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

type stubFallback struct{}

func (stubFallback) Name() string { return "recursive" }
func (stubFallback) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	return []domain.Chunk{{Content: item.Content, TokenCount: len([]rune(item.Content))}}, nil
}

func TestTicketingChunker_PlainTextLayout(t *testing.T) {
	content := `Title: Login fails on retry
Status: open
Priority: high
Description: When the user retries login, the session is not refreshed.
Comments:
- alice: Can you attach logs?
- bob: Here is the stack trace.
`
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 500, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, domain.ContentTypeDescription, chunks[0].Metadata[domain.MetaContentType])
	assert.Contains(t, chunks[0].Content, "Login fails on retry")

	assert.Equal(t, domain.ContentTypeComment, chunks[1].Metadata[domain.MetaContentType])
	assert.Equal(t, "alice", chunks[1].Metadata[domain.MetaAuthor])
	assert.Equal(t, "bob", chunks[2].Metadata[domain.MetaAuthor])
}

func TestTicketingChunker_JSONLayout(t *testing.T) {
	content := `{"title":"Crash on save","status":"open","priority":"critical","description":"App crashes.","comments":[{"author":"carol","body":"Repro steps attached."}]}`
	item := domain.SourceItem{ID: "a", Content: content, ContentType: "application/json"}
	cfg := domain.ChunkConfig{ChunkSize: 500, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "carol", chunks[1].Metadata[domain.MetaAuthor])
}

func TestTicketingChunker_CommentCountNeverExceedsParsed(t *testing.T) {
	content := `Title: T
Description: d
Comments:
- a: one
- b: two
- c: three
`
	item := domain.SourceItem{ID: "a", Content: content}
	cfg := domain.ChunkConfig{ChunkSize: 500, ChunkOverlap: 0}

	c := New(charTokenizer{}, stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)

	commentChunks := 0
	for _, ch := range chunks {
		if ch.Metadata[domain.MetaContentType] == domain.ContentTypeComment {
			commentChunks++
		}
	}
	assert.LessOrEqual(t, commentChunks, 3)
}

func TestTicketingChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{}, stubFallback{})
	item := domain.SourceItem{ID: "a", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 500, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
