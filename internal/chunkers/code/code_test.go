package code

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

type stubFallback struct{ called int }

func (s *stubFallback) Name() string { return "recursive" }
func (s *stubFallback) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	s.called++
	if item.Content == "" {
		return nil, nil
	}
	return []domain.Chunk{{
		SourceItemID: item.ID,
		Content:      item.Content,
		TokenCount:   len([]rune(item.Content)),
		StartIndex:   0,
		EndIndex:     len(item.Content),
		ChunkIndex:   0,
		Metadata:     domain.CloneMetadata(item.Metadata),
	}}, nil
}

func TestCodeChunker_RustFunctionSplit(t *testing.T) {
	content := `/// process does the processing
fn process(x: i32) -> i32 {
    x + 1
}

/// validate checks the input
fn validate(x: i32) -> bool {
    x > 0
}
`
	item := domain.SourceItem{
		ID:          "a",
		Content:     content,
		ContentType: "text/code:rust",
	}
	// Small enough that the two functions can't share one chunk (each is
	// 72 chars under the char tokenizer, together 144), so packing
	// still flushes a new chunk per function here.
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	c := New(charTokenizer{}, &stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "process", chunks[0].Metadata[domain.MetaSymbolName])
	assert.Equal(t, "validate", chunks[1].Metadata[domain.MetaSymbolName])
}

func TestCodeChunker_PacksConsecutiveSpansUnderBudget(t *testing.T) {
	content := `/// process does the processing
fn process(x: i32) -> i32 {
    x + 1
}

/// validate checks the input
fn validate(x: i32) -> bool {
    x > 0
}
`
	item := domain.SourceItem{
		ID:          "a",
		Content:     content,
		ContentType: "text/code:rust",
	}
	// Large enough that both functions fit in one chunk together.
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	c := New(charTokenizer{}, &stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "process,validate", chunks[0].Metadata[domain.MetaSymbolName])
	assert.Contains(t, chunks[0].Content, "fn process")
	assert.Contains(t, chunks[0].Content, "fn validate")
}

func TestCodeChunker_GoFunctionsAndTypes(t *testing.T) {
	content := `package sample

type Widget struct {
	Name string
}

func Process(w Widget) string {
	return w.Name
}

func (w Widget) String() string {
	return w.Name
}
`
	item := domain.SourceItem{
		ID:          "a",
		Content:     content,
		ContentType: "text/code:go",
	}
	cfg := domain.ChunkConfig{ChunkSize: 200, ChunkOverlap: 0}

	c := New(charTokenizer{}, &stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	// The leading "package sample" glue plus one packed chunk holding all
	// three declarations, since their combined size is well under budget.
	require.Len(t, chunks, 2)

	var names []string
	for _, ch := range chunks {
		n, ok := ch.Metadata[domain.MetaSymbolName]
		if !ok {
			continue
		}
		names = append(names, strings.Split(n.(string), ",")...)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "Process")
	assert.Contains(t, names, "String")
}

func TestCodeChunker_DegradesOnUnknownLanguage(t *testing.T) {
	item := domain.SourceItem{
		ID:          "a",
		Content:     "some plain text with no recognisable structure",
		ContentType: "text/code:cobol",
	}
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	fallback := &stubFallback{}
	c := New(charTokenizer{}, fallback)
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, true, chunks[0].Metadata[domain.MetaCodeFallback])
	assert.Equal(t, 1, fallback.called)
}

func TestCodeChunker_EntityHintOverride(t *testing.T) {
	content := `line one
line two
line three
line four
line five
`
	item := domain.SourceItem{
		ID:      "a",
		Content: content,
		Entities: []domain.Entity{
			{Name: "custom", Kind: domain.SymbolKindFunction, StartLine: 2, EndLine: 3},
		},
	}
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	c := New(charTokenizer{}, &stubFallback{})
	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	found := false
	for _, ch := range chunks {
		if name, ok := ch.Metadata[domain.MetaSymbolName]; ok && name == "custom" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCodeChunker_EmptyContent(t *testing.T) {
	c := New(charTokenizer{}, &stubFallback{})
	item := domain.SourceItem{ID: "a", Content: ""}
	cfg := domain.ChunkConfig{ChunkSize: 100, ChunkOverlap: 0}

	chunks, err := c.Chunk(context.Background(), item, cfg)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}
