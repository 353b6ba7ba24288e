package html

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basilwick/chunkline/internal/core/domain"
)

type recordingFallback struct {
	lastContent string
	chunks      []domain.Chunk
}

func (f *recordingFallback) Name() string { return "recursive" }
func (f *recordingFallback) Chunk(_ context.Context, item domain.SourceItem, _ domain.ChunkConfig) ([]domain.Chunk, error) {
	f.lastContent = item.Content
	return f.chunks, nil
}

func TestStripHTML_DropsScriptAndStyle(t *testing.T) {
	content := `<html><head><style>body{color:red}</style></head>
<body><script>alert('hi')</script><p>Hello world</p></body></html>`

	got := stripHTML(content)
	assert.Equal(t, "Hello world", got)
}

func TestStripHTML_PreservesHeadingText(t *testing.T) {
	content := `<h1>Title</h1><p>Body text</p>`

	got := stripHTML(content)
	assert.Equal(t, "Title\nBody text", got)
}

func TestStripHTML_DecodesEntities(t *testing.T) {
	content := `<p>Tom &amp; Jerry &mdash; a classic</p>`

	got := stripHTML(content)
	assert.Contains(t, got, "Tom & Jerry")
}

func TestStripHTML_DropsCommentsAndSVG(t *testing.T) {
	content := `<!-- nav --><svg><path d="M0 0"/></svg><p>Kept</p>`

	got := stripHTML(content)
	assert.Equal(t, "Kept", got)
}

func TestChunker_StripsBeforeDelegating(t *testing.T) {
	fallback := &recordingFallback{chunks: []domain.Chunk{{ID: "c1"}}}
	c := New(fallback)

	item := domain.SourceItem{ID: "a", Content: "<script>evil()</script><p>real content</p>", ContentType: "text/html"}
	chunks, err := c.Chunk(context.Background(), item, domain.ChunkConfig{ChunkSize: 100})

	require.NoError(t, err)
	assert.Equal(t, "real content", fallback.lastContent)
	assert.Len(t, chunks, 1)
}

func TestChunker_Name(t *testing.T) {
	c := New(&recordingFallback{})
	assert.Equal(t, "html", c.Name())
}
