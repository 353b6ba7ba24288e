package domain

// Chunk is a bounded, positioned slice of a SourceItem's content, produced
// by a chunker for downstream embedding.
type Chunk struct {
	// ID is freshly generated at emission time.
	ID string

	// SourceItemID, SourceID, SourceKind are copied from the owning item.
	SourceItemID string
	SourceID     string
	SourceKind   SourceKind

	// Content is the chunk text.
	Content string

	// TokenCount is the token count under the shared tokenizer.
	TokenCount int

	// StartIndex, EndIndex are half-open byte offsets [start, end) into
	// the item's content. For synthesized content with an injected
	// context prefix, StartIndex refers to the first original byte
	// covered; prefix bytes are not counted.
	StartIndex int
	EndIndex   int

	// ChunkIndex is the 0-based position of this chunk within its item's
	// sequence. Dense and monotonic per item.
	ChunkIndex int

	// Metadata inherits the item's metadata; chunkers add keys such as
	// "language", "path", "symbol_name", "parent_symbol", "line_range",
	// "section", "author", "thread_id", "content_type", "oversize",
	// "code_fallback", "warning".
	Metadata map[string]any
}

// Well-known metadata keys chunkers write. Not exhaustive: chunkers may
// add domain-specific keys beyond this set.
const (
	MetaLanguage     = "language"
	MetaPath         = "path"
	MetaSymbolName   = "symbol_name"
	MetaParentSymbol = "parent_symbol"
	MetaLineRange    = "line_range"
	MetaSection      = "section"
	MetaHeadingPath  = "heading_path"
	MetaAuthor       = "author"
	MetaThreadID     = "thread_id"
	MetaSpeakers     = "speakers"
	MetaTimestamp    = "timestamp"
	MetaContentType  = "content_type"
	MetaOversize     = "oversize"
	MetaWarning      = "warning"
	MetaCodeFallback = "code_fallback"
	MetaParseTimeout = "parse_timeout"
)

// Sub-values used with MetaContentType by TicketingChunker.
const (
	ContentTypeDescription = "description"
	ContentTypeComment     = "comment"
)

// WithMetadata returns a copy of base with k set to v. Used by chunkers to
// avoid mutating a shared item metadata map across chunks.
func WithMetadata(base map[string]any, k string, v any) map[string]any {
	m := CloneMetadata(base)
	if m == nil {
		m = make(map[string]any, 1)
	}
	m[k] = v
	return m
}
