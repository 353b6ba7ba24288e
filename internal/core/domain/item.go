package domain

import "time"

// SourceKind identifies the broad category of integration a SourceItem
// originated from. The router consults it first when picking a chunker.
type SourceKind string

// Recognised source kinds.
const (
	SourceKindCodeRepo  SourceKind = "code_repo"
	SourceKindDocument  SourceKind = "document"
	SourceKindWiki      SourceKind = "wiki"
	SourceKindChat      SourceKind = "chat"
	SourceKindTicketing SourceKind = "ticketing"
	SourceKindEmail     SourceKind = "email"
	SourceKindWeb       SourceKind = "web"
	SourceKindOther     SourceKind = "other"
)

// IsValid reports whether k is one of the recognised source kinds.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindCodeRepo, SourceKindDocument, SourceKindWiki, SourceKindChat,
		SourceKindTicketing, SourceKindEmail, SourceKindWeb, SourceKindOther:
		return true
	default:
		return false
	}
}

// SourceItem is a single heterogeneous unit of text submitted for
// segmentation: a source code file, a markdown document, a chat thread,
// an issue/ticket body, an email, a web page, or anything else a caller
// pushes through the job API.
type SourceItem struct {
	// ID is a stable, caller-supplied identifier, unique per item.
	ID string

	// SourceID identifies the originating integration/account.
	SourceID string

	// SourceKind is always present and drives routing.
	SourceKind SourceKind

	// ContentType is a MIME-like string. For code the form is
	// "text/code:<lang>" where <lang> is in the supported set.
	ContentType string

	// Content is the raw UTF-8 text to segment.
	Content string

	// Metadata is free-form, opaque to the core, and propagated into
	// every chunk emitted from this item.
	Metadata map[string]any

	// CreatedAt is optional.
	CreatedAt time.Time

	// Entities optionally overrides parser-derived chunk-point nodes for
	// the CodeChunker (spec §4.2.4 "entity hint path").
	Entities []Entity

	// Strategy optionally names an explicit chunker, overriding the
	// router's (source_kind, content_type) decision table.
	Strategy string
}

// Entity is a caller-supplied code-path hint used to override
// parser-derived chunk-point nodes.
type Entity struct {
	Name      string
	Kind      SymbolKind
	StartLine int
	EndLine   int
}

// CloneMetadata returns a shallow copy of src, or nil if src is nil.
func CloneMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
