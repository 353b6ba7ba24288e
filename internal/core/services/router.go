package services

import (
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/html"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

// Router dispatches a source item to the chunker responsible for its
// (source_kind, content_type) combination. Precedence is fixed and
// evaluated top to bottom; the first matching rule wins.
type Router struct {
	token      driven.Chunker
	sentence   driven.Chunker
	recursive  driven.Chunker
	code       driven.Chunker
	document   driven.Chunker
	chat       driven.Chunker
	ticketing  driven.Chunker
	table      driven.Chunker
	agentic    driven.Chunker
	html       driven.Chunker
	byStrategy map[string]driven.Chunker
}

// NewRouter wires one chunker instance per strategy name. Web/HTML
// content is routed through an HTML-to-text pre-step in front of
// recursive, constructed here rather than taken as its own parameter so
// existing callers don't need a tenth argument.
func NewRouter(token, sentence, recursive, code, document, chat, ticketing, table, agentic driven.Chunker) *Router {
	htmlChunker := html.New(recursive)
	r := &Router{
		token:     token,
		sentence:  sentence,
		recursive: recursive,
		code:      code,
		document:  document,
		chat:      chat,
		ticketing: ticketing,
		table:     table,
		agentic:   agentic,
		html:      htmlChunker,
	}
	r.byStrategy = map[string]driven.Chunker{
		token.Name():       token,
		sentence.Name():    sentence,
		recursive.Name():   recursive,
		code.Name():        code,
		document.Name():    document,
		chat.Name():        chat,
		ticketing.Name():   ticketing,
		table.Name():       table,
		agentic.Name():     agentic,
		htmlChunker.Name(): htmlChunker,
	}
	return r
}

// Route picks the chunker for an item. An explicit item.Strategy overrides
// the decision table entirely.
func (r *Router) Route(item domain.SourceItem) driven.Chunker {
	if item.Strategy != "" {
		if c, ok := r.byStrategy[item.Strategy]; ok {
			return c
		}
	}

	ct := item.ContentType

	switch {
	case item.SourceKind == domain.SourceKindCodeRepo || strings.HasPrefix(ct, "text/code:"):
		return r.code
	case item.SourceKind == domain.SourceKindDocument || item.SourceKind == domain.SourceKindWiki ||
		ct == "text/markdown" || ct == "text/x-markdown":
		return r.document
	case item.SourceKind == domain.SourceKindChat || item.SourceKind == domain.SourceKindEmail:
		return r.chat
	case item.SourceKind == domain.SourceKindTicketing:
		return r.ticketing
	case ct == "text/csv" || looksLikeTable(item.Content):
		return r.table
	case item.SourceKind == domain.SourceKindWeb || ct == "text/html":
		return r.html
	default:
		return r.sentence
	}
}

// looksLikeTable detects markdown table markers at the head of the
// content: a row containing "|" immediately followed by a "---"-style
// separator row.
func looksLikeTable(content string) bool {
	lines := strings.SplitN(content, "\n", 4)
	for i := 0; i < len(lines)-1; i++ {
		if !strings.Contains(lines[i], "|") {
			continue
		}
		if isTableSeparator(lines[i+1]) {
			return true
		}
	}
	return false
}

func isTableSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	for _, field := range strings.Split(trimmed, "|") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		for _, r := range field {
			if r != '-' && r != ':' {
				return false
			}
		}
	}
	return true
}
