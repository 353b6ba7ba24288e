// Package html implements an HTML-to-text pre-step for web content:
// strips script/style/head/svg blocks and comments, converts block-element
// boundaries to newlines, decodes entities, then hands the resulting plain
// text to a wrapped chunker. Adapted from the teacher's HTML normaliser
// (internal/normalisers/html/normaliser.go).
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

// Name identifies this pre-step for routing, logging, and explicit
// strategy overrides.
const Name = "html"

// Chunker strips HTML markup from item.Content, then delegates the
// chunking itself to fallback (RecursiveChunker in normal wiring).
type Chunker struct {
	fallback driven.Chunker
}

// New wraps fallback with an HTML-to-text pre-step.
func New(fallback driven.Chunker) *Chunker {
	return &Chunker{fallback: fallback}
}

func (c *Chunker) Name() string { return Name }

func (c *Chunker) Chunk(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	stripped := item
	stripped.Content = stripHTML(item.Content)
	return c.fallback.Chunk(ctx, stripped, cfg)
}

var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// stripHTML removes script/style/noscript/head/svg content and HTML
// comments entirely, keeps the text of every other element (heading
// tags included) by converting block-element boundaries to newlines and
// discarding the tags themselves, then collapses the result to one
// trimmed, blank-line-free line per block.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
