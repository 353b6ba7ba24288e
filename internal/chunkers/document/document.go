// Package document implements DocumentChunker for markdown/wiki content:
// splits on ATX headings into sections and re-splits oversize sections
// with RecursiveChunker. Lines inside fenced or indented code blocks are
// never taken as headings, so a code block never straddles two sections;
// an oversize section is handed whole to RecursiveChunker, which does not
// treat code blocks specially and may split inside one.
package document

import (
	"context"
	"regexp"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "document"

var headingRE = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

type Chunker struct {
	tok      driven.Tokenizer
	fallback driven.Chunker
}

func New(tok driven.Tokenizer, fallback driven.Chunker) *Chunker {
	return &Chunker{tok: tok, fallback: fallback}
}

func (c *Chunker) Name() string { return Name }

type section struct {
	heading     string
	headingPath []string
	start       int
	end         int
}

func (c *Chunker) Chunk(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	sections := splitSections(item.Content)

	var chunks []domain.Chunk
	index := 0
	for _, sec := range sections {
		text := item.Content[sec.start:sec.end]
		if strings.TrimSpace(text) == "" {
			continue
		}

		if c.tok.Count(text) <= cfg.ChunkSize {
			meta := shared.BaseMetadata(item)
			meta = domain.WithMetadata(meta, domain.MetaSection, sec.heading)
			meta = domain.WithMetadata(meta, domain.MetaHeadingPath, append([]string(nil), sec.headingPath...))
			chunks = append(chunks, shared.NewChunk(item, text, c.tok.Count(text), sec.start, sec.end, index, meta))
			index++
			continue
		}

		subItem := item
		subItem.Content = text
		subChunks, err := c.fallback.Chunk(ctx, subItem, cfg)
		if err != nil {
			return nil, err
		}
		for _, sub := range subChunks {
			sub.StartIndex += sec.start
			sub.EndIndex += sec.start
			sub.ChunkIndex = index
			index++
			sub.Metadata = domain.WithMetadata(sub.Metadata, domain.MetaSection, sec.heading)
			sub.Metadata = domain.WithMetadata(sub.Metadata, domain.MetaHeadingPath, append([]string(nil), sec.headingPath...))
			chunks = append(chunks, sub)
		}
	}

	return chunks, nil
}

// splitSections scans for ATX headings and code fences, skipping lines
// inside fenced code blocks and indented code lines so they are never
// taken as a heading, and splits the document into sections keyed
// by heading: heading line + body until the next heading of
// same-or-higher level.
func splitSections(content string) []section {
	lines := strings.Split(content, "\n")
	offsets := make([]int, len(lines)+1)
	cursor := 0
	for i, l := range lines {
		offsets[i] = cursor
		cursor += len(l) + 1
	}
	offsets[len(lines)] = len(content)

	type headingLine struct {
		level int
		text  string
		line  int
	}
	var headings []headingLine
	inFence := false
	var fenceMarker string

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			marker := trimmed[:3]
			if !inFence {
				inFence = true
				fenceMarker = marker
			} else if marker == fenceMarker {
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}
		if strings.HasPrefix(line, "    ") {
			continue // indented code block line, never a heading
		}
		if m := headingRE.FindStringSubmatch(line); m != nil {
			headings = append(headings, headingLine{level: len(m[1]), text: strings.TrimSpace(m[2]), line: i})
		}
	}

	if len(headings) == 0 {
		return []section{{heading: "", headingPath: nil, start: 0, end: len(content)}}
	}

	var sections []section
	if headings[0].line > 0 {
		sections = append(sections, section{heading: "", headingPath: nil, start: 0, end: offsets[headings[0].line]})
	}

	var pathStack []headingLine
	for i, h := range headings {
		for len(pathStack) > 0 && pathStack[len(pathStack)-1].level >= h.level {
			pathStack = pathStack[:len(pathStack)-1]
		}
		pathStack = append(pathStack, h)

		end := offsets[len(lines)]
		for j := i + 1; j < len(headings); j++ {
			if headings[j].level <= h.level {
				end = offsets[headings[j].line]
				break
			}
		}

		path := make([]string, len(pathStack))
		for k, ph := range pathStack {
			path[k] = ph.text
		}

		sections = append(sections, section{
			heading:     h.text,
			headingPath: path,
			start:       offsets[h.line],
			end:         end,
		})
	}

	return sections
}
