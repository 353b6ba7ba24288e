// Package table implements TableChunker: detects markdown tables or CSV
// content and packs data rows, header repeated in every chunk, bounded
// by a token budget with row-granular overlap.
package table

import (
	"context"
	"encoding/csv"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "table"

type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	var header string
	var rows []string
	if item.ContentType == "text/csv" {
		h, r, err := parseCSV(item.Content)
		if err != nil {
			return nil, err
		}
		header, rows = h, r
	} else {
		h, r, ok := parseMarkdownTable(item.Content)
		if !ok {
			return nil, nil
		}
		header, rows = h, r
	}

	if len(rows) == 0 {
		return nil, nil
	}

	headerTokens := c.tok.Count(header)

	budget := cfg.ChunkSize - headerTokens
	if budget < 1 {
		budget = 1
	}
	windows := shared.PackWindows(rows, c.tok.Count, budget, cfg.ChunkOverlap)

	var chunks []domain.Chunk
	cursor := 0
	for _, w := range windows {
		body := strings.Join(w.Pieces, "\n")
		content := header + "\n" + body
		start := cursor
		end := start + len(content)
		cursor = end + 1

		chunks = append(chunks, shared.NewChunk(item, content, c.tok.Count(content), start, end, len(chunks), shared.BaseMetadata(item)))
	}

	return chunks, nil
}

// parseMarkdownTable detects a header row followed by a "---" style
// separator row, returning the header line and each subsequent data row
// line. Every line is scanned for the header and separator pair; data
// rows end at the first blank line. Returns ok=false if no such pair is
// found anywhere in the content.
func parseMarkdownTable(content string) (header string, rows []string, ok bool) {
	lines := strings.Split(content, "\n")

	headerIdx := -1
	for i := 0; i < len(lines)-1; i++ {
		if !strings.Contains(lines[i], "|") {
			continue
		}
		if isSeparatorRow(lines[i+1]) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return "", nil, false
	}

	header = lines[headerIdx]
	for i := headerIdx + 2; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			break
		}
		rows = append(rows, lines[i])
	}
	return header, rows, true
}

func isSeparatorRow(line string) bool {
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

func parseCSV(content string) (header string, rows []string, err error) {
	reader := csv.NewReader(strings.NewReader(content))
	records, err := reader.ReadAll()
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return "", nil, nil
	}
	header = strings.Join(records[0], ",")
	for _, rec := range records[1:] {
		rows = append(rows, strings.Join(rec, ","))
	}
	return header, rows, nil
}
