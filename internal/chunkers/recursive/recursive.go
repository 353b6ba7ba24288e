// Package recursive implements RecursiveChunker: split at progressively
// finer separators until pieces fit the token budget, then greedily
// re-merge small adjacent pieces.
package recursive

import (
	"context"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "recursive"

type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

type piece struct {
	text       string
	start      int
	end        int
	tokenCount int
}

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	pieces := c.split(item.Content, 0, cfg.ChunkSize)
	pieces = c.mergeAdjacent(pieces, cfg.ChunkSize)
	pieces = c.applyOverlap(pieces, cfg.ChunkOverlap)

	var chunks []domain.Chunk
	index := 0
	for _, p := range pieces {
		if p.text == "" {
			continue
		}
		chunks = append(chunks, shared.NewChunk(item, p.text, p.tokenCount, p.start, p.end, index, shared.BaseMetadata(item)))
		index++
	}
	return chunks, nil
}

// split recursively splits text at the separator hierarchy, starting at
// level, until every piece fits within chunkSize tokens or the hierarchy
// is exhausted (character-level hard windows).
func (c *Chunker) split(text string, level, chunkSize int) []piece {
	count := c.tok.Count(text)
	if count <= chunkSize {
		return []piece{{text: text, tokenCount: count}}
	}
	if level >= len(shared.SeparatorHierarchy) {
		return []piece{{text: text, tokenCount: count}}
	}

	sep := shared.SeparatorHierarchy[level]
	var parts []string
	if sep == "" {
		for n := chunkSize; ; n /= 2 {
			parts = hardWindow(text, n)
			fits := true
			for _, p := range parts {
				if c.tok.Count(p) > chunkSize {
					fits = false
					break
				}
			}
			if fits || n == 0 {
				break
			}
		}
	} else {
		parts = splitKeepSeparator(text, sep)
	}

	if len(parts) <= 1 {
		// This separator didn't fire; fall through to the next level.
		return c.split(text, level+1, chunkSize)
	}

	var out []piece
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, c.split(part, level+1, chunkSize)...)
	}
	if len(out) == 0 {
		return []piece{{text: text, tokenCount: count}}
	}
	return out
}

// splitKeepSeparator splits text on sep, leaving sep attached to the
// piece that precedes it.
func splitKeepSeparator(text, sep string) []string {
	var out []string
	for {
		idx := strings.Index(text, sep)
		if idx < 0 {
			if text != "" {
				out = append(out, text)
			}
			break
		}
		end := idx + len(sep)
		out = append(out, text[:end])
		text = text[end:]
	}
	return out
}

// hardWindow takes fixed-size character windows when no separator
// applies, the final level of the hierarchy.
func hardWindow(text string, chunkSize int) []string {
	runes := []rune(text)
	// Character-level windows use a generous multiplier of chunkSize
	// since characters are cheaper than tokens; the caller re-measures
	// with the tokenizer and narrows the windows if any is still oversize.
	width := chunkSize * 4
	if width < 1 {
		width = 1
	}
	var out []string
	for i := 0; i < len(runes); i += width {
		end := i + width
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

// mergeAdjacent greedily merges adjacent small pieces so long as the
// merged size stays <= chunkSize.
func (c *Chunker) mergeAdjacent(pieces []piece, chunkSize int) []piece {
	if len(pieces) == 0 {
		return pieces
	}

	var out []piece
	cursor := 0
	for _, p := range pieces {
		p.start = cursor
		p.end = cursor + len(p.text)
		cursor = p.end

		if len(out) > 0 && out[len(out)-1].tokenCount+p.tokenCount <= chunkSize {
			last := &out[len(out)-1]
			last.text += p.text
			last.end = p.end
			last.tokenCount += p.tokenCount
			continue
		}
		out = append(out, p)
	}
	return out
}

// applyOverlap prepends each piece (after the first) with trailing
// characters from the previous piece whose token count is <= overlap.
// Overlap is applied at the outermost merge step, per the component
// design.
func (c *Chunker) applyOverlap(pieces []piece, overlap int) []piece {
	if overlap <= 0 || len(pieces) < 2 {
		return pieces
	}

	out := make([]piece, len(pieces))
	copy(out, pieces)

	for i := 1; i < len(out); i++ {
		prev := pieces[i-1]
		tail := overlapSuffix(prev.text, c.tok, overlap)
		if tail == "" {
			continue
		}
		out[i].text = tail + out[i].text
		out[i].tokenCount = c.tok.Count(out[i].text)
		out[i].start -= len(tail)
		if out[i].start < 0 {
			out[i].start = 0
		}
	}
	return out
}

// overlapSuffix returns the longest trailing run of prev-text whose
// token count is <= overlap, aligned to a whitespace boundary.
func overlapSuffix(text string, tok driven.Tokenizer, overlap int) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	for start := len(fields) - 1; start >= 0; start-- {
		candidate := strings.Join(fields[start:], " ")
		if tok.Count(candidate) > overlap {
			return strings.Join(fields[start+1:], " ")
		}
	}
	return strings.Join(fields, " ")
}
