// Package sentence implements SentenceChunker: splits on a fixed
// delimiter set, merges undersize fragments forward, then greedily packs
// sentences into token-bounded windows.
package sentence

import (
	"context"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "sentence"

type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

type sentence struct {
	text       string
	start      int
	end        int
	tokenCount int
}

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	sentences := splitSentences(item.Content)
	sentences = mergeShortSentences(sentences, cfg.MinCharsPerSentence)

	var pieces []sentence
	for _, s := range sentences {
		pieces = append(pieces, sentence{
			text:       s.text,
			start:      s.start,
			end:        s.end,
			tokenCount: c.tok.Count(s.text),
		})
	}

	windows := shared.PackWindows(pieces, func(s sentence) int { return s.tokenCount }, cfg.ChunkSize, cfg.ChunkOverlap)

	var chunks []domain.Chunk
	for i, w := range windows {
		var b strings.Builder
		tokenCount := 0
		for _, p := range w.Pieces {
			b.WriteString(p.text)
			tokenCount += p.tokenCount
		}
		content := b.String()
		if content == "" {
			continue
		}
		chunks = append(chunks, shared.NewChunk(
			item, content, tokenCount,
			w.Pieces[0].start, w.Pieces[len(w.Pieces)-1].end,
			i, shared.BaseMetadata(item),
		))
	}

	return chunks, nil
}

type rawSentence struct {
	text  string
	start int
	end   int
}

// splitSentences splits on the fixed delimiter set {". ", "! ", "? ", "\n"},
// keeping delimiters attached to the sentence they end.
func splitSentences(content string) []rawSentence {
	delims := shared.SentenceDelimiters

	var out []rawSentence
	start := 0
	i := 0
	for i < len(content) {
		matched := ""
		for _, d := range delims {
			if strings.HasPrefix(content[i:], d) {
				matched = d
				break
			}
		}
		if matched != "" {
			end := i + len(matched)
			out = append(out, rawSentence{text: content[start:end], start: start, end: end})
			start = end
			i = end
			continue
		}
		i++
	}
	if start < len(content) {
		out = append(out, rawSentence{text: content[start:], start: start, end: len(content)})
	}
	return out
}

// mergeShortSentences merges any fragment shorter than minChars forward
// into the following fragment. A short final fragment has nothing to
// merge into, so it is appended to the previous fragment instead (or kept
// alone when it is the only one).
func mergeShortSentences(sentences []rawSentence, minChars int) []rawSentence {
	if minChars <= 0 || len(sentences) == 0 {
		return sentences
	}

	var out []rawSentence
	pending := ""
	pendingStart := -1

	for _, s := range sentences {
		text := s.text
		start := s.start
		if pending != "" {
			text = pending + text
			start = pendingStart
			pending = ""
			pendingStart = -1
		}
		if len(text) < minChars {
			pending = text
			pendingStart = start
			continue
		}
		out = append(out, rawSentence{text: text, start: start, end: s.end})
	}

	if pending != "" {
		if len(out) > 0 {
			out[len(out)-1].text += pending
			out[len(out)-1].end = pendingStart + len(pending)
		} else {
			out = append(out, rawSentence{text: pending, start: pendingStart, end: pendingStart + len(pending)})
		}
	}

	return out
}
