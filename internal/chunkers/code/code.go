// Package code implements CodeChunker: parses source by language into
// chunk-point symbols (functions, types, classes, ...), packs consecutive
// spans into token-bounded chunks, and routes text between spans to
// RecursiveChunker as "glue" chunks.
package code

import (
	"context"
	"sort"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "code"

// Chunker implements the CodeChunker contract. fallback handles glue
// text between chunk-point spans, and the content of an item whose
// language has no parser or whose parse attempt fails.
type Chunker struct {
	tok      driven.Tokenizer
	fallback driven.Chunker
}

func New(tok driven.Tokenizer, fallback driven.Chunker) *Chunker {
	return &Chunker{tok: tok, fallback: fallback}
}

func (c *Chunker) Name() string { return Name }

func (c *Chunker) Chunk(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	lang, hasLang := DetectLanguage(item)

	symbols, ok := c.resolveSymbols(item, lang, hasLang)
	if !ok {
		return c.degradeToRecursive(ctx, item, cfg)
	}

	lineOffsets := computeLineOffsets(item.Content)
	spans := symbolsToSpans(symbols, item.Content, lineOffsets)

	segments := buildSegments(spans, len(item.Content))

	var chunks []domain.Chunk
	index := 0

	// pending holds a run of consecutive symbol spans accumulated under a
	// running token budget, greedily packed into one chunk rather than
	// emitted one-per-symbol, mirroring group_nodes_into_chunks's
	// current_nodes/current_tokens accumulation.
	var pending []segment
	pendingTokens := 0

	flushPending := func() error {
		if len(pending) == 0 {
			return nil
		}
		segChunks, err := c.packSymbolGroup(item, cfg, pending, lang, &index)
		if err != nil {
			return err
		}
		chunks = append(chunks, segChunks...)
		pending = nil
		pendingTokens = 0
		return nil
	}

	for _, seg := range segments {
		if seg.symbol == nil {
			text := item.Content[seg.start:seg.end]
			if strings.TrimSpace(text) == "" {
				continue // whitespace-only glue never breaks a run of packable spans
			}
			if err := flushPending(); err != nil {
				return nil, err
			}
			segChunks, err := c.glueSegment(ctx, item, cfg, seg, &index)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, segChunks...)
			continue
		}

		tokenCount := c.tok.Count(item.Content[seg.start:seg.end])

		if tokenCount > cfg.ChunkSize {
			if err := flushPending(); err != nil {
				return nil, err
			}
			segChunks, err := c.packSymbolGroup(item, cfg, []segment{seg}, lang, &index)
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, segChunks...)
			continue
		}

		if pendingTokens > 0 && pendingTokens+tokenCount > cfg.ChunkSize {
			if err := flushPending(); err != nil {
				return nil, err
			}
		}
		pending = append(pending, seg)
		pendingTokens += tokenCount
	}
	if err := flushPending(); err != nil {
		return nil, err
	}

	if len(chunks) == 0 {
		return c.degradeToRecursive(ctx, item, cfg)
	}

	return chunks, nil
}

// resolveSymbols returns the chunk-point symbols to pack, preferring the
// caller-supplied entity hint list, then language-specific parsing.
// Without entity hints, ok is false when the language is unsupported, the
// Go parse fails, or the heuristic scan finds no chunk points, signalling
// the caller to degrade wholesale to RecursiveChunker. A Go file that
// parses but declares nothing returns ok=true with no symbols.
func (c *Chunker) resolveSymbols(item domain.SourceItem, lang Language, hasLang bool) ([]domain.Symbol, bool) {
	if len(item.Entities) > 0 {
		symbols := make([]domain.Symbol, len(item.Entities))
		for i, e := range item.Entities {
			symbols[i] = domain.Symbol{Name: e.Name, Kind: e.Kind, StartLine: e.StartLine, EndLine: e.EndLine}
		}
		return symbols, true
	}

	if !hasLang {
		return nil, false
	}

	if lang == LangGo {
		symbols, err := parseGo(item.Content)
		if err != nil {
			return nil, false
		}
		return symbols, true
	}

	symbols := parseHeuristic(item.Content, lang)
	if len(symbols) == 0 {
		return nil, false
	}
	return symbols, true
}

func (c *Chunker) degradeToRecursive(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	chunks, err := c.fallback.Chunk(ctx, item, cfg)
	if err != nil {
		return nil, err
	}
	for i := range chunks {
		chunks[i].Metadata = domain.WithMetadata(chunks[i].Metadata, domain.MetaCodeFallback, true)
	}
	return chunks, nil
}

// span is a symbol extended to byte offsets, with its doc-comment span
// already folded into StartLine by the parser.
type span struct {
	symbol domain.Symbol
	start  int
	end    int
}

func computeLineOffsets(content string) []int {
	offsets := []int{0}
	for i, r := range content {
		if r == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func lineToByte(lineOffsets []int, line int) int {
	idx := line - 1
	if idx < 0 {
		return 0
	}
	if idx >= len(lineOffsets) {
		return lineOffsets[len(lineOffsets)-1]
	}
	return lineOffsets[idx]
}

func symbolsToSpans(symbols []domain.Symbol, content string, lineOffsets []int) []span {
	spans := make([]span, 0, len(symbols))
	for _, s := range symbols {
		start := lineToByte(lineOffsets, s.StartLine)
		end := lineToByte(lineOffsets, s.EndLine+1)
		if end > len(content) {
			end = len(content)
		}
		if end <= start {
			continue
		}
		spans = append(spans, span{symbol: s, start: start, end: end})
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// segment is either a symbol span or a glue range between/around spans.
type segment struct {
	symbol *domain.Symbol
	start  int
	end    int
}

// buildSegments walks the sorted spans and produces the full ordered
// sequence of symbol segments interleaved with glue segments covering
// everything the spans don't (prologue, imports, loose statements,
// blank lines between definitions).
func buildSegments(spans []span, contentLen int) []segment {
	var segments []segment
	cursor := 0
	for _, s := range spans {
		start := s.start
		if start < cursor {
			start = cursor
		}
		if start > cursor {
			segments = append(segments, segment{start: cursor, end: start})
		}
		if s.end > start {
			sym := s.symbol
			segments = append(segments, segment{symbol: &sym, start: start, end: s.end})
			cursor = s.end
		}
	}
	if cursor < contentLen {
		segments = append(segments, segment{start: cursor, end: contentLen})
	}
	return segments
}

// packSymbolGroup builds one chunk from a run of consecutive symbol
// spans, joining their source text the way group_nodes_into_chunks joins
// accumulated node texts. A single oversize span (tokenCount over
// cfg.ChunkSize) is still passed through here as a one-element group so
// it gets the same metadata shape, just flagged oversize.
func (c *Chunker) packSymbolGroup(item domain.SourceItem, cfg domain.ChunkConfig, segs []segment, lang Language, index *int) ([]domain.Chunk, error) {
	if len(segs) == 0 {
		return nil, nil
	}

	texts := make([]string, 0, len(segs))
	for _, seg := range segs {
		t := item.Content[seg.start:seg.end]
		if strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}
	text := strings.Join(texts, "\n\n")
	tokenCount := c.tok.Count(text)

	meta := shared.BaseMetadata(item)
	if lang != "" {
		meta = domain.WithMetadata(meta, domain.MetaLanguage, string(lang))
	}
	if p, ok := pathMeta(item); ok {
		meta = domain.WithMetadata(meta, domain.MetaPath, p)
	}

	names := make([]string, len(segs))
	for i, seg := range segs {
		names[i] = seg.symbol.Name
	}
	meta = domain.WithMetadata(meta, domain.MetaSymbolName, strings.Join(names, ","))
	if parent, ok := commonParent(segs); ok {
		meta = domain.WithMetadata(meta, domain.MetaParentSymbol, parent)
	}
	meta = domain.WithMetadata(meta, domain.MetaLineRange, [2]int{segs[0].symbol.StartLine, segs[len(segs)-1].symbol.EndLine})

	if tokenCount > cfg.ChunkSize {
		meta = domain.WithMetadata(meta, domain.MetaOversize, true)
		meta = domain.WithMetadata(meta, domain.MetaWarning, "chunk exceeds configured chunk_size: atomic symbol span")
	}

	chunk := shared.NewChunk(item, text, tokenCount, segs[0].start, segs[len(segs)-1].end, *index, meta)
	*index++
	return []domain.Chunk{chunk}, nil
}

// commonParent returns the shared parent symbol name across segs, if all
// of them share one; packed groups with mixed or missing parents carry
// no parent_symbol metadata rather than a misleading single value.
func commonParent(segs []segment) (string, bool) {
	if segs[0].symbol.Parent == "" {
		return "", false
	}
	parent := segs[0].symbol.Parent
	for _, seg := range segs[1:] {
		if seg.symbol.Parent != parent {
			return "", false
		}
	}
	return parent, true
}

func (c *Chunker) glueSegment(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig, seg segment, index *int) ([]domain.Chunk, error) {
	text := item.Content[seg.start:seg.end]
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	glueItem := item
	glueItem.Content = text
	glueItem.Entities = nil

	chunks, err := c.fallback.Chunk(ctx, glueItem, cfg)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		ch.StartIndex += seg.start
		ch.EndIndex += seg.start
		ch.ChunkIndex = *index
		*index++
		out = append(out, ch)
	}
	return out, nil
}

func pathMeta(item domain.SourceItem) (string, bool) {
	if item.Metadata == nil {
		return "", false
	}
	v, ok := item.Metadata["path"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
