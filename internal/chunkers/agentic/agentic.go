// Package agentic implements AgenticChunker: a heuristic boundary-scoring
// pass for mixed code+prose content. Opt-in only via an explicit strategy
// override; never selected by default routing.
package agentic

import (
	"context"
	"regexp"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "agentic"

type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

type candidate struct {
	line  int // index into lines
	score float64
}

var (
	headingRE    = regexp.MustCompile(`^#{1,6}\s`)
	defRE        = regexp.MustCompile(`^\s*(def|class|fn|function)\s+\w`)
	importRE     = regexp.MustCompile(`^\s*(import|use|from|require)\b`)
	blankLineVal = 0.2
	headingVal   = 1.0
	defVal       = 0.8
	importEndVal = 0.5
)

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	lines := strings.Split(item.Content, "\n")
	offsets := lineByteOffsets(lines)
	candidates := scoreCandidates(lines)

	soft := int(0.8 * float64(cfg.ChunkSize))
	lookahead := int(0.4 * float64(cfg.ChunkSize))
	if soft < 1 {
		soft = 1
	}

	var chunks []domain.Chunk
	lineStart := 0
	prevTail := ""

	for lineStart < len(lines) {
		tokens := 0
		cutLine := len(lines)
		bestScoreLine := -1
		bestScore := -1.0

		for i := lineStart; i < len(lines); i++ {
			n := c.tok.Count(lines[i])
			tokens += n

			if tokens >= soft {
				// Look for the best-scoring candidate within lookahead
				// tokens of this point; track it as we scan forward.
				if sc, ok := candidateScore(candidates, i); ok && sc > bestScore {
					bestScore = sc
					bestScoreLine = i
				}
			}

			if tokens >= cfg.ChunkSize {
				if bestScoreLine >= 0 {
					cutLine = bestScoreLine + 1
				} else {
					cutLine = i + 1
				}
				break
			}

			if tokens >= soft {
				// still within soft..hard window; allow further lookahead
				// up to lookahead tokens past the soft threshold before
				// forcing a cut even without a candidate.
				if tokens-soft >= lookahead && bestScoreLine < 0 {
					cutLine = i + 1
					break
				}
			}
		}

		if cutLine <= lineStart {
			cutLine = lineStart + 1
		}

		text := strings.Join(lines[lineStart:cutLine], "\n")
		content := prevTail + text
		if strings.TrimSpace(content) == "" {
			lineStart = cutLine
			continue
		}

		start := offsets[lineStart] - len(prevTail)
		if start < 0 {
			start = 0
		}
		end := len(item.Content)
		if cutLine < len(lines) {
			end = offsets[cutLine]
		}

		chunks = append(chunks, shared.NewChunk(item, content, c.tok.Count(content), start, end, len(chunks), shared.BaseMetadata(item)))

		prevTail = tailForOverlap(text, cfg.ChunkOverlap, c.tok)
		lineStart = cutLine
	}

	return chunks, nil
}

func lineByteOffsets(lines []string) []int {
	offsets := make([]int, len(lines)+1)
	cursor := 0
	for i, l := range lines {
		offsets[i] = cursor
		cursor += len(l) + 1
	}
	offsets[len(lines)] = cursor - 1
	if offsets[len(lines)] < 0 {
		offsets[len(lines)] = 0
	}
	return offsets
}

func scoreCandidates(lines []string) []candidate {
	var out []candidate
	inImportBlock := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case headingRE.MatchString(line):
			out = append(out, candidate{line: i, score: headingVal})
		case defRE.MatchString(line):
			out = append(out, candidate{line: i, score: defVal})
		case importRE.MatchString(line):
			inImportBlock = true
		case trimmed == "" && inImportBlock:
			inImportBlock = false
			out = append(out, candidate{line: i, score: importEndVal})
		case trimmed == "":
			out = append(out, candidate{line: i, score: blankLineVal})
		}
	}
	return out
}

func candidateScore(candidates []candidate, line int) (float64, bool) {
	best := -1.0
	found := false
	for _, c := range candidates {
		if c.line == line && c.score > best {
			best = c.score
			found = true
		}
	}
	return best, found
}

// tailForOverlap returns the trailing whitespace-aligned run of text
// whose token count is <= overlap, to prepend to the next chunk.
func tailForOverlap(text string, overlap int, tok driven.Tokenizer) string {
	if overlap <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	for start := len(lines) - 1; start >= 0; start-- {
		candidate := strings.Join(lines[start:], "\n")
		if tok.Count(candidate) > overlap {
			if start+1 < len(lines) {
				return strings.Join(lines[start+1:], "\n") + "\n"
			}
			return ""
		}
	}
	return text + "\n"
}
