// Package chat implements ChatChunker: groups chat messages into
// token-bounded conversation windows, accepting either a JSON message
// list or a plain-text "speaker: text" transcript.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "chat"

type Chunker struct {
	tok driven.Tokenizer
}

func New(tok driven.Tokenizer) *Chunker {
	return &Chunker{tok: tok}
}

func (c *Chunker) Name() string { return Name }

type message struct {
	user string
	text string
	ts   string
	line string // rendered "speaker: text" line
}

func (c *Chunker) Chunk(_ context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	var messages []message
	if item.ContentType == "application/json" {
		parsed, err := parseJSONMessages(item.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		messages = parsed
	} else {
		messages = parsePlainMessages(item.Content)
	}

	if len(messages) == 0 {
		return nil, nil
	}

	type piece struct {
		msg        message
		tokenCount int
	}
	pieces := make([]piece, len(messages))
	for i, m := range messages {
		pieces[i] = piece{msg: m, tokenCount: c.tok.Count(m.line)}
	}

	windows := shared.PackWindows(pieces, func(p piece) int { return p.tokenCount }, cfg.ChunkSize, cfg.ChunkOverlap)

	var chunks []domain.Chunk
	cursor := 0
	for i, w := range windows {
		var lines []string
		speakers := map[string]bool{}
		tokenCount := 0
		var tsFirst, tsLast string
		for j, p := range w.Pieces {
			lines = append(lines, p.msg.line)
			speakers[p.msg.user] = true
			tokenCount += p.tokenCount
			if j == 0 {
				tsFirst = p.msg.ts
			}
			tsLast = p.msg.ts
		}
		content := strings.Join(lines, "\n")
		if content == "" {
			continue
		}

		start := cursor
		end := start + len(content)
		cursor = end + 1

		meta := shared.BaseMetadata(item)
		meta = domain.WithMetadata(meta, domain.MetaAuthor, w.Pieces[0].msg.user)
		threadID := w.Pieces[0].msg.ts
		if threadID == "" {
			threadID = fmt.Sprintf("%s-%d", item.ID, i)
		}
		meta = domain.WithMetadata(meta, domain.MetaThreadID, threadID)
		meta = domain.WithMetadata(meta, domain.MetaSpeakers, sortedKeys(speakers))
		meta = domain.WithMetadata(meta, domain.MetaTimestamp, [2]string{tsFirst, tsLast})

		chunks = append(chunks, shared.NewChunk(item, content, tokenCount, start, end, len(chunks), meta))
	}

	return chunks, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type jsonPayload struct {
	Channel  string `json:"channel"`
	Messages []struct {
		User string `json:"user"`
		Text string `json:"text"`
		TS   string `json:"ts"`
	} `json:"messages"`
}

func parseJSONMessages(content string) ([]message, error) {
	var payload jsonPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, err
	}

	out := make([]message, 0, len(payload.Messages))
	for _, m := range payload.Messages {
		out = append(out, message{
			user: m.User,
			text: m.Text,
			ts:   m.TS,
			line: fmt.Sprintf("%s: %s", m.User, m.Text),
		})
	}
	return out, nil
}

// parsePlainMessages parses lines of form "^<speaker>: <text>$"; a blank
// line separates threads but both threads are still packed by the same
// token-budget windower (thread boundaries do not force a chunk split on
// their own, only the token budget does).
func parsePlainMessages(content string) []message {
	var out []message
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		idx := strings.Index(line, ": ")
		if idx < 0 {
			continue
		}
		speaker := line[:idx]
		text := line[idx+2:]
		out = append(out, message{user: speaker, text: text, line: line})
	}
	return out
}
