// Package ticketing implements TicketingChunker: parses a structured
// ticket (JSON or labelled plain-text sections) into one description
// chunk and one chunk per comment.
package ticketing

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/basilwick/chunkline/internal/chunkers/shared"
	"github.com/basilwick/chunkline/internal/core/domain"
	"github.com/basilwick/chunkline/internal/core/ports/driven"
)

const Name = "ticketing"

type Chunker struct {
	tok      driven.Tokenizer
	fallback driven.Chunker
}

func New(tok driven.Tokenizer, fallback driven.Chunker) *Chunker {
	return &Chunker{tok: tok, fallback: fallback}
}

func (c *Chunker) Name() string { return Name }

type comment struct {
	author string
	body   string
}

type ticket struct {
	title       string
	status      string
	priority    string
	description string
	comments    []comment
}

func (c *Chunker) Chunk(ctx context.Context, item domain.SourceItem, cfg domain.ChunkConfig) ([]domain.Chunk, error) {
	if item.Content == "" {
		return nil, nil
	}

	var t ticket
	var err error
	if item.ContentType == "application/json" {
		t, err = parseJSONTicket(item.Content)
	} else {
		t = parsePlainTicket(item.Content)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	var chunks []domain.Chunk
	index := 0

	header := describeHeader(t)
	descContent := strings.TrimSpace(header + "\n\n" + t.description)
	if descContent != "" {
		if c.tok.Count(descContent) <= cfg.ChunkSize {
			meta := shared.BaseMetadata(item)
			meta = domain.WithMetadata(meta, domain.MetaContentType, domain.ContentTypeDescription)
			chunks = append(chunks, shared.NewChunk(item, descContent, c.tok.Count(descContent), 0, len(descContent), index, meta))
			index++
		} else {
			subItem := item
			subItem.Content = descContent
			subChunks, err := c.fallback.Chunk(ctx, subItem, cfg)
			if err != nil {
				return nil, err
			}
			for _, sub := range subChunks {
				sub.ChunkIndex = index
				index++
				sub.Metadata = domain.WithMetadata(sub.Metadata, domain.MetaContentType, domain.ContentTypeDescription)
				chunks = append(chunks, sub)
			}
		}
	}

	for _, cm := range t.comments {
		content := strings.TrimSpace(cm.body)
		if content == "" {
			continue
		}
		tokenCount := c.tok.Count(content)
		if tokenCount > cfg.ChunkSize {
			subItem := item
			subItem.Content = content
			subChunks, err := c.fallback.Chunk(ctx, subItem, cfg)
			if err != nil {
				return nil, err
			}
			for _, sub := range subChunks {
				sub.ChunkIndex = index
				index++
				sub.Metadata = domain.WithMetadata(sub.Metadata, domain.MetaContentType, domain.ContentTypeComment)
				sub.Metadata = domain.WithMetadata(sub.Metadata, domain.MetaAuthor, cm.author)
				chunks = append(chunks, sub)
			}
			continue
		}

		meta := shared.BaseMetadata(item)
		meta = domain.WithMetadata(meta, domain.MetaContentType, domain.ContentTypeComment)
		meta = domain.WithMetadata(meta, domain.MetaAuthor, cm.author)
		chunks = append(chunks, shared.NewChunk(item, content, tokenCount, 0, len(content), index, meta))
		index++
	}

	return chunks, nil
}

func describeHeader(t ticket) string {
	var b strings.Builder
	if t.title != "" {
		fmt.Fprintf(&b, "Title: %s\n", t.title)
	}
	if t.status != "" {
		fmt.Fprintf(&b, "Status: %s\n", t.status)
	}
	if t.priority != "" {
		fmt.Fprintf(&b, "Priority: %s\n", t.priority)
	}
	return strings.TrimRight(b.String(), "\n")
}

type jsonTicket struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
	Comments    []struct {
		Author string `json:"author"`
		Body   string `json:"body"`
	} `json:"comments"`
}

func parseJSONTicket(content string) (ticket, error) {
	var jt jsonTicket
	if err := json.Unmarshal([]byte(content), &jt); err != nil {
		return ticket{}, err
	}
	t := ticket{title: jt.Title, status: jt.Status, priority: jt.Priority, description: jt.Description}
	for _, c := range jt.Comments {
		t.comments = append(t.comments, comment{author: c.Author, body: c.Body})
	}
	return t, nil
}

var (
	labelRE   = regexp.MustCompile(`^(Title|Status|Priority|Description|Comments):\s*(.*)$`)
	commentRE = regexp.MustCompile(`^-\s*([^:]+):\s*(.*)$`)
)

// parsePlainTicket parses the labelled plain-text layout: Title:,
// Status:, Priority:, Description:, Comments: (comments introduced by
// "- <author>:").
func parsePlainTicket(content string) ticket {
	var t ticket
	lines := strings.Split(content, "\n")

	section := ""
	var descLines []string
	var cur *comment

	flushComment := func() {
		if cur != nil {
			t.comments = append(t.comments, *cur)
			cur = nil
		}
	}

	for _, line := range lines {
		if m := labelRE.FindStringSubmatch(line); m != nil {
			flushComment()
			section = m[1]
			switch section {
			case "Title":
				t.title = strings.TrimSpace(m[2])
			case "Status":
				t.status = strings.TrimSpace(m[2])
			case "Priority":
				t.priority = strings.TrimSpace(m[2])
			case "Description":
				if m[2] != "" {
					descLines = append(descLines, m[2])
				}
			}
			continue
		}

		switch section {
		case "Description":
			descLines = append(descLines, line)
		case "Comments":
			if m := commentRE.FindStringSubmatch(line); m != nil {
				flushComment()
				cur = &comment{author: strings.TrimSpace(m[1]), body: strings.TrimSpace(m[2])}
				continue
			}
			if cur != nil {
				cur.body += "\n" + line
			}
		}
	}
	flushComment()

	t.description = strings.TrimSpace(strings.Join(descLines, "\n"))
	return t
}
