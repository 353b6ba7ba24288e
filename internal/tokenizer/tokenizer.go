// Package tokenizer wraps a deterministic subword tokenizer shared by
// every chunker. It is the concrete implementation of
// internal/core/ports/driven.Tokenizer.
package tokenizer

import (
	"fmt"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Encoding name used across the fixed-bpe-tokenizer family: OpenAI's
// tiktoken cl100k_base, ~100k vocab, shared by GPT-3.5/GPT-4-class models.
const encodingName = "cl100k_base"

// BPETokenizer implements driven.Tokenizer over tiktoken-go's cl100k_base
// encoding. It holds no mutable state after construction and is safe for
// concurrent use by any number of chunker workers.
type BPETokenizer struct {
	enc *tiktoken.Tiktoken
}

// New constructs a BPETokenizer, loading the cl100k_base encoding once.
func New() (*BPETokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encodingName, err)
	}
	return &BPETokenizer{enc: enc}, nil
}

// Count returns the number of tokens text encodes to.
func (t *BPETokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// Encode returns the token ids for text.
func (t *BPETokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode reconstructs text from token ids.
func (t *BPETokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// OffsetTable encodes text and returns, per token, the byte offset in
// text where that token's source bytes begin. The offset is derived by
// decoding each token individually and accumulating its byte length; this
// assumes tokens decode deterministically in isolation, which holds for
// cl100k_base's byte-level BPE.
func (t *BPETokenizer) OffsetTable(text string) ([]int, []int) {
	tokens := t.enc.Encode(text, nil, nil)
	offsets := make([]int, len(tokens))
	cursor := 0
	for i, tok := range tokens {
		offsets[i] = cursor
		cursor += len(t.enc.Decode([]int{tok}))
	}
	return tokens, offsets
}
