package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenizer(t *testing.T) *BPETokenizer {
	t.Helper()
	tok, err := New()
	require.NoError(t, err)
	return tok
}

func TestBPETokenizer_CountIsPositive(t *testing.T) {
	tok := newTestTokenizer(t)
	n := tok.Count("The quick brown fox jumps over the lazy dog.")
	assert.Greater(t, n, 0)
}

func TestBPETokenizer_CountEmpty(t *testing.T) {
	tok := newTestTokenizer(t)
	assert.Equal(t, 0, tok.Count(""))
}

func TestBPETokenizer_EncodeDecodeRoundTrip(t *testing.T) {
	tok := newTestTokenizer(t)
	text := "hello, chunkline"
	tokens := tok.Encode(text)
	require.NotEmpty(t, tokens)
	assert.Equal(t, text, tok.Decode(tokens))
}

func TestBPETokenizer_Deterministic(t *testing.T) {
	tok := newTestTokenizer(t)
	text := "deterministic tokenization across calls"
	first := tok.Encode(text)
	second := tok.Encode(text)
	assert.Equal(t, first, second)
}

func TestBPETokenizer_CountMatchesEncodeLength(t *testing.T) {
	tok := newTestTokenizer(t)
	text := "count must equal len(encode(text))"
	assert.Equal(t, len(tok.Encode(text)), tok.Count(text))
}

func TestBPETokenizer_OffsetTableMonotonic(t *testing.T) {
	tok := newTestTokenizer(t)
	text := "offsets must be non-decreasing and within bounds"
	tokens, offsets := tok.OffsetTable(text)
	require.Equal(t, len(tokens), len(offsets))
	for i := 1; i < len(offsets); i++ {
		assert.LessOrEqual(t, offsets[i-1], offsets[i])
	}
	for _, off := range offsets {
		assert.GreaterOrEqual(t, off, 0)
		assert.LessOrEqual(t, off, len(text))
	}
}

func TestBPETokenizer_OffsetTableFirstIsZero(t *testing.T) {
	tok := newTestTokenizer(t)
	_, offsets := tok.OffsetTable("anything non-empty")
	require.NotEmpty(t, offsets)
	assert.Equal(t, 0, offsets[0])
}
