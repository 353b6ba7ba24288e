package driven

// Tokenizer wraps a deterministic subword tokenizer (GPT-family BPE,
// cl100k-class). It is constructed once and shared; all methods are pure
// and safe for concurrent use by many workers.
type Tokenizer interface {
	// Count returns the number of tokens text encodes to.
	Count(text string) int

	// Encode returns the token ids for text.
	Encode(text string) []int

	// Decode reconstructs text from token ids.
	Decode(tokens []int) string

	// OffsetTable encodes text and additionally returns, for every token
	// produced, the byte offset into text where that token's source
	// bytes begin. Used by TokenChunker to map window boundaries back to
	// byte offsets without re-encoding prefixes.
	OffsetTable(text string) (tokens []int, offsets []int)
}
