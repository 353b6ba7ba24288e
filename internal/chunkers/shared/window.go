package shared

// Window is a greedily-packed run of pieces whose combined token count
// stays within a chunk_size budget, plus the leading pieces carried
// forward from the previous window to express chunk_overlap.
type Window[T any] struct {
	Pieces       []T
	OverlapCount int // number of leading Pieces carried from the prior window
}

// PackWindows greedily packs pieces into windows bounded by chunkSize
// tokens (as measured by tokenCount), carrying trailing pieces whose
// combined token count is <= overlap into the start of the next window.
// Used by SentenceChunker, ChatChunker and TableChunker, which each pack
// a different unit (sentences, messages, rows) under the same discipline.
func PackWindows[T any](pieces []T, tokenCount func(T) int, chunkSize, overlap int) []Window[T] {
	if len(pieces) == 0 {
		return nil
	}

	var windows []Window[T]
	var current []T
	currentTokens := 0
	carried := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		windows = append(windows, Window[T]{Pieces: current, OverlapCount: carried})
		current = nil
		currentTokens = 0
	}

	for _, p := range pieces {
		n := tokenCount(p)
		if len(current) > 0 && currentTokens+n > chunkSize {
			flush()
			carried = carryOverlap(windows[len(windows)-1].Pieces, tokenCount, overlap, &current, &currentTokens)
		}
		current = append(current, p)
		currentTokens += n
	}
	flush()

	return windows
}

// carryOverlap seeds dst/dstTokens with the trailing pieces of prev whose
// combined token count is <= overlap, and returns how many pieces were
// carried.
func carryOverlap[T any](prev []T, tokenCount func(T) int, overlap int, dst *[]T, dstTokens *int) int {
	if overlap <= 0 || len(prev) == 0 {
		return 0
	}
	sum := 0
	start := len(prev)
	for i := len(prev) - 1; i >= 0; i-- {
		n := tokenCount(prev[i])
		if sum+n > overlap {
			break
		}
		sum += n
		start = i
	}
	carried := prev[start:]
	*dst = append(*dst, carried...)
	*dstTokens += sum
	return len(carried)
}
