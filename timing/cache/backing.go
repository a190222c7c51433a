package cache

// TrafficCounter is a BackingStore that accounts for the word traffic
// between the cache and main memory.
type TrafficCounter struct {
	// FetchedWords is the total number of words brought into the cache.
	FetchedWords uint64
	// WrittenWords is the total number of words written back.
	WrittenWords uint64
}

// FetchBlock records a block fetch.
func (t *TrafficCounter) FetchBlock(addr uint64, words int) {
	t.FetchedWords += uint64(words)
}

// WritebackBlock records a block writeback.
func (t *TrafficCounter) WritebackBlock(addr uint64, words int) {
	t.WrittenWords += uint64(words)
}
