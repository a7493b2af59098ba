package domain

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// TopK is the maximum number of chunks to return.
	TopK int

	// Threshold is the minimum cosine similarity for a chunk to be
	// considered relevant.
	Threshold float64

	// DocumentIDs restricts the searched population to the given
	// documents. The filter is applied before scoring so a narrow
	// filter cannot under-fill the result set. Empty means all.
	DocumentIDs []string
}

// ScoredChunk pairs a chunk with its similarity to the query.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity to the query vector.
	Score float64
}

// SearchResult is a transient ranked retrieval result. It is never
// persisted.
type SearchResult struct {
	// Results are the matched chunks, sorted by descending score.
	// Ties keep the original population order.
	Results []ScoredChunk

	// TotalResults is the count of returned chunks.
	TotalResults int

	// MaxRelevance is the highest score over the returned set, 0 when
	// the set is empty.
	MaxRelevance float64

	// AverageRelevance is the mean score over the returned set, 0 when
	// the set is empty.
	AverageRelevance float64
}
