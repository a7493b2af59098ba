package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.Searcher = (*SearchService)(nil)

// Default retrieval policy.
const (
	// DefaultTopK is the default maximum number of returned chunks.
	DefaultTopK = 5

	// DefaultThreshold is the default minimum cosine similarity.
	DefaultThreshold = 0.6
)

// SearchService ranks stored chunks against a query vector.
//
// The scan is brute-force cosine over the whole population: the target
// corpus is personal documents (thousands of chunks, not millions), so
// an O(n) exact scan beats the complexity of an approximate index and
// keeps results reproducible.
type SearchService struct {
	docStore driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewSearchService creates a new search service.
func NewSearchService(docStore driven.DocumentStore, embedder driven.EmbeddingService) *SearchService {
	return &SearchService{
		docStore: docStore,
		embedder: embedder,
	}
}

// Search embeds the query text and ranks the stored chunks against it.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding service", domain.ErrNotInitialised)
	}
	if s.docStore == nil {
		return nil, fmt.Errorf("%w: document store", domain.ErrNotInitialised)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.SearchResult{Results: []domain.ScoredChunk{}}, nil
	}

	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbedding, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(vector))

	population, err := s.docStore.ListAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	logger.Debug("Population: %d chunks", len(population))

	result, err := Rank(vector, population, opts)
	if err != nil {
		return nil, err
	}

	logger.Info("Search: %d results, max relevance %.3f", result.TotalResults, result.MaxRelevance)
	return result, nil
}

// Rank scores the population against the query vector and applies the
// topK/threshold policy.
//
// Only chunks with a non-empty embedding of matching dimensionality are
// scored. The DocumentIDs allow-list restricts the population BEFORE
// scoring, so a narrow filter cannot under-fill the result set. Sorting
// is stable: equal scores keep the original population order, making
// results deterministic.
func Rank(query []float32, population []domain.Chunk, opts domain.SearchOptions) (*domain.SearchResult, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	var allowed map[string]bool
	if len(opts.DocumentIDs) > 0 {
		allowed = make(map[string]bool, len(opts.DocumentIDs))
		for _, id := range opts.DocumentIDs {
			allowed[id] = true
		}
	}

	scored := make([]domain.ScoredChunk, 0, len(population))
	matched := 0
	mismatched := 0

	for i := range population {
		c := &population[i]
		if allowed != nil && !allowed[c.DocumentID] {
			continue
		}
		if !c.Embedded() {
			continue
		}
		if len(c.Embedding) != len(query) {
			mismatched++
			continue
		}
		matched++

		score := CosineSimilarity(query, c.Embedding)
		if score < opts.Threshold {
			continue
		}
		scored = append(scored, domain.ScoredChunk{Chunk: *c, Score: score})
	}

	// A population that only contains embeddings of a different
	// dimensionality means the corpus was indexed with another model.
	if matched == 0 && mismatched > 0 {
		return nil, fmt.Errorf("%w: query has %d dimensions, %d stored chunks differ",
			domain.ErrDimensionMismatch, len(query), mismatched)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > topK {
		scored = scored[:topK]
	}

	result := &domain.SearchResult{
		Results:      scored,
		TotalResults: len(scored),
	}
	if len(scored) > 0 {
		var sum float64
		for _, sc := range scored {
			sum += sc.Score
		}
		result.MaxRelevance = scored[0].Score
		result.AverageRelevance = sum / float64(len(scored))
	}

	return result, nil
}
