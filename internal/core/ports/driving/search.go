package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// Searcher exposes raw similarity retrieval to external actors.
type Searcher interface {
	// Search embeds the query text and ranks the stored chunks against
	// it under the given topK/threshold policy.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.SearchResult, error)
}
