package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// DocumentManager provides document lifecycle operations to external actors.
type DocumentManager interface {
	// List returns all stored documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Delete removes a document and all of its chunks.
	Delete(ctx context.Context, id string) error

	// Statistics reports corpus counters.
	Statistics(ctx context.Context) (*domain.StoreStatistics, error)
}
