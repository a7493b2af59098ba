package driven

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// DocumentStore persists documents, chunks and chat history.
// Backed by SQLite for local-first storage.
type DocumentStore interface {
	// PutDocument stores a document together with its chunks as one
	// atomic unit. A concurrent reader never observes the document
	// without its chunks or vice versa.
	PutDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all stored documents, newest first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document and cascades to its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListAllChunks returns every stored chunk. This is the search
	// population for the brute-force similarity scan.
	ListAllChunks(ctx context.Context) ([]domain.Chunk, error)

	// AppendChatMessage appends one message to the chat history.
	AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error

	// ListChatMessages returns up to limit messages in chronological
	// order. limit <= 0 means all.
	ListChatMessages(ctx context.Context, limit int) ([]domain.ChatMessage, error)

	// ClearChatMessages removes the entire chat history.
	ClearChatMessages(ctx context.Context) error

	// Statistics reports corpus counters.
	Statistics(ctx context.Context) (*domain.StoreStatistics, error)

	// Close releases resources.
	Close() error
}
