package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// AskOptions configures one question against the corpus.
type AskOptions struct {
	// TopK is the maximum number of source passages, default 5.
	TopK int

	// DocumentIDs restricts retrieval to the given documents.
	// Empty means the whole corpus.
	DocumentIDs []string
}

// Chatter answers questions from retrieved passages with citations.
type Chatter interface {
	// Ask embeds the question, retrieves context, generates an answer
	// and persists both sides of the turn. A generation failure still
	// yields a persisted assistant message describing the failure, so
	// conversation continuity is preserved.
	Ask(ctx context.Context, question string, opts AskOptions) (*domain.Answer, error)

	// History returns up to limit messages in chronological order.
	History(ctx context.Context, limit int) ([]domain.ChatMessage, error)

	// ClearHistory removes the entire chat history.
	ClearHistory(ctx context.Context) error
}
