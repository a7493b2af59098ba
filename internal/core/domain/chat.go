package domain

import "time"

// MessageRole identifies the author of a chat message.
type MessageRole string

// Chat message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one turn of the conversation history.
// Messages are immutable once created; history is append-only.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// Role is who authored the message.
	Role MessageRole

	// Content is the message text.
	Content string

	// Timestamp is when the message was created.
	Timestamp time.Time

	// Sources lists the passages an assistant answer was built from.
	// Nil for user messages and for answers with no retrieved context.
	Sources []DocumentSource
}

// DocumentSource attributes part of an assistant answer to a stored chunk.
// It is a derived, read-only projection created at generation time.
type DocumentSource struct {
	// DocumentID is the parent document of the cited chunk.
	DocumentID string

	// DocumentName is the parent document's display name.
	DocumentName string

	// ChunkID is the cited chunk.
	ChunkID string

	// Excerpt is the chunk content supplied to the generator.
	Excerpt string

	// Page is the chunk's page number, when known.
	Page *int

	// Relevance is the cosine similarity between the question and the
	// chunk embedding, in [0,1].
	Relevance float64
}

// Answer is the result of one question against the indexed corpus.
type Answer struct {
	// Message is the persisted assistant message, including sources.
	Message ChatMessage

	// Confidence is the mean source relevance, 0 when there are no
	// sources. It is a relative strength signal, not a calibrated
	// probability.
	Confidence float64
}
