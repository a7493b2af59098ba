package domain

import "time"

// Document represents an ingested file with its extracted text.
// A document is immutable once processed, except for deletion.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Name is the original file name.
	Name string

	// Type is the document type, derived from the file extension
	// (for example "pdf", "md", "txt").
	Type string

	// SizeBytes is the size of the original file.
	SizeBytes int64

	// Content is the full extracted text, including any page markers
	// produced by the extractor.
	Content string

	// UploadedAt is when the document was handed to the ingester.
	UploadedAt time.Time

	// ProcessedAt is when ingestion completed. Nil while the document
	// is still being processed.
	ProcessedAt *time.Time
}

// Chunk is a bounded, positioned excerpt of a document's extracted text.
// Chunks are the unit of embedding and retrieval. A chunk without an
// embedding is not searchable.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document. Deleting the document
	// cascades to its chunks.
	DocumentID string

	// Content is the trimmed text of this chunk.
	Content string

	// StartIndex and EndIndex are offsets into the parent document's
	// extracted text, satisfying 0 <= StartIndex < EndIndex <= len(content).
	// Chunks of one document are ordered by non-decreasing StartIndex.
	StartIndex int
	EndIndex   int

	// Page is the 1-based page number for paginated sources.
	// Nil when the source has no page structure.
	Page *int

	// Embedding is the vector representation for semantic search.
	// Nil until the embedding pipeline has processed the chunk.
	Embedding []float32
}

// Embedded reports whether the chunk carries a non-empty embedding.
func (c *Chunk) Embedded() bool {
	return len(c.Embedding) > 0
}

// StoreStatistics summarises the persisted corpus.
type StoreStatistics struct {
	// Documents is the number of stored documents.
	Documents int

	// Chunks is the number of stored chunks.
	Chunks int

	// TotalBytes is the combined size of the original files.
	TotalBytes int64
}
