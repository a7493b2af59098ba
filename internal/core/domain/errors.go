package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChunkConfig indicates unusable chunking parameters,
	// for example an overlap that is not smaller than the chunk size.
	ErrInvalidChunkConfig = errors.New("invalid chunking configuration")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrExtraction indicates text extraction failed for a file.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding indicates the embedding service failed or is not
	// loaded.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration indicates the generation service failed or is not
	// loaded.
	ErrGeneration = errors.New("generation failed")

	// ErrDimensionMismatch indicates a query vector whose dimensionality
	// differs from the stored chunk embeddings. Mixing embeddings from
	// differently-dimensioned models is rejected rather than scored.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotInitialised indicates an operation was invoked before a
	// required collaborator was ready.
	ErrNotInitialised = errors.New("service not initialised")

	// ErrEmbeddingUnavailable indicates the configured embedding
	// provider could not be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the configured LLM provider could not
	// be created or reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
