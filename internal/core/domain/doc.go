// Package domain defines the core business entities for Docuchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document and its extracted text
//   - Chunk: A positioned, embeddable excerpt of a document
//   - ChatMessage: One turn of the question/answer history
//   - SearchResult: A transient ranked retrieval result
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
