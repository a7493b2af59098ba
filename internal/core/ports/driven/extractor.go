package driven

import "context"

// RawFile is an un-extracted input file handed to the ingester.
type RawFile struct {
	// Name is the original file name, extension included.
	Name string

	// Data is the raw file content.
	Data []byte
}

// TextExtractor converts one file format into plain extracted text.
// Extraction may be slow and may fail; the core only depends on the
// extract(file) -> text capability, never on format internals.
//
// Implementations for paginated formats embed page markers of the form
// "--- Page N ---" in the returned text so the chunker can attribute
// page numbers to chunks.
type TextExtractor interface {
	// Extract returns the plain text content of the file.
	Extract(ctx context.Context, file RawFile) (string, error)

	// SupportedExtensions returns the lower-case file extensions this
	// extractor handles, without the leading dot.
	SupportedExtensions() []string
}

// ExtractorRegistry selects the extractor for a file.
type ExtractorRegistry interface {
	// Extract finds an extractor by the file's extension and runs it.
	// Returns domain.ErrUnsupportedType when no extractor matches.
	Extract(ctx context.Context, file RawFile) (string, error)

	// Register adds an extractor for its supported extensions.
	Register(extractor TextExtractor)
}
