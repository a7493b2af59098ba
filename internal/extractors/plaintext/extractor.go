// Package plaintext extracts text from plain text and markup files.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles plain text documents. The bytes are taken as-is
// after UTF-8 validation and line ending normalisation.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{
		"txt",
		"md",
		"markdown",
		"csv",
		"json",
		"yaml",
		"yml",
		"toml",
		"log",
		"rst",
	}
}

// Extract returns the file content as text.
func (e *Extractor) Extract(_ context.Context, file driven.RawFile) (string, error) {
	if !utf8.Valid(file.Data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtraction, file.Name)
	}

	content := string(normaliseLineEndings(file.Data))
	return strings.TrimSpace(content), nil
}

// normaliseLineEndings converts CRLF and bare CR to LF.
func normaliseLineEndings(data []byte) []byte {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))
}
