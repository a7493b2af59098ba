// Package pdf extracts text from PDF files.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles PDF documents. Text is extracted per page and each
// page is prefixed with a "--- Page N ---" marker so chunks can be
// attributed back to their page.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"pdf"}
}

// Extract returns the text of every page, page markers included.
// Pages that yield no text are skipped rather than failing the whole
// document; scanned image-only PDFs produce an extraction error.
func (e *Extractor) Extract(ctx context.Context, file driven.RawFile) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %w", domain.ErrExtraction, file.Name, err)
	}

	var b strings.Builder
	extracted := 0
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Skipping page %d of %s: %v", pageNum, file.Name, err)
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if extracted > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("--- Page %d ---\n", pageNum))
		b.WriteString(text)
		extracted++
	}

	if extracted == 0 {
		return "", fmt.Errorf("%w: no extractable text in %s", domain.ErrExtraction, file.Name)
	}

	logger.Debug("Extracted %d of %d pages from %s", extracted, reader.NumPage(), file.Name)
	return b.String(), nil
}
