package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches files to extractors by file extension.
type Registry struct {
	mu         sync.RWMutex
	byExt      map[string]driven.TextExtractor
	extensions []string
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.TextExtractor),
	}
}

// Register adds an extractor for each of its supported extensions.
// A later registration for the same extension wins.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extractor.SupportedExtensions() {
		ext = strings.ToLower(ext)
		if _, exists := r.byExt[ext]; !exists {
			r.extensions = append(r.extensions, ext)
		}
		r.byExt[ext] = extractor
		logger.Debug("Registered extractor for .%s", ext)
	}
}

// Extract selects the extractor matching the file's extension and runs it.
func (r *Registry) Extract(ctx context.Context, file driven.RawFile) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Name)), ".")

	r.mu.RLock()
	extractor, ok := r.byExt[ext]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: .%s (supported: %s)",
			domain.ErrUnsupportedType, ext, strings.Join(r.SupportedExtensions(), ", "))
	}

	return extractor.Extract(ctx, file)
}

// SupportedExtensions returns every registered extension.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.extensions...)
}
