package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuchat/internal/chunker"
	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingester = (*IngestService)(nil)

// Progress percentages for the fixed stages. The embedding stage is
// mapped into the 70-90 band proportionally to completed chunks.
const (
	progressUploading  = 5
	progressExtracting = 30
	progressChunking   = 60
	progressEmbedStart = 70
	progressEmbedEnd   = 90
	progressIndexing   = 95
	progressComplete   = 100
)

// IngestService coordinates the ingestion pipeline:
// extraction -> chunking -> embedding -> atomic persistence.
type IngestService struct {
	extractors driven.ExtractorRegistry
	chunks     *chunker.Processor
	pipeline   *EmbeddingPipeline
	docStore   driven.DocumentStore
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	extractors driven.ExtractorRegistry,
	chunks *chunker.Processor,
	pipeline *EmbeddingPipeline,
	docStore driven.DocumentStore,
) *IngestService {
	return &IngestService{
		extractors: extractors,
		chunks:     chunks,
		pipeline:   pipeline,
		docStore:   docStore,
	}
}

// Ingest runs the full pipeline for one file.
//
// Stages run strictly in sequence; any failure transitions to the
// error terminal state, re-raises to the caller and leaves nothing
// half-indexed - persistence is the last step, after which the
// document is durable.
func (s *IngestService) Ingest(
	ctx context.Context, file driven.RawFile, onProgress driving.ProgressFunc,
) (*domain.Document, error) {
	doc, err := s.ingest(ctx, file, onProgress)
	if err != nil {
		emit(onProgress, domain.IngestProgress{
			Stage:   domain.StageError,
			Percent: progressComplete,
			Message: fmt.Sprintf("Failed to ingest %s", file.Name),
			Err:     err,
		})
		return nil, err
	}
	return doc, nil
}

func (s *IngestService) ingest(
	ctx context.Context, file driven.RawFile, onProgress driving.ProgressFunc,
) (*domain.Document, error) {
	if file.Name == "" || len(file.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}

	logger.Section("Ingest " + file.Name)

	doc := &domain.Document{
		ID:         uuid.New().String(),
		Name:       file.Name,
		Type:       documentType(file.Name),
		SizeBytes:  int64(len(file.Data)),
		UploadedAt: time.Now().UTC(),
	}

	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageUploading,
		Percent: progressUploading,
		Message: fmt.Sprintf("Reading %s", file.Name),
	})

	// 1. Extract text.
	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageExtracting,
		Percent: progressExtracting,
		Message: "Extracting text",
	})
	content, err := s.extractors.Extract(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", file.Name, err)
	}
	doc.Content = content
	logger.Debug("Extracted %d characters", len(content))

	// 2. Chunk.
	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageChunking,
		Percent: progressChunking,
		Message: "Splitting into chunks",
	})
	chunks, err := s.chunks.Chunk(doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", file.Name, err)
	}
	logger.Debug("Produced %d chunks", len(chunks))

	// 3. Embed all chunks, mapping completion into the 70-90 band.
	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageEmbedding,
		Percent: progressEmbedStart,
		Message: fmt.Sprintf("Embedding %d chunks", len(chunks)),
	})
	err = s.pipeline.EmbedAll(ctx, chunks, func(completed, total int) {
		band := progressEmbedEnd - progressEmbedStart
		emit(onProgress, domain.IngestProgress{
			Stage:   domain.StageEmbedding,
			Percent: progressEmbedStart + band*completed/total,
			Message: fmt.Sprintf("Embedded %d/%d chunks", completed, total),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", file.Name, err)
	}

	// 4. Persist document and chunks as one atomic unit.
	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageIndexing,
		Percent: progressIndexing,
		Message: "Saving to index",
	})
	now := time.Now().UTC()
	doc.ProcessedAt = &now
	if err := s.docStore.PutDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("persist %s: %w", file.Name, err)
	}

	emit(onProgress, domain.IngestProgress{
		Stage:   domain.StageComplete,
		Percent: progressComplete,
		Message: fmt.Sprintf("Indexed %s (%d chunks)", file.Name, len(chunks)),
	})

	logger.Info("Ingested %s: %d chunks", file.Name, len(chunks))
	return doc, nil
}

// IngestAll ingests files sequentially. One file's failure does not
// abort the batch; callers get per-file outcomes in input order.
func (s *IngestService) IngestAll(
	ctx context.Context, files []driven.RawFile, onProgress driving.ProgressFunc,
) []driving.BatchItem {
	items := make([]driving.BatchItem, 0, len(files))

	for _, file := range files {
		doc, err := s.Ingest(ctx, file, onProgress)
		if err != nil {
			logger.Warn("Batch: %s failed: %v", file.Name, err)
		}
		items = append(items, driving.BatchItem{
			FileName: file.Name,
			Document: doc,
			Err:      err,
		})
	}

	return items
}

// emit invokes the progress callback when one is set.
func emit(onProgress driving.ProgressFunc, p domain.IngestProgress) {
	if onProgress != nil {
		onProgress(p)
	}
}

// documentType derives the document type from the file extension.
func documentType(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		return "txt"
	}
	return ext
}
