package driving

import (
	"context"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// ProgressFunc receives advisory progress events for an ingestion job.
// It may be nil. Events arrive from the goroutine running the job;
// implementations must be safe to call from there.
type ProgressFunc func(domain.IngestProgress)

// BatchItem is the outcome of one file in a batch ingestion.
type BatchItem struct {
	// FileName is the input file name.
	FileName string

	// Document is the ingested document, nil when Err is set.
	Document *domain.Document

	// Err is the per-file failure, nil on success.
	Err error
}

// Ingester turns raw files into indexed, searchable documents.
type Ingester interface {
	// Ingest runs the full pipeline for one file: extraction, chunking,
	// embedding, atomic persistence. Any stage failure aborts the job
	// and leaves no partial document behind.
	Ingest(ctx context.Context, file driven.RawFile, onProgress ProgressFunc) (*domain.Document, error)

	// IngestAll ingests files sequentially. One file's failure does not
	// abort the batch; per-file outcomes are collected in order.
	IngestAll(ctx context.Context, files []driven.RawFile, onProgress ProgressFunc) []BatchItem
}
