package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// DefaultEmbedConcurrency is the default number of concurrent embedding
// workers. Embedding is compute-bound on the local model server, so the
// pool stays small: unbounded fan-out would thrash it, serial processing
// is too slow for multi-page documents.
const DefaultEmbedConcurrency = 5

// EmbedProgressFunc receives (completed, total) after each chunk embeds.
// Completion order across workers is unspecified; only the final state
// (all chunks embedded) is guaranteed.
type EmbedProgressFunc func(completed, total int)

// EmbeddingPipeline drains a chunk queue through a bounded pool of
// concurrent workers calling the embedding service.
type EmbeddingPipeline struct {
	embedder    driven.EmbeddingService
	concurrency int
}

// NewEmbeddingPipeline creates an embedding pipeline.
// A non-positive concurrency falls back to the default.
func NewEmbeddingPipeline(embedder driven.EmbeddingService, concurrency int) *EmbeddingPipeline {
	if concurrency <= 0 {
		concurrency = DefaultEmbedConcurrency
	}
	return &EmbeddingPipeline{
		embedder:    embedder,
		concurrency: concurrency,
	}
}

// EmbedAll computes an embedding for every chunk in place.
//
// min(concurrency, len(chunks)) workers share an atomic index cursor
// into the chunk slice; each worker claims the next index, embeds it
// and advances a shared completed counter. The first failure cancels
// the remaining work and aborts the whole pipeline - a partially
// embedded chunk set is never reported as success.
func (p *EmbeddingPipeline) EmbedAll(ctx context.Context, chunks []domain.Chunk, onProgress EmbedProgressFunc) error {
	if p.embedder == nil {
		return fmt.Errorf("%w: embedding service", domain.ErrNotInitialised)
	}
	if len(chunks) == 0 {
		return nil
	}

	workers := p.concurrency
	if workers > len(chunks) {
		workers = len(chunks)
	}

	dims := p.embedder.Dimensions()
	total := len(chunks)

	logger.Debug("Embedding %d chunks with %d workers", total, workers)

	var next atomic.Int64
	var completed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				i := int(next.Add(1)) - 1
				if i >= total {
					return nil
				}

				embedding, err := p.embedder.Embed(ctx, chunks[i].Content)
				if err != nil {
					return fmt.Errorf("%w: chunk %d of %d: %w", domain.ErrEmbedding, i+1, total, err)
				}
				if dims > 0 && len(embedding) != dims {
					return fmt.Errorf("%w: chunk %d: got %d dimensions, model declares %d",
						domain.ErrDimensionMismatch, i+1, len(embedding), dims)
				}

				chunks[i].Embedding = embedding

				done := int(completed.Add(1))
				if onProgress != nil {
					onProgress(done, total)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Debug("Embedded %d chunks", total)
	return nil
}
