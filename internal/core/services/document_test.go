package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docuchat/internal/core/domain"
)

func TestDocumentService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store)

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	require.NoError(t, store.PutDocument(ctx,
		&domain.Document{ID: "d1", Name: "old.txt", UploadedAt: older},
		[]domain.Chunk{{ID: "c1", DocumentID: "d1", Content: "x", Embedding: []float32{1}}}))
	require.NoError(t, store.PutDocument(ctx,
		&domain.Document{ID: "d2", Name: "new.txt", UploadedAt: newer},
		[]domain.Chunk{{ID: "c2", DocumentID: "d2", Content: "y", Embedding: []float32{1}}}))

	docs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[0].ID, "newest first")

	doc, err := svc.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "old.txt", doc.Name)

	require.NoError(t, svc.Delete(ctx, "d1"))

	_, err = svc.Get(ctx, "d1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The delete cascaded to the document's chunks.
	chunks, err := store.ListAllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "c2", chunks[0].ID)
}

func TestDocumentService_DeleteUnknown(t *testing.T) {
	svc := NewDocumentService(memory.NewDocumentStore())
	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Statistics(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store)

	require.NoError(t, store.PutDocument(ctx,
		&domain.Document{ID: "d1", Name: "a.txt", SizeBytes: 100},
		[]domain.Chunk{
			{ID: "c1", DocumentID: "d1", Content: "x", Embedding: []float32{1}},
			{ID: "c2", DocumentID: "d1", Content: "y", Embedding: []float32{1}},
		}))

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, int64(100), stats.TotalBytes)
}
