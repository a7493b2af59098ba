package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

// Fake services backing the command tests.

type fakeIngester struct {
	ingested  []string
	ingestErr error
}

func (f *fakeIngester) Ingest(
	_ context.Context, file driven.RawFile, onProgress driving.ProgressFunc,
) (*domain.Document, error) {
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	if onProgress != nil {
		onProgress(domain.IngestProgress{Stage: domain.StageExtracting, Percent: 30, Message: "Extracting text"})
		onProgress(domain.IngestProgress{Stage: domain.StageComplete, Percent: 100, Message: "Done"})
	}
	f.ingested = append(f.ingested, file.Name)
	return &domain.Document{
		ID:        "doc-1",
		Name:      file.Name,
		Type:      "txt",
		SizeBytes: int64(len(file.Data)),
	}, nil
}

func (f *fakeIngester) IngestAll(
	ctx context.Context, files []driven.RawFile, onProgress driving.ProgressFunc,
) []driving.BatchItem {
	items := make([]driving.BatchItem, 0, len(files))
	for _, file := range files {
		doc, err := f.Ingest(ctx, file, onProgress)
		items = append(items, driving.BatchItem{FileName: file.Name, Document: doc, Err: err})
	}
	return items
}

type fakeChatter struct {
	askErr   error
	history  []domain.ChatMessage
	cleared  bool
	lastOpts driving.AskOptions
}

func (f *fakeChatter) Ask(
	_ context.Context, question string, opts driving.AskOptions,
) (*domain.Answer, error) {
	if f.askErr != nil {
		return nil, f.askErr
	}
	f.lastOpts = opts
	page := 3
	return &domain.Answer{
		Message: domain.ChatMessage{
			ID:      "msg-1",
			Role:    domain.RoleAssistant,
			Content: fmt.Sprintf("Answer to: %s", question),
			Sources: []domain.DocumentSource{
				{DocumentID: "doc-1", DocumentName: "vacation.md", ChunkID: "c-1", Relevance: 0.91},
				{DocumentID: "doc-1", DocumentName: "vacation.md", ChunkID: "c-2", Page: &page, Relevance: 0.84},
			},
		},
		Confidence: 0.87,
	}, nil
}

func (f *fakeChatter) History(_ context.Context, limit int) ([]domain.ChatMessage, error) {
	if limit > 0 && len(f.history) > limit {
		return f.history[len(f.history)-limit:], nil
	}
	return f.history, nil
}

func (f *fakeChatter) ClearHistory(_ context.Context) error {
	f.cleared = true
	f.history = nil
	return nil
}

type fakeSearcher struct {
	result    *domain.SearchResult
	searchErr error
}

func (f *fakeSearcher) Search(
	_ context.Context, _ string, _ domain.SearchOptions,
) (*domain.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.result != nil {
		return f.result, nil
	}
	return &domain.SearchResult{
		Results: []domain.ScoredChunk{
			{Chunk: domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "the vacation policy allows 25 days"}, Score: 0.92},
		},
		TotalResults:     1,
		MaxRelevance:     0.92,
		AverageRelevance: 0.92,
	}, nil
}

type fakeDocumentManager struct {
	docs      []domain.Document
	deleted   []string
	deleteErr error
}

func (f *fakeDocumentManager) List(_ context.Context) ([]domain.Document, error) {
	return f.docs, nil
}

func (f *fakeDocumentManager) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDocumentManager) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocumentManager) Statistics(_ context.Context) (*domain.StoreStatistics, error) {
	return &domain.StoreStatistics{
		Documents:  len(f.docs),
		Chunks:     len(f.docs) * 3,
		TotalBytes: 2048,
	}, nil
}

type fakeSettingsManager struct {
	settings domain.AppSettings
}

func (f *fakeSettingsManager) Get() domain.AppSettings {
	return f.settings
}

func (f *fakeSettingsManager) Save(settings domain.AppSettings) error {
	f.settings = settings
	return nil
}

func (f *fakeSettingsManager) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.Embedding.Provider = provider
	f.settings.Embedding.Model = model
	f.settings.Embedding.APIKey = apiKey
	return nil
}

func (f *fakeSettingsManager) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.LLM.Provider = provider
	f.settings.LLM.Model = model
	f.settings.LLM.APIKey = apiKey
	return nil
}

func (f *fakeSettingsManager) SetChunking(chunkSize, overlap int) error {
	f.settings.Chunking.ChunkSize = chunkSize
	f.settings.Chunking.Overlap = overlap
	return nil
}

func (f *fakeSettingsManager) SetRetrieval(topK int, threshold float64) error {
	f.settings.Retrieval.TopK = topK
	f.settings.Retrieval.Threshold = threshold
	return nil
}

// testServices holds the fakes wired by setupTestServices so tests can
// inspect them after executing a command.
type testServices struct {
	ingester  *fakeIngester
	chatter   *fakeChatter
	searcher  *fakeSearcher
	documents *fakeDocumentManager
	settings  *fakeSettingsManager
}

// setupTestServices wires fake services into the command tree and
// returns them with a cleanup function restoring the previous state.
func setupTestServices() (*testServices, func()) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	processed := now.Add(time.Minute)

	svcs := &testServices{
		ingester: &fakeIngester{},
		chatter: &fakeChatter{
			history: []domain.ChatMessage{
				{ID: "m-1", Role: domain.RoleUser, Content: "how many vacation days?", Timestamp: now},
				{ID: "m-2", Role: domain.RoleAssistant, Content: "You get 25 days.", Timestamp: now.Add(time.Second)},
			},
		},
		searcher: &fakeSearcher{},
		documents: &fakeDocumentManager{
			docs: []domain.Document{
				{
					ID: "doc-1", Name: "vacation.md", Type: "md", SizeBytes: 1024,
					UploadedAt: now, ProcessedAt: &processed,
				},
			},
		},
		settings: &fakeSettingsManager{settings: domain.DefaultAppSettings()},
	}

	SetServices(Services{
		Ingest:              svcs.ingester,
		Chat:                svcs.chatter,
		Search:              svcs.searcher,
		Documents:           svcs.documents,
		Settings:            svcs.settings,
		SupportedExtensions: []string{"txt", "md", "pdf"},
	})

	cleanup := func() {
		SetServices(Services{})
	}
	return svcs, cleanup
}
