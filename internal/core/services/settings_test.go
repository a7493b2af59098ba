package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// fakeConfigStore is an in-memory config store for settings tests.
type fakeConfigStore struct {
	data   map[string]any
	setErr error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{data: make(map[string]any)}
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	val, ok := f.data[key]
	return val, ok
}

func (f *fakeConfigStore) GetString(key string) string {
	if val, ok := f.data[key].(string); ok {
		return val
	}
	return ""
}

func (f *fakeConfigStore) GetInt(key string) int {
	switch v := f.data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (f *fakeConfigStore) GetFloat(key string) float64 {
	switch v := f.data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (f *fakeConfigStore) GetBool(key string) bool {
	if val, ok := f.data[key].(bool); ok {
		return val
	}
	return false
}

func (f *fakeConfigStore) Set(key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeConfigStore) Save() error { return nil }
func (f *fakeConfigStore) Load() error { return nil }
func (f *fakeConfigStore) Path() string {
	return "/tmp/config.toml"
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	settings := svc.Get()

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, settings)
}

func TestSettingsService_Get_MergesStoredValues(t *testing.T) {
	store := newFakeConfigStore()
	store.data["embedding.provider"] = "openai"
	store.data["embedding.model"] = "text-embedding-3-large"
	store.data["embedding.api_key"] = "sk-test"
	store.data["retrieval.top_k"] = int64(10)
	store.data["retrieval.threshold"] = 0.75

	svc := NewSettingsService(store)
	settings := svc.Get()

	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 10, settings.Retrieval.TopK)
	assert.InDelta(t, 0.75, settings.Retrieval.Threshold, 0.0001)

	// Unset sections keep their defaults
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM, settings.LLM)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	store := newFakeConfigStore()
	store.data["llm.provider"] = "skynet"

	svc := NewSettingsService(store)
	settings := svc.Get()

	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
}

func TestSettingsService_Get_ExplicitZeroOverlap(t *testing.T) {
	store := newFakeConfigStore()
	store.data["chunking.overlap"] = int64(0)

	svc := NewSettingsService(store)
	settings := svc.Get()

	// Stored zero is a real value, not an absence
	assert.Equal(t, 0, settings.Chunking.Overlap)
}

func TestSettingsService_Get_ExplicitZeroThreshold(t *testing.T) {
	store := newFakeConfigStore()
	store.data["retrieval.threshold"] = 0.0

	svc := NewSettingsService(store)
	settings := svc.Get()

	assert.Equal(t, 0.0, settings.Retrieval.Threshold)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	want := domain.DefaultAppSettings()
	want.Embedding.Provider = domain.AIProviderOpenAI
	want.Embedding.Model = "text-embedding-3-small"
	want.Embedding.APIKey = "sk-roundtrip"
	want.Embedding.MaxRPS = 3
	want.Retrieval.TopK = 8

	require.NoError(t, svc.Save(want))

	got := svc.Get()
	assert.Equal(t, want, got)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	err := svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-key")
	require.NoError(t, err)

	settings := svc.Get()
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	// Empty model selects the provider default
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, "sk-key", settings.Embedding.APIKey)
	assert.Empty(t, settings.Embedding.BaseURL)
}

func TestSettingsService_SetEmbeddingProvider_Invalid(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	err := svc.SetEmbeddingProvider(domain.AIProvider("skynet"), "", "")
	assert.ErrorContains(t, err, "invalid embedding provider")
}

func TestSettingsService_SetEmbeddingProvider_MissingKey(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	err := svc.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorContains(t, err, "API key required")
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	err := svc.SetLLMProvider(domain.AIProviderOllama, "mistral", "")
	require.NoError(t, err)

	settings := svc.Get()
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, "mistral", settings.LLM.Model)
}

func TestSettingsService_SetChunking(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetChunking(800, 100))

	settings := svc.Get()
	assert.Equal(t, 800, settings.Chunking.ChunkSize)
	assert.Equal(t, 100, settings.Chunking.Overlap)
}

func TestSettingsService_SetChunking_Invalid(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	tests := []struct {
		name      string
		chunkSize int
		overlap   int
		wantErr   string
	}{
		{"zero chunk size", 0, 0, "chunk size must be positive"},
		{"negative overlap", 500, -1, "overlap must not be negative"},
		{"overlap equals size", 500, 500, "must be smaller than chunk size"},
		{"overlap exceeds size", 500, 600, "must be smaller than chunk size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.SetChunking(tt.chunkSize, tt.overlap)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSettingsService_SetRetrieval(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	require.NoError(t, svc.SetRetrieval(3, 0.8))

	settings := svc.Get()
	assert.Equal(t, 3, settings.Retrieval.TopK)
	assert.InDelta(t, 0.8, settings.Retrieval.Threshold, 0.0001)
}

func TestSettingsService_SetRetrieval_Invalid(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	assert.ErrorContains(t, svc.SetRetrieval(0, 0.5), "topK must be positive")
	assert.ErrorContains(t, svc.SetRetrieval(5, -0.1), "threshold must be in [0, 1]")
	assert.ErrorContains(t, svc.SetRetrieval(5, 1.1), "threshold must be in [0, 1]")
}

func TestSettingsService_Save_PreservesStoredAPIKey(t *testing.T) {
	store := newFakeConfigStore()
	store.data["llm.api_key"] = "sk-existing"
	svc := NewSettingsService(store)

	// Save settings without an API key
	settings := svc.Get()
	settings.LLM.APIKey = ""
	require.NoError(t, svc.Save(settings))

	assert.Equal(t, "sk-existing", store.data["llm.api_key"])
}
