package services

import (
	"fmt"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsManager = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedMaxRPS      = "embedding.max_rps"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyLLMMaxRPS        = "llm.max_rps"
	keyChunkSize        = "chunking.chunk_size"
	keyChunkOverlap     = "chunking.overlap"
	keyRetrievalTopK    = "retrieval.top_k"
	keyRetrievalThresh  = "retrieval.threshold"
	keyEmbedConcurrency = "ingest.embed_concurrency"
)

// SettingsService manages application settings backed by a config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
// Stored values are merged over the defaults so a partial config file
// still yields a complete settings struct.
func (s *SettingsService) Get() domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty means provider default
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
			MaxRPS:   s.configStore.GetFloat(keyEmbedMaxRPS),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			MaxRPS:   s.configStore.GetFloat(keyLLMMaxRPS),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunking.ChunkSize),
			Overlap:   s.getIntWithZero(keyChunkOverlap, defaults.Chunking.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:      s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			Threshold: s.getFloatWithZero(keyRetrievalThresh, defaults.Retrieval.Threshold),
		},
		Ingest: domain.IngestSettings{
			EmbedConcurrency: s.getInt(keyEmbedConcurrency, defaults.Ingest.EmbedConcurrency),
		},
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	pairs := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkSize, settings.Chunking.ChunkSize},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalThresh, settings.Retrieval.Threshold},
		{keyEmbedConcurrency, settings.Ingest.EmbedConcurrency},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// API keys and rate limits are only written when set, so existing
	// values survive a Save of settings that omit them.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}
	if settings.Embedding.MaxRPS > 0 {
		if err := s.configStore.Set(keyEmbedMaxRPS, settings.Embedding.MaxRPS); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedMaxRPS, err)
		}
	}
	if settings.LLM.MaxRPS > 0 {
		if err := s.configStore.Set(keyLLMMaxRPS, settings.LLM.MaxRPS); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMMaxRPS, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.Get()
	settings.Embedding.Provider = provider
	settings.Embedding.APIKey = apiKey

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	// Cloud providers use their well-known endpoint.
	if !provider.IsLocal() {
		settings.Embedding.BaseURL = ""
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.Get()
	settings.LLM.Provider = provider
	settings.LLM.APIKey = apiKey

	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	if !provider.IsLocal() {
		settings.LLM.BaseURL = ""
	}

	return s.Save(settings)
}

// SetChunking updates the chunk size and overlap.
func (s *SettingsService) SetChunking(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return fmt.Errorf("overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk size (%d)", overlap, chunkSize)
	}

	settings := s.Get()
	settings.Chunking.ChunkSize = chunkSize
	settings.Chunking.Overlap = overlap
	return s.Save(settings)
}

// SetRetrieval updates the topK and similarity threshold.
func (s *SettingsService) SetRetrieval(topK int, threshold float64) error {
	if topK <= 0 {
		return fmt.Errorf("topK must be positive, got %d", topK)
	}
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1], got %g", threshold)
	}

	settings := s.Get()
	settings.Retrieval.TopK = topK
	settings.Retrieval.Threshold = threshold
	return s.Save(settings)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getIntWithZero treats an explicitly stored zero as a value, not an
// absence. Needed for overlap, where 0 is a legitimate choice.
func (s *SettingsService) getIntWithZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloatWithZero(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
