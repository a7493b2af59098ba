package driving

import (
	"github.com/custodia-labs/docuchat/internal/core/domain"
)

// SettingsManager reads and updates persisted application settings.
type SettingsManager interface {
	// Get returns current settings, merging stored values over defaults.
	Get() domain.AppSettings

	// Save persists the given settings.
	Save(settings domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider. An empty
	// model selects the provider default.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider. An empty model selects
	// the provider default.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetChunking updates the chunk size and overlap.
	SetChunking(chunkSize, overlap int) error

	// SetRetrieval updates the topK and similarity threshold.
	SetRetrieval(topK int, threshold float64) error
}
