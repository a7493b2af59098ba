package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docuchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docuchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docuchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docuchat/internal/chunker"
	"github.com/custodia-labs/docuchat/internal/core/services"
	"github.com/custodia-labs/docuchat/internal/extractors"
	pdfextractor "github.com/custodia-labs/docuchat/internal/extractors/pdf"
	"github.com/custodia-labs/docuchat/internal/extractors/plaintext"
)

func main() {
	_ = godotenv.Load()

	cli.SetServiceBuilder(buildServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the application together once the global flags
// are parsed. Flags take precedence over the DOCUCHAT_CONFIG_DIR and
// DOCUCHAT_DATA_DIR environment variables.
func buildServices(dataDir, configDir string) (cli.Services, func() error, error) {
	if configDir == "" {
		configDir = os.Getenv("DOCUCHAT_CONFIG_DIR")
	}
	if dataDir == "" {
		dataDir = os.Getenv("DOCUCHAT_DATA_DIR")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings := settingsService.Get()

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return cli.Services{}, nil, fmt.Errorf("opening document store: %w", err)
	}

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(pdfextractor.New())

	// Providers are constructed offline and only contacted when a
	// command actually embeds or generates.
	embedder, err := ai.CreateEmbeddingService(settings.Embedding)
	if err != nil {
		_ = store.Close()
		return cli.Services{}, nil, fmt.Errorf("configuring embedding provider: %w", err)
	}
	llm, err := ai.CreateLLMService(settings.LLM)
	if err != nil {
		_ = store.Close()
		return cli.Services{}, nil, fmt.Errorf("configuring LLM provider: %w", err)
	}

	chunk, err := chunker.New(
		chunker.WithChunkSize(settings.Chunking.ChunkSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		_ = store.Close()
		return cli.Services{}, nil, fmt.Errorf("configuring chunker: %w", err)
	}

	promptDir := ""
	if configDir != "" {
		promptDir = filepath.Join(configDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		_ = store.Close()
		return cli.Services{}, nil, fmt.Errorf("opening prompt store: %w", err)
	}

	pipeline := services.NewEmbeddingPipeline(embedder, settings.Ingest.EmbedConcurrency)
	searchService := services.NewSearchService(store, embedder)
	ingestService := services.NewIngestService(registry, chunk, pipeline, store)
	chatService := services.NewChatService(store, embedder, llm, prompts, settings.Retrieval.Threshold)
	documentService := services.NewDocumentService(store)

	return cli.Services{
		Ingest:              ingestService,
		Chat:                chatService,
		Search:              searchService,
		Documents:           documentService,
		Settings:            settingsService,
		SupportedExtensions: registry.SupportedExtensions(),
	}, store.Close, nil
}
