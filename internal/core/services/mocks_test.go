package services

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.EmbeddingService. It returns a fixed
// vector, a per-text vector from byText, or an error.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	byText    map[string][]float32
	embedErr  error
	dims      int
	calls     atomic.Int64
	active    atomic.Int64
	maxActive atomic.Int64
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls.Add(1)

	active := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		seen := m.maxActive.Load()
		if active <= seen || m.maxActive.CompareAndSwap(seen, active) {
			break
		}
	}

	if m.embedErr != nil {
		return nil, m.embedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.byText[text]; ok {
		return v, nil
	}
	return m.embedding, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return len(m.embedding)
}

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockLLM implements driven.LLMService with a canned reply.
type mockLLM struct {
	reply       string
	generateErr error
	lastPrompt  string
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.lastPrompt = prompt
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.reply, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockExtractors implements driven.ExtractorRegistry with fixed text.
type mockExtractors struct {
	text       string
	extractErr error
}

func (m *mockExtractors) Extract(_ context.Context, file driven.RawFile) (string, error) {
	if m.extractErr != nil {
		return "", m.extractErr
	}
	if m.text != "" {
		return m.text, nil
	}
	return strings.TrimSpace(string(file.Data)), nil
}

func (m *mockExtractors) Register(_ driven.TextExtractor) {}
