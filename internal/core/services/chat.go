package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
	"github.com/custodia-labs/docuchat/internal/core/ports/driving"
	"github.com/custodia-labs/docuchat/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.Chatter = (*ChatService)(nil)

// Candidate over-fetch policy. Retrieval asks for more candidates at a
// relaxed threshold so the final filter can still fill topK after a
// strict document allow-list; the strict threshold is re-applied before
// truncation.
const (
	candidateOverFetch      = 2
	candidateThresholdRatio = 0.8
)

// defaultAnswerPrompt composes the final generation prompt.
// Placeholders: context, question.
const defaultAnswerPrompt = `You are a careful assistant answering questions about the user's documents.
Answer using ONLY the sources below. Cite sources as (Source N).
If the sources do not contain the answer, say so plainly.

Sources:
%s

Question: %s

Answer:`

// failureReplyFormat is the assistant message persisted when answering
// fails, keeping the conversation history continuous.
const failureReplyFormat = "I couldn't answer that question: %s"

// ChatService answers questions from retrieved passages with citations
// and maintains the persisted conversation history.
type ChatService struct {
	docStore  driven.DocumentStore
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	prompts   driven.PromptStore
	threshold float64
}

// NewChatService creates a new chat service. The prompt store is
// optional; when nil the built-in answer prompt is used.
func NewChatService(
	docStore driven.DocumentStore,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	threshold float64,
) *ChatService {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &ChatService{
		docStore:  docStore,
		embedder:  embedder,
		llm:       llm,
		prompts:   prompts,
		threshold: threshold,
	}
}

// Ask runs one question/answer turn.
//
// The user message is persisted first. If answering fails, an
// assistant message describing the failure is persisted instead of an
// answer, so the history never loses a turn; the failure is still
// returned to the caller.
func (s *ChatService) Ask(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.docStore == nil {
		return nil, fmt.Errorf("%w: document store", domain.ErrNotInitialised)
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.New().String(),
		Role:      domain.RoleUser,
		Content:   question,
		Timestamp: time.Now().UTC(),
	}
	if err := s.docStore.AppendChatMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	answer, err := s.answer(ctx, question, opts)
	if err != nil {
		failMsg := domain.ChatMessage{
			ID:        uuid.New().String(),
			Role:      domain.RoleAssistant,
			Content:   fmt.Sprintf(failureReplyFormat, err),
			Timestamp: time.Now().UTC(),
		}
		if appendErr := s.docStore.AppendChatMessage(ctx, failMsg); appendErr != nil {
			logger.Warn("Failed to persist failure message: %v", appendErr)
		}
		return nil, err
	}

	if err := s.docStore.AppendChatMessage(ctx, answer.Message); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	return answer, nil
}

// answer performs retrieval, generation and source attribution.
func (s *ChatService) answer(ctx context.Context, question string, opts driving.AskOptions) (*domain.Answer, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding service", domain.ErrNotInitialised)
	}
	if s.llm == nil {
		return nil, fmt.Errorf("%w: generation service", domain.ErrNotInitialised)
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	// 1. Embed the question with the same model used at ingestion.
	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %w", domain.ErrEmbedding, err)
	}

	// 2. Retrieve an over-fetched candidate pool at a relaxed threshold.
	population, err := s.docStore.ListAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	candidates, err := Rank(queryVec, population, domain.SearchOptions{
		TopK:        topK * candidateOverFetch,
		Threshold:   s.threshold * candidateThresholdRatio,
		DocumentIDs: opts.DocumentIDs,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Candidates: %d (relaxed threshold %.2f)",
		candidates.TotalResults, s.threshold*candidateThresholdRatio)

	// 3. Re-apply the strict threshold and truncate to topK.
	results := make([]domain.ScoredChunk, 0, topK)
	for _, sc := range candidates.Results {
		if sc.Score < s.threshold {
			continue
		}
		results = append(results, sc)
		if len(results) == topK {
			break
		}
	}
	logger.Debug("Final context: %d chunks", len(results))

	// 4. Resolve document names, one store read per unique document.
	names, err := s.documentNames(ctx, results)
	if err != nil {
		return nil, err
	}

	// 5. Build the cited context and generate.
	prompt := fmt.Sprintf(s.answerPrompt(), buildContext(results, names), question)
	reply, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	// 6. Attribute sources. The question is embedded again rather than
	// reusing the retrieval vector: retrieval ran against a relaxed
	// candidate pool and attribution scores must reflect the question
	// as asked.
	attrVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question for attribution: %w", domain.ErrEmbedding, err)
	}

	sources := make([]domain.DocumentSource, 0, len(results))
	var relevanceSum float64
	for _, sc := range results {
		relevance := CosineSimilarity(attrVec, sc.Chunk.Embedding)
		relevanceSum += relevance
		sources = append(sources, domain.DocumentSource{
			DocumentID:   sc.Chunk.DocumentID,
			DocumentName: names[sc.Chunk.DocumentID],
			ChunkID:      sc.Chunk.ID,
			Excerpt:      sc.Chunk.Content,
			Page:         sc.Chunk.Page,
			Relevance:    relevance,
		})
	}

	confidence := 0.0
	if len(sources) > 0 {
		confidence = relevanceSum / float64(len(sources))
	}

	return &domain.Answer{
		Message: domain.ChatMessage{
			ID:        uuid.New().String(),
			Role:      domain.RoleAssistant,
			Content:   strings.TrimSpace(reply),
			Timestamp: time.Now().UTC(),
			Sources:   sources,
		},
		Confidence: confidence,
	}, nil
}

// History returns up to limit messages in chronological order.
func (s *ChatService) History(ctx context.Context, limit int) ([]domain.ChatMessage, error) {
	if s.docStore == nil {
		return nil, fmt.Errorf("%w: document store", domain.ErrNotInitialised)
	}
	return s.docStore.ListChatMessages(ctx, limit)
}

// ClearHistory removes the entire chat history.
func (s *ChatService) ClearHistory(ctx context.Context) error {
	if s.docStore == nil {
		return fmt.Errorf("%w: document store", domain.ErrNotInitialised)
	}
	return s.docStore.ClearChatMessages(ctx)
}

// documentNames resolves the display name of each result's parent
// document, caching lookups per unique document ID within one call.
func (s *ChatService) documentNames(
	ctx context.Context, results []domain.ScoredChunk,
) (map[string]string, error) {
	names := make(map[string]string)
	for _, sc := range results {
		id := sc.Chunk.DocumentID
		if _, ok := names[id]; ok {
			continue
		}
		doc, err := s.docStore.GetDocument(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve document %s: %w", id, err)
		}
		names[id] = doc.Name
	}
	return names, nil
}

// answerPrompt returns the configured answer template, falling back to
// the built-in one.
func (s *ChatService) answerPrompt() string {
	if s.prompts == nil {
		return defaultAnswerPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil || prompt == "" {
		return defaultAnswerPrompt
	}
	return prompt
}

// buildContext concatenates the ranked chunks into the generation
// context, one cited source block per chunk.
func buildContext(results []domain.ScoredChunk, names map[string]string) string {
	var b strings.Builder
	for i, sc := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("Source %d (%s", i+1, names[sc.Chunk.DocumentID]))
		if sc.Chunk.Page != nil {
			b.WriteString(fmt.Sprintf(", Page %d", *sc.Chunk.Page))
		}
		b.WriteString("):\n")
		b.WriteString(sc.Chunk.Content)
	}
	return b.String()
}
