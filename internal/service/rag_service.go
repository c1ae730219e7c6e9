package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
	"github.com/doclens/doclens/internal/prompt"
)

// Non-fatal answer outcomes carried in the envelope's error field.
const (
	AnswerErrNoDocuments      = "no relevant documents found"
	AnswerErrTemplateLoading  = "template loading failed"
	AnswerErrGenerationFailed = "text generation failed"
)

// RAGService answers questions over a project's indexed chunks: similarity
// search, prompt assembly from localized templates, then one generation call.
type RAGService struct {
	store    port.DataStore
	vectorDB port.VectorDB
	llm      port.LLMProvider
	parser   *prompt.Parser
}

// NewRAGService creates a retrieval-augmented answering service.
func NewRAGService(store port.DataStore, vectorDB port.VectorDB, llm port.LLMProvider, parser *prompt.Parser) *RAGService {
	return &RAGService{store: store, vectorDB: vectorDB, llm: llm, parser: parser}
}

// Search embeds the query and returns the most relevant documents, ordered by
// descending score. An empty result means no relevant documents, not a
// failure; failures (embedding, store) are returned as errors.
func (s *RAGService) Search(ctx context.Context, projectID, query string, limit int) ([]domain.RetrievedDocument, error) {
	project, err := s.store.GetOrCreateProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %q: %w", projectID, err)
	}
	collectionName := domain.CollectionName(project.ProjectID)

	vector, err := s.llm.EmbedText(ctx, query, port.DocumentTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("embed query: %w", port.ErrNoEmbedding)
	}

	results, err := s.vectorDB.SearchByVector(ctx, collectionName, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("search collection %q: %w", collectionName, err)
	}
	if len(results) == 0 {
		slog.Warn("no search results", "project_id", projectID, "collection", collectionName)
	}
	return results, nil
}

// Answer runs the full retrieval-augmented pipeline and always returns an
// envelope for the non-fatal outcomes: no relevant documents, template
// loading failure and generation failure all come back inside the envelope,
// never as an error. Only search/infrastructure failures are errors.
func (s *RAGService) Answer(ctx context.Context, projectID, question string, limit int) (*domain.RAGAnswer, error) {
	slog.Info("answering question", "project_id", projectID, "question", question)

	results, err := s.Search(ctx, projectID, question, limit)
	if err != nil {
		return nil, err
	}

	envelope := &domain.RAGAnswer{
		Question:    question,
		ChatHistory: []domain.ChatMessage{},
	}
	if len(results) == 0 {
		envelope.Error = AnswerErrNoDocuments
		return envelope, nil
	}

	texts := make([]string, len(results))
	for i, doc := range results {
		texts[i] = doc.Text
	}
	envelope.Context = strings.Join(texts, "\n")

	systemPrompt, err := s.parser.Get(prompt.GroupRAG, prompt.KeySystemPrompt, nil)
	if err != nil {
		slog.Error("system prompt resolution failed", "error", err)
		envelope.Error = AnswerErrTemplateLoading
		return envelope, nil
	}
	footerPrompt, err := s.parser.Get(prompt.GroupRAG, prompt.KeyFooter, map[string]any{"query": question})
	if err != nil {
		slog.Error("footer prompt resolution failed", "error", err)
		envelope.Error = AnswerErrTemplateLoading
		return envelope, nil
	}

	documentPrompts := make([]string, len(results))
	for i, doc := range results {
		rendered, err := s.parser.Get(prompt.GroupRAG, prompt.KeyDocument, map[string]any{
			"doc_num":    i + 1,
			"chunk_text": s.llm.ProcessText(doc.Text),
		})
		if err != nil {
			// per-document template failure is non-fatal
			slog.Warn("document prompt resolution failed, using inline fallback", "doc_num", i+1, "error", err)
			rendered = fmt.Sprintf("[Doc %d] %s", i+1, doc.Text)
		}
		documentPrompts[i] = rendered
	}

	envelope.FullPrompt = strings.Join(documentPrompts, "\n") + "\n\n" + footerPrompt
	envelope.ChatHistory = []domain.ChatMessage{
		s.llm.ConstructPrompt(systemPrompt, port.RoleSystem),
	}

	answer, err := s.llm.GenerateText(ctx, envelope.FullPrompt, envelope.ChatHistory, 0, 0)
	if err != nil {
		slog.Error("generation failed", "project_id", projectID, "error", err)
		envelope.Error = AnswerErrGenerationFailed
		return envelope, nil
	}

	envelope.Answer = &answer
	slog.Info("answer generated", "project_id", projectID)
	return envelope, nil
}
