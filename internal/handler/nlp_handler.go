package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/doclens/doclens/internal/port"
	"github.com/doclens/doclens/internal/service"
)

// NLPHandler exposes the indexing and answering endpoints.
type NLPHandler struct {
	indexService *service.IndexService
	ragService   *service.RAGService
}

// NewNLPHandler creates an NLP handler.
func NewNLPHandler(indexService *service.IndexService, ragService *service.RAGService) *NLPHandler {
	return &NLPHandler{indexService: indexService, ragService: ragService}
}

// Register sets up the NLP routes.
func (h *NLPHandler) Register(router fiber.Router) {
	nlp := router.Group("/nlp")
	nlp.Post("/index/push/:project_id", h.IndexPush)
	nlp.Get("/index/info/:project_id", h.IndexInfo)
	nlp.Delete("/index/:project_id", h.IndexReset)
	nlp.Post("/index/search/:project_id", h.Search)
	nlp.Post("/index/answer/:project_id", h.Answer)
}

// IndexPush runs an indexing run over a project's persisted chunks.
func (h *NLPHandler) IndexPush(c fiber.Ctx) error {
	var body struct {
		DoReset bool `json:"do_reset"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	inserted, err := h.indexService.IndexProject(c.Context(), c.Params("project_id"), body.DoReset)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": StatusVectorDBInsertError,
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":               StatusVectorDBInsertSuccess,
		"inserted_items_count": inserted,
	})
}

// IndexInfo returns metadata about a project's vector collection.
func (h *NLPHandler) IndexInfo(c fiber.Ctx) error {
	info, err := h.indexService.CollectionInfo(c.Context(), c.Params("project_id"))
	if errors.Is(err, port.ErrCollectionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": StatusCollectionNotFound})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":          StatusCollectionRetrieved,
		"collection_info": info,
	})
}

// IndexReset deletes a project's vector collection.
func (h *NLPHandler) IndexReset(c fiber.Ctx) error {
	if err := h.indexService.ResetCollection(c.Context(), c.Params("project_id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": StatusCollectionReset})
}

// Search returns the most relevant documents for a query.
func (h *NLPHandler) Search(c fiber.Ctx) error {
	var body struct {
		Text  string `json:"text"`
		Limit int    `json:"limit"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Limit <= 0 {
		body.Limit = 10
	}

	results, err := h.ragService.Search(c.Context(), c.Params("project_id"), body.Text, body.Limit)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": StatusSearchError,
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status":  StatusSearchSuccess,
		"results": results,
	})
}

// Answer runs the retrieval-augmented answering pipeline for a question.
func (h *NLPHandler) Answer(c fiber.Ctx) error {
	var body struct {
		Text  string `json:"text"`
		Limit int    `json:"limit"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Limit <= 0 {
		body.Limit = 5
	}

	answer, err := h.ragService.Answer(c.Context(), c.Params("project_id"), body.Text, body.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": StatusRAGAnswerError,
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"status": StatusRAGAnswerReady,
		"answer": answer,
	})
}
