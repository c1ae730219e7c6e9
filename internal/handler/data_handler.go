package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/doclens/doclens/internal/domain"
	"github.com/doclens/doclens/internal/port"
	"github.com/doclens/doclens/internal/service"
)

// DataHandler exposes the upload and processing endpoints.
type DataHandler struct {
	dataService    *service.DataService
	processService *service.ProcessService
	store          port.DataStore
	defaultChunk   int
	defaultOverlap int
}

// NewDataHandler creates a data handler.
func NewDataHandler(dataService *service.DataService, processService *service.ProcessService, store port.DataStore, defaultChunk, defaultOverlap int) *DataHandler {
	return &DataHandler{
		dataService:    dataService,
		processService: processService,
		store:          store,
		defaultChunk:   defaultChunk,
		defaultOverlap: defaultOverlap,
	}
}

// Register sets up the data routes.
func (h *DataHandler) Register(router fiber.Router) {
	data := router.Group("/data")
	data.Post("/upload/:project_id", h.Upload)
	data.Post("/process/:project_id", h.Process)
}

// Upload validates and stores one uploaded file, registering it as an asset.
func (h *DataHandler) Upload(c fiber.Ctx) error {
	projectID := c.Params("project_id")

	project, err := h.store.GetOrCreateProject(c.Context(), projectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": StatusProjectNotFound, "error": err.Error()})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	if err := h.dataService.ValidateFile(fileHeader.Header.Get("Content-Type"), fileHeader.Size); err != nil {
		status := StatusFileUploadFailed
		switch {
		case errors.Is(err, service.ErrFileTypeNotSupported):
			status = StatusFileTypeNotSupported
		case errors.Is(err, service.ErrFileSizeExceeded):
			status = StatusFileSizeExceeded
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": status, "reason": err.Error()})
	}

	path, fileID, err := h.dataService.GenerateUniqueFilepath(fileHeader.Filename, project.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": StatusFileUploadFailed, "reason": err.Error()})
	}

	if err := c.SaveFile(fileHeader, path); err != nil {
		slog.Error("file upload failed", "project_id", projectID, "file", fileHeader.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": StatusFileUploadFailed, "reason": err.Error()})
	}

	asset, err := h.store.CreateAsset(c.Context(), &domain.Asset{
		ProjectID: project.ID,
		Type:      "file",
		Name:      fileID,
		Size:      fileHeader.Size,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": StatusFileUploadFailed, "reason": err.Error()})
	}

	slog.Info("file uploaded", "project_id", projectID, "file_id", fileID, "size", fileHeader.Size)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":   StatusFileUploadSuccess,
		"file_id":  fileID,
		"asset_id": asset.ID,
	})
}

// Process splits an uploaded asset into persisted chunks.
func (h *DataHandler) Process(c fiber.Ctx) error {
	var body struct {
		FileID      string `json:"file_id"`
		ChunkSize   int    `json:"chunk_size"`
		OverlapSize int    `json:"overlap_size"`
		DoReset     bool   `json:"do_reset"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.ChunkSize <= 0 {
		body.ChunkSize = h.defaultChunk
	}
	if body.OverlapSize <= 0 {
		body.OverlapSize = h.defaultOverlap
	}

	inserted, err := h.processService.ProcessAsset(c.Context(), c.Params("project_id"), body.FileID, body.ChunkSize, body.OverlapSize, body.DoReset)
	if errors.Is(err, port.ErrAssetNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": StatusFileNotFound})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": StatusProcessingFailed, "error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"status":        StatusProcessingSuccess,
		"file_id":       body.FileID,
		"inserted_chunks": inserted,
	})
}
