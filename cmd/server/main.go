package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/doclens/doclens/internal/adapter/llm"
	"github.com/doclens/doclens/internal/adapter/store"
	"github.com/doclens/doclens/internal/adapter/vectordb"
	"github.com/doclens/doclens/internal/handler"
	"github.com/doclens/doclens/internal/prompt"
	"github.com/doclens/doclens/internal/service"
	"github.com/doclens/doclens/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting DocLens RAG",
		"port", cfg.Port,
		"llm_backend", cfg.LLMBackend,
		"vector_db", cfg.VectorDBBackend,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	// ── Adapters ─────────────────────────────────────────────────────────
	llmProvider, err := llm.New(cfg)
	if err != nil {
		slog.Error("failed to create llm provider", "error", err)
		os.Exit(1)
	}
	// model configuration happens once, before any request is served
	llmProvider.SetGenerationModel(cfg.GenerationModelID)
	llmProvider.SetEmbeddingModel(cfg.EmbeddingModelID, cfg.EmbeddingSize)

	vectorDB, err := vectordb.New(cfg)
	if err != nil {
		slog.Error("failed to create vector db client", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := vectorDB.Connect(ctx); err != nil {
		cancel()
		slog.Error("failed to connect to vector db", "error", err)
		os.Exit(1)
	}
	cancel()
	defer vectorDB.Disconnect()

	parser := prompt.NewParser(cfg.PrimaryLanguage, cfg.DefaultLanguage)

	// ── Services ─────────────────────────────────────────────────────────
	dataService := service.NewDataService(cfg.UploadBasePath, cfg.FileMaxSizeMB, cfg.FileAllowedTypes)
	processService := service.NewProcessService(pgStore, cfg.UploadBasePath, cfg.InsertBatchSize)
	indexService := service.NewIndexService(pgStore, vectorDB, llmProvider, cfg.IndexPageSize, cfg.InsertBatchSize)
	ragService := service.NewRAGService(pgStore, vectorDB, llmProvider, parser)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Health check
	app.Get("/api/v1/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	api := app.Group("/api/v1")

	handler.NewProjectHandler(pgStore).Register(api)
	handler.NewDataHandler(dataService, processService, pgStore, cfg.ChunkSize, cfg.OverlapSize).Register(api)
	handler.NewNLPHandler(indexService, ragService).Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
