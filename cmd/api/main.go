package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-ranker/internal/config"
	"alfredoptarigan/resume-ranker/internal/handlers"
	"alfredoptarigan/resume-ranker/internal/repositories"
	"alfredoptarigan/resume-ranker/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	resumeRepo := repositories.NewResumeRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize pipeline services
	extractor := services.NewTextExtractorService()
	parser := services.NewSectionParser()
	matcher := services.NewMatcherService()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI. Failure here disables the ranking capability
	// but the stored-resume endpoints keep working.
	var embedder services.EmbeddingService
	var scorer services.LLMScorerService
	llmConfigured := false

	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY not set. Ranking and LLM scoring are disabled.")
	} else {
		geminiClient, err := services.NewGeminiClient(cfg.Gemini.APIKey)
		if err != nil {
			log.Printf("❌ Failed to initialize Gemini AI: %v\n", err)
		} else {
			embedder = services.NewEmbeddingService(geminiClient, cfg.Ranking.EmbedBatchSize)
			scorer = services.NewLLMScorerService(geminiClient, cfg.Gemini.LLMTimeout)
			llmConfigured = true
			log.Println("✅ Gemini AI initialized successfully")
		}
	}

	// Initialize the optional pool-search index
	var poolIndex services.PoolIndexService
	if cfg.Qdrant.URL == "" {
		log.Println("⚠️  QDRANT_URL not set. Pool search is disabled.")
	} else {
		poolIndex, err = services.NewPoolIndexService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Printf("❌ Failed to initialize Qdrant: %v\n", err)
			poolIndex = nil
		} else if err := poolIndex.InitCollection(); err != nil {
			log.Printf("❌ Failed to initialize Qdrant collection: %v\n", err)
			poolIndex = nil
		} else {
			log.Println("✅ Qdrant initialized successfully")
		}
	}

	// Initialize ranker
	rankerService := services.NewRankerService(
		resumeRepo,
		extractor,
		parser,
		embedder,
		matcher,
		scorer,
		poolIndex,
	)
	log.Println("✅ Ranker service initialized")

	// Initialize Handlers
	rankHandler := handlers.NewRankHandler(
		rankerService,
		llmConfigured,
		cfg.Ranking.MaxFileSize,
		cfg.Ranking.DefaultTopN,
	)
	resumeHandler := handlers.NewResumeHandler(resumeRepo, poolIndex)
	searchHandler := handlers.NewSearchHandler(embedder, poolIndex)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "AI Resume Ranker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Ranking.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/rank", rankHandler.HandleRank)
	api.Get("/resumes", resumeHandler.HandleList)
	api.Get("/resumes/:filename/file", resumeHandler.HandleDownload)
	api.Delete("/resumes", resumeHandler.HandleClear)
	api.Get("/search", searchHandler.HandleSearch)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Resume Ranker API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/rank",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:filename/file",
				"DELETE /api/v1/resumes",
				"GET /api/v1/search",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
