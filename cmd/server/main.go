package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"promptstudio-backend/internal/config"
	"promptstudio-backend/internal/database"
	"promptstudio-backend/internal/handlers"
	"promptstudio-backend/internal/middleware"
	"promptstudio-backend/internal/repository"
	"promptstudio-backend/internal/router"
	"promptstudio-backend/internal/services"
	"promptstudio-backend/internal/web"
	"promptstudio-backend/internal/websocket"
	"promptstudio-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Prompt Studio Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	sessionRepo := repository.NewSessionRepo(pool)
	debateRepo := repository.NewDebateRepo(pool)
	summaryRepo := repository.NewSummaryRepo(pool)
	brochureRepo := repository.NewBrochureRepo(pool)
	posterRepo := repository.NewPosterRepo(pool)
	jobRepo := repository.NewJobRepo(pool)

	// ──── Step 5: Initialize Model Clients ────
	openaiService := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIImageModel, cfg.OpenAIConcurrentReqs)
	log.Println("✓ OpenAI client initialized")

	ollamaService := services.NewOllamaService(&services.OllamaConfig{BaseURL: cfg.OllamaURL})
	log.Println("✓ Ollama client initialized")

	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	scraperService := services.NewScraperService()
	debateService := services.NewDebateService(openaiService, ollamaService, cfg.OllamaModel)
	summarizerService := services.NewSummarizerService(scraperService, openaiService, cfg.OpenAIModel, ollamaService, cfg.OllamaSummaryModel)
	assistantService := services.NewAssistantService(openaiService, ollamaService, cfg.OllamaModel)
	brochureService := services.NewBrochureService(scraperService, geminiService)
	posterService := services.NewPosterService(openaiService, cfg.StoragePath)
	publisher := services.NewUpdatePublisher(redisClients.PubSub)

	// ──── Initialize Handlers ────
	sessionHandler := handlers.NewSessionHandler(sessionRepo, jwtAuth)
	debateHandler := handlers.NewDebateHandler(debateRepo, jobRepo, redisClients.Queue)
	summaryHandler := handlers.NewSummaryHandler(summaryRepo, jobRepo, redisClients.Queue)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	brochureHandler := handlers.NewBrochureHandler(brochureRepo, jobRepo, redisClients.Queue)
	posterHandler := handlers.NewPosterHandler(posterRepo, jobRepo, redisClients.Queue)
	jobHandler := handlers.NewJobHandler(jobRepo)
	webHandler := web.NewHandler()

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		publisher,
		debateService,
		summarizerService,
		brochureService,
		posterService,
		jobRepo,
		debateRepo,
		summaryRepo,
		brochureRepo,
		posterRepo,
		cfg.WorkerCount,
	)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		sessionHandler,
		debateHandler,
		summaryHandler,
		assistantHandler,
		brochureHandler,
		posterHandler,
		jobHandler,
		webHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Prompt Studio Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  UI:  http://localhost:%s/", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
