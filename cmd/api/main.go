package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alfredoptarigan/resume-agent/internal/config"
	"alfredoptarigan/resume-agent/internal/handlers"
	"alfredoptarigan/resume-agent/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")
	if cfg.IsDevelopment() {
		log.Printf("🔧 Development mode (model: %s, temp dir: %s)\n", cfg.Gemini.Model, cfg.Storage.TempPath)
	}

	ctx := context.Background()

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.TempPath)
	if err := storageService.EnsureTempDir(); err != nil {
		log.Fatalf("❌ Failed to create temp directory: %v", err)
	}
	normalizer := services.NewInputNormalizer(storageService, cfg.Storage.MaxFileSize)
	documentParser := services.NewDocumentParserService()
	log.Println("✅ Services initialized successfully")

	deps := handlers.Dependencies{Normalizer: normalizer}

	// Initialize Gemini AI. A failure leaves the analysis endpoints
	// answering 503 instead of stopping the server.
	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, services.GatewayOptions{
		Timeout:     cfg.Gateway.Timeout,
		MaxAttempts: cfg.Gateway.MaxAttempts,
		RetryDelay:  cfg.Gateway.RetryDelay,
	})
	if err != nil {
		log.Printf("❌ Failed to initialize Gemini AI: %v", err)
	} else {
		deps.Analyzer = services.NewAnalyzerService(geminiService, documentParser, services.NewPromptBuilder())
		log.Println("✅ Gemini AI initialized successfully")

		chatAgent, err := services.NewChatAgent(ctx, services.ChatAgentOptions{
			APIKey:    cfg.Gemini.APIKey,
			Model:     cfg.Agent.Model,
			MaxTokens: int32(cfg.Agent.MaxTokens),
			Timeout:   cfg.Agent.Timeout,
		}, deps.Analyzer)
		if err != nil {
			log.Printf("❌ Failed to initialize Resume Agent: %v", err)
		} else {
			deps.Agent = chatAgent
			log.Println("✅ Resume Agent initialized successfully")
		}
	}

	app := handlers.NewApp(deps, handlers.AppOptions{
		BodyLimit:    int(2*cfg.Storage.MaxFileSize) + 1<<20,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gateway.Timeout*time.Duration(cfg.Gateway.MaxAttempts) + 30*time.Second,
		AccessLog:    true,
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
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
