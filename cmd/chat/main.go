package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alfredoptarigan/resume-agent/internal/chat"
	"alfredoptarigan/resume-agent/internal/config"
	"alfredoptarigan/resume-agent/internal/services"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, services.GatewayOptions{
		Timeout:     cfg.Gateway.Timeout,
		MaxAttempts: cfg.Gateway.MaxAttempts,
		RetryDelay:  cfg.Gateway.RetryDelay,
	})
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}

	documentParser := services.NewDocumentParserService()
	analyzer := services.NewAnalyzerService(geminiService, documentParser, services.NewPromptBuilder())

	chatAgent, err := services.NewChatAgent(ctx, services.ChatAgentOptions{
		APIKey:    cfg.Gemini.APIKey,
		Model:     cfg.Agent.Model,
		MaxTokens: int32(cfg.Agent.MaxTokens),
		Timeout:   cfg.Agent.Timeout,
	}, analyzer)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Resume Agent: %v", err)
	}

	loop := chat.NewLoop(chatAgent, documentParser, chat.NewRegexDetector(), os.Stdin, os.Stdout)
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("❌ Chat loop stopped: %v", err)
	}
}
