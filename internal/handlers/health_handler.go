package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-agent/internal/models"
)

type HealthHandler struct {
	analyzerReady bool
	agentReady    bool
}

func NewHealthHandler(analyzerReady, agentReady bool) *HealthHandler {
	return &HealthHandler{analyzerReady: analyzerReady, agentReady: agentReady}
}

func (h *HealthHandler) HandleRoot(c *fiber.Ctx) error {
	endpoints := []string{"GET /health", "GET /metrics", "POST /chat"}
	for _, op := range models.Operations {
		endpoints = append(endpoints, "POST "+op.Route)
	}

	return c.JSON(fiber.Map{
		"status":    "running",
		"service":   "Resume Agent API",
		"version":   "1.0.0",
		"endpoints": endpoints,
	})
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:              "healthy",
		AnalyzerInitialized: h.analyzerReady,
		AgentInitialized:    h.agentReady,
		Time:                time.Now(),
	})
}
