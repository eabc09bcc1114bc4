package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alfredoptarigan/resume-agent/internal/services"
)

// Dependencies are built once in main. A nil Analyzer or Agent makes the
// endpoints that need it answer 503.
type Dependencies struct {
	Normalizer *services.InputNormalizer
	Analyzer   services.AnalyzerService
	Agent      services.ChatAgent
}

type AppOptions struct {
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AccessLog    bool
}

func NewApp(deps Dependencies, opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Resume Agent API",
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(metricsMiddleware)

	healthHandler := NewHealthHandler(deps.Analyzer != nil, deps.Agent != nil)
	analysisHandler := NewAnalysisHandler(deps.Normalizer, deps.Analyzer)
	chatHandler := NewChatHandler(deps.Agent)

	// Routes
	app.Get("/", healthHandler.HandleRoot)
	app.Get("/health", healthHandler.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	analysisHandler.Register(app)
	app.Post("/chat", chatHandler.HandleChat)

	return app
}
