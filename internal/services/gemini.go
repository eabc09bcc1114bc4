package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"alfredoptarigan/resume-agent/internal/models"
)

// ModelGateway is the single outbound capability: one prompt in, one
// completion out. Failures are *models.GatewayError.
type ModelGateway interface {
	Generate(ctx context.Context, spec models.PromptSpec) (string, error)
}

// contentGenerator is the part of *genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GatewayOptions struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type geminiService struct {
	generator contentGenerator
	modelName string
	opts      GatewayOptions
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, opts GatewayOptions) (ModelGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, modelName, opts), nil
}

func newGeminiService(generator contentGenerator, modelName string, opts GatewayOptions) *geminiService {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &geminiService{
		generator: generator,
		modelName: modelName,
		opts:      opts,
	}
}

// Generate retries only retryable upstream statuses, and only when
// MaxAttempts > 1. Each attempt gets its own timeout.
func (g *geminiService) Generate(ctx context.Context, spec models.PromptSpec) (string, error) {
	var lastErr *models.GatewayError

	for attempt := 1; attempt <= g.opts.MaxAttempts; attempt++ {
		text, err := g.generateOnce(ctx, spec)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !err.Retryable() || attempt == g.opts.MaxAttempts {
			break
		}

		log.Printf("⚠️ Attempt %d failed: %v. Retrying...\n", attempt, err)
		select {
		case <-ctx.Done():
			return "", classifyGatewayError(ctx.Err())
		case <-time.After(g.opts.RetryDelay * time.Duration(attempt)):
		}
	}

	return "", lastErr
}

func (g *geminiService) generateOnce(ctx context.Context, spec models.PromptSpec) (string, *models.GatewayError) {
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	temperature := spec.Temperature
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: spec.MaxOutputTokens,
	}
	if spec.SystemRole != "" {
		config.SystemInstruction = genai.NewContentFromText(spec.SystemRole, genai.RoleUser)
	}

	resp, err := g.generator.GenerateContent(ctx, g.modelName, genai.Text(spec.UserPrompt), config)
	if err != nil {
		log.Printf("❌ Gemini API error: %v\n", err)
		return "", classifyGatewayError(err)
	}

	if resp == nil {
		return "", &models.GatewayError{Status: http.StatusBadGateway, Message: "no response generated (nil response)"}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &models.GatewayError{Status: http.StatusBadGateway, Message: "no text content in response"}
	}

	return text, nil
}

func classifyGatewayError(err error) *models.GatewayError {
	var gwErr *models.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &models.GatewayError{Status: upstreamStatus(apiErr.Code), Message: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &models.GatewayError{Status: upstreamStatus(apiErrPtr.Code), Message: apiErrPtr.Message, Err: err}
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &models.GatewayError{Status: http.StatusGatewayTimeout, Message: "completion timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &models.GatewayError{Status: http.StatusServiceUnavailable, Message: "request cancelled", Err: err}
	}

	return &models.GatewayError{Status: http.StatusBadGateway, Message: err.Error(), Err: err}
}

func upstreamStatus(code int) int {
	if code < 400 || code > 599 {
		return http.StatusBadGateway
	}
	return code
}
