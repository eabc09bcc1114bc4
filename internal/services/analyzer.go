package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"alfredoptarigan/resume-agent/internal/models"
)

// AnalyzerService runs one operation end to end: text extraction, prompt
// assembly and a single gateway call. It never inspects the payload.
type AnalyzerService interface {
	Execute(ctx context.Context, req *models.OperationRequest) (*models.OperationResult, error)
}

type analyzerService struct {
	gateway       ModelGateway
	parser        DocumentParserService
	promptBuilder *PromptBuilder
}

func NewAnalyzerService(gateway ModelGateway, parser DocumentParserService, promptBuilder *PromptBuilder) AnalyzerService {
	if promptBuilder == nil {
		promptBuilder = NewPromptBuilder()
	}
	return &analyzerService{
		gateway:       gateway,
		parser:        parser,
		promptBuilder: promptBuilder,
	}
}

func (a *analyzerService) Execute(ctx context.Context, req *models.OperationRequest) (result *models.OperationResult, err error) {
	defer func() { recordOperation(req.Operation, err) }()

	if req.CV == nil {
		return nil, models.NewMissingInputError(models.FieldCV, req.Operation, false)
	}

	cvText, err := a.resolveText(req.CV)
	if err != nil {
		return nil, err
	}

	var jdText string
	if req.JobDescription != nil {
		jdText, err = a.resolveText(req.JobDescription)
		if err != nil {
			return nil, err
		}
	}

	spec, err := a.promptBuilder.Build(req.Operation, PromptInput{
		CVText:         cvText,
		JobDescription: jdText,
		TopN:           req.Parameters.TopN,
		FocusAreas:     req.Parameters.FocusAreas,
		Instruction:    req.Parameters.Instruction,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🤖 Running %s (prompt length: %d characters)\n", req.Operation, len(spec.UserPrompt))

	start := time.Now()
	payload, err := a.gateway.Generate(ctx, spec)
	recordGatewayCall(req.Operation, start, err)
	if err != nil {
		log.Printf("❌ %s failed: %v\n", req.Operation, err)
		return nil, err
	}

	log.Printf("✅ %s response received: %d characters\n", req.Operation, len(payload))

	return &models.OperationResult{
		Success:   true,
		Operation: req.Operation,
		Payload:   payload,
		Echo:      echoFor(req),
	}, nil
}

func (a *analyzerService) resolveText(in *models.CanonicalInput) (string, error) {
	if in.SourceKind != models.SourceFile {
		return in.Text, nil
	}
	if in.FileReference == nil {
		return "", fmt.Errorf("file input without an artifact")
	}

	text, err := a.parser.ExtractText(in.FileReference.Path)
	if err != nil {
		return "", err
	}
	return text, nil
}

func echoFor(req *models.OperationRequest) models.EchoMetadata {
	echo := models.EchoMetadata{
		CVInputType: req.CV.SourceKind,
		CVFilename:  req.CV.OriginalFilename,
	}
	if req.JobDescription != nil {
		echo.JDInputType = req.JobDescription.SourceKind
		echo.JDFilename = req.JobDescription.OriginalFilename
	}
	return echo
}

// DecodeJSONPayload decodes a completion that was asked to be JSON. Models
// often wrap JSON in markdown fences, which are stripped first.
func DecodeJSONPayload(payload string, target interface{}) error {
	jsonStr := extractJSON(payload)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return &models.GatewayError{
			Status:  http.StatusBadGateway,
			Message: "malformed JSON in completion",
			Err:     err,
		}
	}

	return nil
}

// extractJSON returns the outermost JSON object or array in text.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	objOK := startObj != -1 && endObj > startObj
	arrOK := startArr != -1 && endArr > startArr

	switch {
	case objOK && (!arrOK || startObj < startArr):
		return text[startObj : endObj+1]
	case arrOK:
		return text[startArr : endArr+1]
	}

	return strings.TrimSpace(text)
}
