package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-agent/internal/models"
	"alfredoptarigan/resume-agent/internal/services"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// AnalysisHandler serves every operation in models.Operations. The
// operation table decides which fields are read and where the result goes.
type AnalysisHandler struct {
	normalizer *services.InputNormalizer
	analyzer   services.AnalyzerService
}

func NewAnalysisHandler(normalizer *services.InputNormalizer, analyzer services.AnalyzerService) *AnalysisHandler {
	return &AnalysisHandler{
		normalizer: normalizer,
		analyzer:   analyzer,
	}
}

func (h *AnalysisHandler) Register(router fiber.Router) {
	for _, op := range models.Operations {
		router.Post(op.Route, h.Handle(op))
	}
}

func (h *AnalysisHandler) Handle(op models.OperationSpec) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if h.analyzer == nil || h.normalizer == nil {
			return respondUnavailable(c)
		}

		params, format, err := readParameters(c, op)
		if err != nil {
			return respondError(c, op.FailureLabel, err)
		}

		scope := h.normalizer.Begin()
		defer scope.Release()

		cv, err := scope.Resolve(models.FieldCV, rawInput(c, models.FieldCV), op.CV, op.Kind)
		if err != nil {
			return respondError(c, op.FailureLabel, err)
		}

		jd, err := scope.Resolve(models.FieldJobDescription, rawInput(c, models.FieldJobDescription), op.JobDescription, op.Kind)
		if err != nil {
			return respondError(c, op.FailureLabel, err)
		}

		result, err := h.analyzer.Execute(c.UserContext(), &models.OperationRequest{
			Operation:      op.Kind,
			CV:             cv,
			JobDescription: jd,
			Parameters:     params,
		})
		if err != nil {
			return respondError(c, op.FailureLabel, err)
		}

		var payload interface{} = result.Payload
		if format == formatJSON {
			var decoded interface{}
			if err := services.DecodeJSONPayload(result.Payload, &decoded); err != nil {
				return respondError(c, op.FailureLabel, err)
			}
			payload = decoded
		}

		return c.JSON(envelope(op, result, payload))
	}
}

func rawInput(c *fiber.Ctx, field models.InputField) models.RawInput {
	raw := models.RawInput{Text: c.FormValue(field.TextKey())}
	if file, err := c.FormFile(field.FileKey()); err == nil {
		raw.File = file
	}
	return raw
}

func readParameters(c *fiber.Ctx, op models.OperationSpec) (models.OperationParameters, string, error) {
	var params models.OperationParameters

	switch op.Kind {
	case models.OperationExtractKeywords:
		params.TopN = models.DefaultKeywordCount
		if raw := strings.TrimSpace(c.FormValue("top_n")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return params, "", &models.InvalidParameterError{Name: "top_n", Message: "must be a positive integer"}
			}
			params.TopN = n
		}
	case models.OperationGenerateRewrite:
		params.FocusAreas = models.ParseFocusAreas(c.FormValue("focus_areas"))
	case models.OperationAnalyze:
		params.Instruction = c.FormValue("prompt")
	}

	format := strings.ToLower(strings.TrimSpace(c.FormValue("response_format")))
	switch format {
	case "", formatText:
		format = formatText
	case formatJSON:
	default:
		return params, "", &models.InvalidParameterError{Name: "response_format", Message: "must be 'text' or 'json'"}
	}

	return params, format, nil
}

func envelope(op models.OperationSpec, result *models.OperationResult, payload interface{}) fiber.Map {
	body := fiber.Map{
		"success":       true,
		"cv_input_type": result.Echo.CVInputType,
		op.ResultKey:    payload,
	}
	if result.Echo.CVFilename != "" {
		body["cv_filename"] = result.Echo.CVFilename
	}
	if result.Echo.JDInputType != "" {
		body["jd_input_type"] = result.Echo.JDInputType
		if result.Echo.JDFilename != "" {
			body["jd_filename"] = result.Echo.JDFilename
		}
	}
	return body
}
