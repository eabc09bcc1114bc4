package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-agent/internal/models"
)

const errorKindUnavailable = "unavailable"

// statusFor maps a typed failure to the HTTP status a client sees.
func statusFor(err error) int {
	var (
		missing     *models.MissingInputError
		unsupported *models.UnsupportedFormatError
		tooLarge    *models.FileTooLargeError
		invalid     *models.InvalidParameterError
		extraction  *models.ExtractionError
		gateway     *models.GatewayError
	)

	switch {
	case errors.As(err, &missing),
		errors.As(err, &unsupported),
		errors.As(err, &tooLarge),
		errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.As(err, &extraction):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &gateway):
		switch gateway.Status {
		case fiber.StatusGatewayTimeout:
			return fiber.StatusGatewayTimeout
		case fiber.StatusServiceUnavailable, fiber.StatusTooManyRequests:
			return fiber.StatusServiceUnavailable
		default:
			return fiber.StatusBadGateway
		}
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the failure envelope. Client errors carry the error
// text as is; everything else is prefixed with label.
func respondError(c *fiber.Ctx, label string, err error) error {
	status := statusFor(err)

	detail := err.Error()
	if status >= fiber.StatusInternalServerError && label != "" {
		detail = fmt.Sprintf("%s: %s", label, detail)
		log.Printf("❌ %s\n", detail)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Success:   false,
		ErrorKind: models.ErrorKind(err),
		Detail:    detail,
	})
}

func respondUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{
		Success:   false,
		ErrorKind: errorKindUnavailable,
		Detail:    "Agent not initialized",
	})
}

// customErrorHandler renders errors no handler caught, such as unknown
// routes or oversized bodies.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Success:   false,
		ErrorKind: "http_error",
		Detail:    err.Error(),
	})
}
