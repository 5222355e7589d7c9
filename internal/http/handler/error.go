package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"contentapi/internal/http/middleware"
	"contentapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeFieldError(c, status, code, message, nil)
}

// writeFieldError is writeError with per-field messages attached.
func writeFieldError(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// handlerLogger falls back to the process default logger when none is injected.
func handlerLogger(log *slog.Logger) *slog.Logger {
	if log == nil {
		log = slog.Default()
	}
	return log.With(slog.String("component", "http"))
}

// writeServiceError maps service errors to responses.
// Field errors are client facing; anything else is logged and reported as a 500.
func writeServiceError(c *fiber.Ctx, log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeFieldError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found", service.Fields(err))
	case errors.Is(err, service.ErrValidation):
		return writeFieldError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "validation failed", service.Fields(err))
	default:
		log.ErrorContext(c.UserContext(), "request failed",
			slog.String("request_id", requestIDFromCtx(c)),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
