package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"textapi/internal/http/middleware"
	"textapi/internal/service"
)

const internalErrorMessage = "Internal Server Error"

// errorPayload is the body of every error response.
type errorPayload struct {
	Error string `json:"error" example:"Analysis result not found"`
}

// Options controls how handlers report failures.
type Options struct {
	// StrictErrors maps client errors to 4xx codes. When false only lookups
	// of unknown IDs produce 404 and every other failure is a 500.
	StrictErrors bool
	Logger       *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// statusFor maps a service error to a response status and a client-safe message.
func statusFor(err error, strict bool) (int, string) {
	if errors.Is(err, service.ErrAnalysisNotFound) {
		return fiber.StatusNotFound, "Analysis result not found"
	}
	if !strict {
		return fiber.StatusInternalServerError, internalErrorMessage
	}

	switch {
	case errors.Is(err, service.ErrFileNotFound):
		return fiber.StatusNotFound, "File not found"
	case errors.Is(err, service.ErrInvalidOperation):
		return fiber.StatusBadRequest, "Invalid analysis operation"
	case errors.Is(err, service.ErrInvalidOptions):
		return fiber.StatusBadRequest, "Invalid analysis options"
	case errors.Is(err, service.ErrFileRequired):
		return fiber.StatusBadRequest, "File is required"
	case errors.Is(err, service.ErrTooManyFiles):
		return fiber.StatusBadRequest, "Exactly one file must be uploaded"
	case errors.Is(err, service.ErrInvalidRequest):
		return fiber.StatusBadRequest, "Invalid request"
	case errors.Is(err, service.ErrUnsupportedFileType):
		return fiber.StatusUnsupportedMediaType, "Unexpected file type"
	case errors.Is(err, service.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge, "File too large"
	default:
		return fiber.StatusInternalServerError, internalErrorMessage
	}
}

// fail logs err and writes the mapped error response.
func (o Options) fail(c *fiber.Ctx, op string, err error) error {
	status, msg := statusFor(err, o.StrictErrors)
	return o.respond(c, op, err, status, msg)
}

// failLookup is fail for read endpoints keyed by an ID in the path:
// an unknown ID is a 404 in either mode.
func (o Options) failLookup(c *fiber.Ctx, op string, err error) error {
	if errors.Is(err, service.ErrFileNotFound) {
		return o.respond(c, op, err, fiber.StatusNotFound, "File not found")
	}
	return o.fail(c, op, err)
}

func (o Options) respond(c *fiber.Ctx, op string, err error, status int, msg string) error {
	level := slog.LevelWarn
	if status >= fiber.StatusInternalServerError {
		level = slog.LevelError
	}
	o.logger().LogAttrs(c.UserContext(), level, "request_failed",
		slog.String("request_id", middleware.GetRequestID(c)),
		slog.String("op", op),
		slog.String("kind", service.Kind(err)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	return writeError(c, status, msg)
}

// ErrorHandler is the Fiber global error handler. Framework errors keep their
// status; anything else becomes a 500. The body always has the error shape.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	if log == nil {
		log = slog.Default()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return writeError(c, fe.Code, fe.Message)
		}
		log.ErrorContext(c.UserContext(), "unhandled_error",
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.String("error", err.Error()),
		)
		return writeError(c, fiber.StatusInternalServerError, internalErrorMessage)
	}
}
