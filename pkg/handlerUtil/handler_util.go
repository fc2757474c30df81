package handlerUtil

import (
	"FaceStream/internal/api/analysis"
	"FaceStream/internal/api/stream"
	"FaceStream/pkg/log"
	"FaceStream/pkg/response"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{stream.ErrNoFrame, "NO_FRAME"},
	{stream.ErrStreamClosed, "STREAM_CLOSED"},
	{stream.ErrSnapshotDisabled, "SNAPSHOT_DISABLED"},
	{stream.ErrUploadSnapshot, "SNAPSHOT_UPLOAD_FAILED"},
	{analysis.ErrHistoryDisabled, "HISTORY_DISABLED"},
	{analysis.ErrInvalidQuery, "VALIDATION_ERROR"},
}

func codeFor(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return ""
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	status := response.Status(err, 0)
	if status == 0 {
		traceID := log.ErrorWithTraceID(log.Fields{
			log.RequestIDKey: requestID,
			"error":          err.Error(),
			"path":           path,
			"operation":      operation,
		}, "Unexpected error")

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "An unexpected error occurred",
			Details: "trace id " + traceID,
		})
	}

	entry := h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"code":       status,
		"path":       path,
		"operation":  operation,
	})
	if status >= fiber.StatusInternalServerError {
		entry.Error("Operation failed with error response")
	} else {
		entry.Warn("Operation failed with error response")
	}

	return c.Status(status).JSON(ErrorResponse{
		Error: err.Error(),
		Code:  codeFor(err),
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(utils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
