package middleware

import (
	"FaceStream/pkg/log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type loggingMiddleware struct {
	logger *logrus.Logger
}

func newLoggingMiddleware(logger *logrus.Logger) *loggingMiddleware {
	return &loggingMiddleware{
		logger: logger,
	}
}

func logrusFields(requestID string, c *fiber.Ctx) logrus.Fields {
	return log.Fields{
		log.RequestIDKey: requestID,
		"method":         c.Method(),
		"path":           c.Path(),
		"ip":             c.IP(),
	}
}

// isStream reports routes whose response never completes while the
// client stays connected. They are logged when they start instead.
func isStream(path string) bool {
	return path == "/video_feed" || strings.HasSuffix(path, "/ws")
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return m.loggingMiddleware.handle
}

func (l *loggingMiddleware) handle(c *fiber.Ctx) error {
	start := time.Now()

	requestID, ok := c.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = "unknown"
	}

	if isStream(c.Path()) {
		l.logger.WithFields(logrusFields(requestID, c)).Info("Stream opened")
		return c.Next()
	}

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	fields := logrusFields(requestID, c)
	fields["status"] = status
	fields["latency_ms"] = time.Since(start).Milliseconds()
	fields["user_agent"] = c.Get("User-Agent")
	fields["response_size"] = len(c.Response().Body())

	entry := l.logger.WithFields(fields)
	switch {
	case status >= 500:
		entry.Error("Server error")
	case status >= 400:
		entry.Warn("Client error")
	default:
		entry.Debug("Success")
	}

	return err
}
