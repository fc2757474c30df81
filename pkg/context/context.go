package context

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = "request_id"
	FrameSeqKey  = "frame_seq"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// WithFrameSeq tags ctx with the sequence number of the frame being
// processed so analyzer clients can log it.
func WithFrameSeq(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, FrameSeqKey, seq)
}

func GetFrameSeq(ctx context.Context) uint64 {
	seq, _ := ctx.Value(FrameSeqKey).(uint64)
	return seq
}

func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals("X-Request-ID").(string)
	if !ok || requestID == "" {
		requestID = c.Get("X-Request-ID")

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(context.Background(), requestID)
}

// WithTimeout derives a request-scoped context carrying the request id.
func WithTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(FromFiberCtx(c), d)
}
