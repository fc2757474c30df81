package streamHandler

import (
	"FaceStream/internal/api/stream"
	contextPkg "FaceStream/pkg/context"
	"FaceStream/pkg/handlerUtil"
	"FaceStream/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *StreamHandler) GetStatus(ctx *fiber.Ctx) error {
	res := stream.StatusResponse{
		Analyzer:         h.info.Analyzer,
		Locale:           h.translator.Locale(),
		Subscribers:      h.streamService.Subscribers(),
		HistoryEnabled:   h.info.HistoryEnabled,
		SnapshotsEnabled: h.streamService.SnapshotsEnabled(),
		OpenCVVersion:    h.info.OpenCVVersion,
		GoCVVersion:      h.info.GoCVVersion,
	}
	if h.stats != nil {
		res.Pipeline = h.stats.Stats()
	}

	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *StreamHandler) GetFaces(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, h.streamService.Faces())
}

func (h *StreamHandler) CreateSnapshot(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing snapshot upload request")

	res, err := h.streamService.UploadSnapshot(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_snapshot")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}
