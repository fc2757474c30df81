package analysisHandler

import (
	"FaceStream/internal/api/analysis"
	contextPkg "FaceStream/pkg/context"
	"FaceStream/pkg/handlerUtil"
	"FaceStream/pkg/log"
	"github.com/gofiber/fiber/v2"
	"time"
)

const defaultPageSize = 20

func (h *AnalysisHandler) ListAnalyses(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing list analyses request")

	req := analysis.ListAnalysesRequest{Limit: defaultPageSize}
	if err := ctx.QueryParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.analysisService.List(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_analyses")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AnalysisHandler) GetSummary(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := h.analysisService.Summary(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "summarize_analyses")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
