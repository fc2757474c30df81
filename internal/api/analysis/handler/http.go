package analysisHandler

import (
	analysisService "FaceStream/internal/api/analysis/service"
	"FaceStream/internal/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AnalysisHandler struct {
	log             *logrus.Logger
	validator       *validator.Validate
	middleware      middleware.Middleware
	analysisService analysisService.IAnalysisService
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as analysisService.IAnalysisService,
) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log,
		validator:       validate,
		middleware:      middleware,
		analysisService: as,
	}
}

func (h *AnalysisHandler) Start(srv fiber.Router) {
	analyses := srv.Group("/analyses")

	analyses.Get("", h.ListAnalyses)
	analyses.Get("/summary", h.GetSummary)
}
