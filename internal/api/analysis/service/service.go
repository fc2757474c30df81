package analysisService

import (
	"FaceStream/internal/api/analysis"
	analysisRepository "FaceStream/internal/api/analysis/repository"
	"FaceStream/internal/entity"
	"FaceStream/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type IAnalysisService interface {
	Enabled() bool
	Record(ctx context.Context, face entity.Face) error
	List(ctx context.Context, req analysis.ListAnalysesRequest) (*analysis.AnalysisListResponse, error)
	Summary(ctx context.Context) (*analysis.SummaryResponse, error)
}

type analysisService struct {
	log          *logrus.Logger
	analysisRepo analysisRepository.Repository
	utils        utils.IUtils
}

// NewAnalysisService returns a service backed by analysisRepo. A nil
// repository yields a service whose operations report ErrHistoryDisabled.
func NewAnalysisService(
	log *logrus.Logger,
	analysisRepo analysisRepository.Repository,
	utils utils.IUtils,
) IAnalysisService {
	return &analysisService{
		log:          log,
		analysisRepo: analysisRepo,
		utils:        utils,
	}
}
