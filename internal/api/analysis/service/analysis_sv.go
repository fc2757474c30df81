package analysisService

import (
	"FaceStream/internal/api/analysis"
	"FaceStream/internal/entity"
	contextPkg "FaceStream/pkg/context"
	"FaceStream/pkg/response"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *analysisService) Enabled() bool {
	return s.analysisRepo != nil
}

func (s *analysisService) Record(ctx context.Context, face entity.Face) error {
	if !s.Enabled() {
		return analysis.ErrHistoryDisabled
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return response.Wrap(analysis.ErrRecordAnalysis, err)
	}

	rec := entity.AnalysisRecord{
		ID:        id,
		Age:       face.Attributes.Age,
		Gender:    face.Attributes.Gender,
		Emotion:   face.Attributes.Emotion,
		Ethnicity: face.Attributes.Ethnicity,
		Box:       face.Box,
		CreatedAt: now,
	}
	if face.Analysis != nil {
		rec.DominantGender = face.Analysis.DominantGender
		rec.DominantEmotion = face.Analysis.DominantEmotion
		rec.DominantRace = face.Analysis.DominantRace
	}

	repo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return response.Wrap(analysis.ErrRecordAnalysis, err)
	}

	if err := repo.Analyses.CreateAnalysis(ctx, rec); err != nil {
		s.log.WithFields(logrus.Fields{
			"frame_seq": contextPkg.GetFrameSeq(ctx),
			"error":     err.Error(),
		}).Error("Failed to record analysis")
		return response.Wrap(analysis.ErrRecordAnalysis, err)
	}

	return nil
}

func (s *analysisService) List(ctx context.Context, req analysis.ListAnalysesRequest) (*analysis.AnalysisListResponse, error) {
	if !s.Enabled() {
		return nil, analysis.ErrHistoryDisabled
	}

	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return nil, response.Wrap(analysis.ErrListAnalyses, err)
	}

	records, total, err := repo.Analyses.GetAnalyses(ctx, req.Limit, req.Offset)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list analyses")
		return nil, response.Wrap(analysis.ErrListAnalyses, err)
	}

	res := &analysis.AnalysisListResponse{
		Analyses: make([]analysis.AnalysisResponse, 0, len(records)),
		Total:    total,
		Limit:    req.Limit,
		Offset:   req.Offset,
	}
	for _, r := range records {
		res.Analyses = append(res.Analyses, analysis.AnalysisResponse{
			ID:              r.ID,
			Age:             r.Age,
			Gender:          r.Gender,
			Emotion:         r.Emotion,
			Ethnicity:       r.Ethnicity,
			DominantGender:  r.DominantGender,
			DominantEmotion: r.DominantEmotion,
			DominantRace:    r.DominantRace,
			Box:             analysis.BoxDTO{X: r.Box.X, Y: r.Box.Y, W: r.Box.W, H: r.Box.H},
			CreatedAt:       r.CreatedAt,
		})
	}

	return res, nil
}

func (s *analysisService) Summary(ctx context.Context) (*analysis.SummaryResponse, error) {
	if !s.Enabled() {
		return nil, analysis.ErrHistoryDisabled
	}

	repo, err := s.analysisRepo.NewClient(false)
	if err != nil {
		return nil, response.Wrap(analysis.ErrSummary, err)
	}

	emotions, err := repo.Analyses.CountByEmotion(ctx)
	if err != nil {
		return nil, response.Wrap(analysis.ErrSummary, err)
	}

	ethnicities, err := repo.Analyses.CountByEthnicity(ctx)
	if err != nil {
		return nil, response.Wrap(analysis.ErrSummary, err)
	}

	total := 0
	for _, n := range emotions {
		total += n
	}

	return &analysis.SummaryResponse{
		Total:       total,
		Emotions:    emotions,
		Ethnicities: ethnicities,
	}, nil
}
