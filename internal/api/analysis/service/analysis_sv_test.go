package analysisService

import (
	"FaceStream/database"
	"FaceStream/internal/api/analysis"
	analysisRepository "FaceStream/internal/api/analysis/repository"
	"FaceStream/internal/entity"
	"FaceStream/pkg/utils"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestService(t *testing.T) IAnalysisService {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.New(context.Background(), database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewAnalysisService(log, analysisRepository.New(db, log), utils.New())
}

func face(emotion, ethnicity string) entity.Face {
	return entity.Face{
		Box: entity.Box{X: 10, Y: 20, W: 30, H: 40},
		Attributes: entity.Attributes{
			Age:       "25 anos",
			Gender:    "Masculino",
			Emotion:   emotion,
			Ethnicity: ethnicity,
		},
		Analysis: &entity.Analysis{
			Age:             25,
			DominantGender:  "Man",
			DominantEmotion: "happy",
			DominantRace:    "white",
		},
	}
}

func TestRecordListSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, f := range []entity.Face{face("Feliz", "Branco"), face("Feliz", "Negro"), face("Nojo", "Branco")} {
		if err := svc.Record(ctx, f); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	list, err := svc.List(ctx, analysis.ListAnalysesRequest{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if list.Total != 3 || len(list.Analyses) != 3 {
		t.Fatalf("list = %+v", list)
	}
	first := list.Analyses[0]
	if first.DominantGender != "Man" || first.Gender != "Masculino" || first.Box.W != 30 || first.ID == "" {
		t.Errorf("unexpected record %+v", first)
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if sum.Total != 3 || sum.Emotions["Feliz"] != 2 || sum.Ethnicities["Branco"] != 2 {
		t.Errorf("summary = %+v", sum)
	}
}

func TestDisabledService(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := NewAnalysisService(log, nil, utils.New())

	if svc.Enabled() {
		t.Fatal("Enabled() = true without repository")
	}
	if err := svc.Record(context.Background(), face("Feliz", "Branco")); !errors.Is(err, analysis.ErrHistoryDisabled) {
		t.Errorf("Record() error = %v", err)
	}
	if _, err := svc.List(context.Background(), analysis.ListAnalysesRequest{Limit: 1}); !errors.Is(err, analysis.ErrHistoryDisabled) {
		t.Errorf("List() error = %v", err)
	}
	if _, err := svc.Summary(context.Background()); !errors.Is(err, analysis.ErrHistoryDisabled) {
		t.Errorf("Summary() error = %v", err)
	}
}
