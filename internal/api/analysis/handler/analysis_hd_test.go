package analysisHandler

import (
	"FaceStream/database"
	analysisRepository "FaceStream/internal/api/analysis/repository"
	analysisService "FaceStream/internal/api/analysis/service"
	"FaceStream/internal/entity"
	"FaceStream/internal/middleware"
	"FaceStream/pkg/utils"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func newTestApp(t *testing.T, withDB bool) (*fiber.App, analysisService.IAnalysisService) {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	var repo analysisRepository.Repository
	if withDB {
		db, err := database.New(context.Background(), database.DriverSQLite, ":memory:")
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		repo = analysisRepository.New(db, log)
	}

	svc := analysisService.NewAnalysisService(log, repo, utils.New())
	mw := middleware.New(log, middleware.Config{})

	app := fiber.New()
	New(log, validator.New(), mw, svc).Start(app.Group("/api/v1"))
	return app, svc
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	res, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(body)
}

func TestListAnalyses(t *testing.T) {
	app, svc := newTestApp(t, true)

	for _, emotion := range []string{"Feliz", "Triste", "Feliz"} {
		err := svc.Record(context.Background(), entity.Face{
			Attributes: entity.Attributes{Age: "20 anos", Gender: "Feminino", Emotion: emotion, Ethnicity: "Negro"},
		})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	status, body := get(t, app, "/api/v1/analyses?limit=2")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d body %s", status, body)
	}
	if !strings.Contains(body, `"total":3`) || !strings.Contains(body, `"limit":2`) || strings.Count(body, `"id":`) != 2 {
		t.Errorf("body = %s", body)
	}

	status, body = get(t, app, "/api/v1/analyses/summary")
	if status != fiber.StatusOK || !strings.Contains(body, `"Feliz":2`) || !strings.Contains(body, `"Negro":3`) {
		t.Errorf("summary %d %s", status, body)
	}
}

func TestListAnalysesValidation(t *testing.T) {
	app, _ := newTestApp(t, true)

	for _, path := range []string{"/api/v1/analyses?limit=0", "/api/v1/analyses?limit=500", "/api/v1/analyses?offset=-1", "/api/v1/analyses?limit=abc"} {
		if status, body := get(t, app, path); status != fiber.StatusBadRequest {
			t.Errorf("GET %s = %d %s, want 400", path, status, body)
		}
	}
}

func TestHistoryDisabled(t *testing.T) {
	app, _ := newTestApp(t, false)

	for _, path := range []string{"/api/v1/analyses", "/api/v1/analyses/summary"} {
		status, body := get(t, app, path)
		if status != fiber.StatusServiceUnavailable || !strings.Contains(body, "HISTORY_DISABLED") {
			t.Errorf("GET %s = %d %s, want 503", path, status, body)
		}
	}
}
