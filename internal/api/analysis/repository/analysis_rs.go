package analysisRepository

import (
	"FaceStream/internal/entity"
	contextPkg "FaceStream/pkg/context"
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AnalysisDB struct {
	ID              string `db:"id"`
	Age             string `db:"age"`
	Gender          string `db:"gender"`
	Emotion         string `db:"emotion"`
	Ethnicity       string `db:"ethnicity"`
	DominantGender  string `db:"dominant_gender"`
	DominantEmotion string `db:"dominant_emotion"`
	DominantRace    string `db:"dominant_race"`
	BoxX            int    `db:"box_x"`
	BoxY            int    `db:"box_y"`
	BoxW            int    `db:"box_w"`
	BoxH            int    `db:"box_h"`
	// unix milliseconds, portable across sqlite and postgres
	CreatedAt int64 `db:"created_at"`
}

type labelCountDB struct {
	Label string `db:"label"`
	Total int    `db:"total"`
}

func (a AnalysisDB) toEntity() entity.AnalysisRecord {
	return entity.AnalysisRecord{
		ID:              a.ID,
		Age:             a.Age,
		Gender:          a.Gender,
		Emotion:         a.Emotion,
		Ethnicity:       a.Ethnicity,
		DominantGender:  a.DominantGender,
		DominantEmotion: a.DominantEmotion,
		DominantRace:    a.DominantRace,
		Box:             entity.Box{X: a.BoxX, Y: a.BoxY, W: a.BoxW, H: a.BoxH},
		CreatedAt:       time.UnixMilli(a.CreatedAt).UTC(),
	}
}

func (r *analysesRepository) CreateAnalysis(ctx context.Context, record entity.AnalysisRecord) error {
	requestID := contextPkg.GetRequestID(ctx)
	argsKV := map[string]interface{}{
		"id":               record.ID,
		"age":              record.Age,
		"gender":           record.Gender,
		"emotion":          record.Emotion,
		"ethnicity":        record.Ethnicity,
		"dominant_gender":  record.DominantGender,
		"dominant_emotion": record.DominantEmotion,
		"dominant_race":    record.DominantRace,
		"box_x":            record.Box.X,
		"box_y":            record.Box.Y,
		"box_w":            record.Box.W,
		"box_h":            record.Box.H,
		"created_at":       record.CreatedAt.UnixMilli(),
	}

	query, args, err := sqlx.Named(queryCreateAnalysis, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateAnalysis")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating analysis")
		return err
	}

	return nil
}

func (r *analysesRepository) GetAnalyses(ctx context.Context, limit, offset int) ([]entity.AnalysisRecord, int, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var total int
	if err := r.q.GetContext(ctx, &total, queryCountAnalyses); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to count analyses")
		return nil, 0, err
	}

	query, args, err := sqlx.Named(queryGetAnalyses, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalyses named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []AnalysisDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to select analyses")
		return nil, 0, err
	}

	records := make([]entity.AnalysisRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toEntity())
	}

	return records, total, nil
}

func (r *analysesRepository) CountByEmotion(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, queryCountByEmotion)
}

func (r *analysesRepository) CountByEthnicity(ctx context.Context) (map[string]int, error) {
	return r.countBy(ctx, queryCountByEthnicity)
}

func (r *analysesRepository) countBy(ctx context.Context, query string) (map[string]int, error) {
	var rows []labelCountDB
	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to count analyses by label")
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Label] = row.Total
	}
	return counts, nil
}
