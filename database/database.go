package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schemaFaceAnalyses = `
	CREATE TABLE IF NOT EXISTS face_analyses (
		id               VARCHAR(26) PRIMARY KEY,
		age              VARCHAR(32) NOT NULL,
		gender           VARCHAR(32) NOT NULL,
		emotion          VARCHAR(64) NOT NULL,
		ethnicity        VARCHAR(64) NOT NULL,
		dominant_gender  VARCHAR(32) NOT NULL,
		dominant_emotion VARCHAR(32) NOT NULL,
		dominant_race    VARCHAR(32) NOT NULL,
		box_x            INTEGER NOT NULL,
		box_y            INTEGER NOT NULL,
		box_w            INTEGER NOT NULL,
		box_h            INTEGER NOT NULL,
		created_at       BIGINT NOT NULL
	)
`

const indexFaceAnalysesCreatedAt = `
	CREATE INDEX IF NOT EXISTS idx_face_analyses_created_at ON face_analyses (created_at)
`

// New opens the history database and creates its schema.
func New(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range []string{schemaFaceAnalyses, indexFaceAnalysesCreatedAt} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
