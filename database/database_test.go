package database

import (
	"context"
	"errors"
	"testing"
)

func TestNewSQLiteMemory(t *testing.T) {
	db, err := New(context.Background(), DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer db.Close()

	var count int
	if err := db.Get(&count, db.Rebind(`SELECT COUNT(*) FROM face_analyses WHERE created_at > ?`), 0); err != nil {
		t.Fatalf("query face_analyses: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}

	if err := Migrate(context.Background(), db); err != nil {
		t.Errorf("second Migrate() error = %v", err)
	}
}

func TestNewRejectsDriver(t *testing.T) {
	_, err := New(context.Background(), "mysql", "dsn")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Fatalf("error = %v, want ErrUnsupportedDriver", err)
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), DriverPostgres, ""); err == nil {
		t.Fatal("New without DSN should fail")
	}
}
