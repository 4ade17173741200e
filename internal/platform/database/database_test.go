package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsPostgresDSN(t *testing.T) {
	cases := map[string]bool{
		"postgres://urble@localhost/urble":   true,
		"postgresql://urble@localhost/urble": true,
		"host=localhost user=urble":          true,
		"urble.db":                           false,
		"file::memory:":                      false,
	}
	for dsn, want := range cases {
		if got := IsPostgresDSN(dsn); got != want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}

func TestIsRetryableError(t *testing.T) {
	if IsRetryableError(nil) {
		t.Fatal("nil must not be retryable")
	}
	if !IsRetryableError(errors.New("database is locked")) {
		t.Error("sqlite lock should be retryable")
	}
	if !IsRetryableError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "40001"})) {
		t.Error("serialization failure should be retryable")
	}
	if IsRetryableError(&pgconn.PgError{Code: "23505"}) {
		t.Error("unique violation must not be retryable")
	}
	if IsRetryableError(errors.New("no such table: games")) {
		t.Error("schema errors must not be retryable")
	}
}

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := Open("file::memory:", "silent")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	UpdateStatus(true)
	if !IsRedisHealthy() {
		t.Fatal("expected healthy")
	}
	UpdateStatus(false)
	if IsRedisHealthy() {
		t.Fatal("expected unhealthy")
	}
}
