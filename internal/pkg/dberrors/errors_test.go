package dberrors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	_ "modernc.org/sqlite"
)

func TestIsDuplicateKeyError_Postgres(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "vehicles_licence_key"}
	wrapped := fmt.Errorf("insert: %w", dup)

	if !IsDuplicateKeyError(wrapped) {
		t.Error("expected wrapped 23505 to be a duplicate")
	}
	if got := ConstraintName(wrapped); got != "vehicles_licence_key" {
		t.Errorf("ConstraintName = %q", got)
	}
	if IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation reported as duplicate")
	}
	if IsDuplicateKeyError(errors.New("boom")) {
		t.Error("plain error reported as duplicate")
	}
	if ConstraintName(errors.New("boom")) != "" {
		t.Error("expected empty constraint name")
	}
}

func TestIsDuplicateKeyError_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, `CREATE TABLE t (k TEXT NOT NULL UNIQUE)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO t (k) VALUES ('OG1')`); err != nil {
		t.Fatal(err)
	}
	_, err = db.ExecContext(ctx, `INSERT INTO t (k) VALUES ('OG1')`)
	if !IsDuplicateKeyError(err) {
		t.Errorf("err = %v, want duplicate", err)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO t (k) VALUES (NULL)`)
	if err == nil || IsDuplicateKeyError(err) {
		t.Errorf("NOT NULL violation err = %v, want non-duplicate error", err)
	}
}
