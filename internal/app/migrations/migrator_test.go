package migrations

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateFromDirectory_SQLite(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	m := NewMigrator(SQLDatabase{DB: db})

	if err := m.MigrateFromDirectory(ctx, Embedded, DirSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, table := range []string{"books", "movies", "students", "vehicles", "users"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 3 {
		t.Errorf("applied migrations = %d, want 3", count)
	}
}

func TestMigrateFromDirectory_Idempotent(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	m := NewMigrator(SQLDatabase{DB: db})

	for i := 0; i < 2; i++ {
		if err := m.MigrateFromDirectory(ctx, Embedded, DirSQLite); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 3 {
		t.Errorf("applied migrations = %d, want 3", count)
	}
}

func TestMigrateFromDirectory_MissingDir(t *testing.T) {
	m := NewMigrator(SQLDatabase{DB: openSQLite(t)})
	if err := m.MigrateFromDirectory(context.Background(), Embedded, "sql/nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
