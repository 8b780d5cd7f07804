package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	dbfs "github.com/garnizeh/badgeclient/db"
	"github.com/garnizeh/badgeclient/internal/db"
	"github.com/garnizeh/badgeclient/internal/repository/sqlite"
	"github.com/garnizeh/badgeclient/internal/session"
)

func openRepo(t *testing.T, dsn string) (*sqlite.SQLiteRepo, *db.DB) {
	t.Helper()
	ctx := context.Background()

	d, err := db.New(ctx, dsn, nil)
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}
	return sqlite.New(d, nil), d
}

func TestSessionRepo_GetEmpty(t *testing.T) {
	repo, d := openRepo(t, ":memory:")
	defer d.Close()

	rec, err := repo.Get(context.Background(), session.Namespace)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !rec.Empty() || rec.AuthToken != nil {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestSessionRepo_SetGetClear(t *testing.T) {
	ctx := context.Background()
	repo, d := openRepo(t, ":memory:")
	defer d.Close()

	tok := "abc"
	if err := repo.Set(ctx, session.Namespace, session.Record{UserID: 7, AuthToken: &tok}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// overwrite keeps a single row per namespace
	if err := repo.Set(ctx, session.Namespace, session.Record{UserID: 8}); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	rec, err := repo.Get(ctx, session.Namespace)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.UserID != 8 || rec.AuthToken != nil {
		t.Fatalf("unexpected record: %+v", rec)
	}

	var rows int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM session_store`).Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row, got %d", rows)
	}

	if err := repo.Clear(ctx, session.Namespace); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	rec, err = repo.Get(ctx, session.Namespace)
	if err != nil {
		t.Fatalf("Get after clear: %v", err)
	}
	if !rec.Empty() {
		t.Fatalf("expected empty record after clear, got %+v", rec)
	}
}

func TestSessionRepo_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	repo, d := openRepo(t, path)
	store, err := session.Open(ctx, repo, nil)
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	if err := store.SetIdentity(ctx, 42); err != nil {
		t.Fatalf("SetIdentity: %v", err)
	}
	if err := store.SetAuthToken(ctx, "tok"); err != nil {
		t.Fatalf("SetAuthToken: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	repo2, d2 := openRepo(t, path)
	defer d2.Close()
	store2, err := session.Open(ctx, repo2, nil)
	if err != nil {
		t.Fatalf("session.Open after restart: %v", err)
	}
	id, ok := store2.Identity()
	if !ok || id != 42 {
		t.Fatalf("expected identity 42 after restart, got %d (%v)", id, ok)
	}
	if tok, ok := store2.AuthToken(); !ok || tok != "tok" {
		t.Fatalf("expected token after restart, got %q (%v)", tok, ok)
	}
}
