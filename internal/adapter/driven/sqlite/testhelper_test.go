package sqlite

import (
	"context"
	"net/url"
	"testing"
)

// setupTestDB opens a migrated in-memory database private to the calling test.
// The name is derived from t.Name() and percent-encoded so it cannot be read
// as DSN query parameters.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := open(context.Background(), memoryDSN(url.PathEscape(t.Name())), t.Name())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}
