package implementation

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	migrations "gitlab.com/maplesense1/fld.telemetry_server/src/production/FLD.Migrations"
)

// newTestDB opens a migrated throwaway SQLite database with the same pragmas
// the service uses.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(30000)&_pragma=foreign_keys(on)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Up(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}
