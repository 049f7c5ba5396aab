package test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"todohub/internal/adapter/database"
)

// NewDB opens a fresh sqlite database with the full schema applied. A file
// under t.TempDir rather than :memory:, because the pool opens more than one
// connection and each in-memory connection would see its own empty database.
func NewDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Driver:         database.DriverSQLite,
		DSN:            filepath.Join(t.TempDir(), "todohub_test.db") + "?_foreign_keys=on",
		MigrationsPath: filepath.Join(findProjectRoot(t), "db", "migrations"),
	}, zerolog.Nop())

	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func findProjectRoot(t *testing.T) string {
	_, filename, _, _ := runtime.Caller(0)
	dir := filepath.Dir(filename)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	t.Fatal("could not find project root directory")
	return ""
}
