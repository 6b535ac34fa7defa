package testutil

import (
	"testing"

	"cobot-go/internal/database"
)

// NewTestOperationLog creates an in-memory operation log with the schema
// applied. The log is automatically closed when the test completes.
func NewTestOperationLog(t *testing.T) *database.SQLiteOperationLog {
	t.Helper()

	ops, err := database.NewSQLiteOperationLog(":memory:")
	if err != nil {
		t.Fatalf("failed to open operation log: %v", err)
	}

	t.Cleanup(func() {
		ops.Close()
	})

	return ops
}
