// Package testutil provides testing utilities for Lithic
package testutil

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/lithic/pkg/storage"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// NewPeopleTable builds a two-column table (name string nullable, age int)
// with the given target chunk size, used as a fixture across tests.
func NewPeopleTable(t *testing.T, targetChunkSize uint32) *storage.Table {
	t.Helper()

	table := storage.NewTable(types.ChunkOffset(targetChunkSize))
	if err := table.AddColumn("name", storage.DataTypeString, true); err != nil {
		t.Fatalf("adding name column: %v", err)
	}
	if err := table.AddColumn("age", storage.DataTypeInt, false); err != nil {
		t.Fatalf("adding age column: %v", err)
	}
	return table
}

// AppendRows appends rows to a table, failing the test on error.
func AppendRows(t *testing.T, table *storage.Table, rows [][]value.Value) {
	t.Helper()

	for i, row := range rows {
		if err := table.Append(row); err != nil {
			t.Fatalf("appending row %d: %v", i, err)
		}
	}
}
