package storage

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/logger"
)

// StorageManager is the process-wide registry mapping table names to
// tables. It is created lazily on first access and lives until process
// exit; Reset exists for test teardown.
type StorageManager struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

var (
	managerInstance *StorageManager
	managerOnce     sync.Once
)

// GetStorageManager returns the process-wide storage manager.
func GetStorageManager() *StorageManager {
	managerOnce.Do(func() {
		managerInstance = &StorageManager{tables: make(map[string]*Table)}
	})
	return managerInstance
}

// AddTable registers a table under a unique name.
func (m *StorageManager) AddTable(name string, table *Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[name]; exists {
		return errors.Newf(errors.ErrorTypeConflict, "table %q already exists", name)
	}
	table.setName(name)
	m.tables[name] = table
	logger.Info("table added",
		zap.String("table", name),
		zap.Uint16("columns", uint16(table.ColumnCount())))
	return nil
}

// DropTable removes a table from the registry.
func (m *StorageManager) DropTable(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[name]; !exists {
		return errors.Newf(errors.ErrorTypeNotFound, "table %q does not exist", name)
	}
	delete(m.tables, name)
	logger.Info("table dropped", zap.String("table", name))
	return nil
}

// GetTable returns the table registered under the given name.
func (m *StorageManager) GetTable(name string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, exists := m.tables[name]
	if !exists {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "table %q does not exist", name)
	}
	return table, nil
}

// HasTable reports whether a table is registered under the given name.
func (m *StorageManager) HasTable(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.tables[name]
	return exists
}

// TableNames returns the registered names in no particular order.
func (m *StorageManager) TableNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	return names
}

// Print writes a human-readable schema summary, one block per table.
func (m *StorageManager) Print(out io.Writer) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table := m.tables[name]
		fmt.Fprintf(out, "=== %s ===\n", name)
		fmt.Fprintf(out, "#columns: %d\n", table.ColumnCount())
		fmt.Fprintf(out, "#rows: %d\n", table.RowCount())
		fmt.Fprintf(out, "#chunks: %d\n", table.ChunkCount())
		fmt.Fprintln(out, "columns:")
		for i, columnName := range table.ColumnNames() {
			fmt.Fprintf(out, "  %s (%s)\n", columnName, table.columnTypes[i])
		}
	}
}

// tableSummary is the JSON shape of one table in DumpJSON output.
type tableSummary struct {
	Name    string          `json:"name"`
	Rows    uint64          `json:"rows"`
	Chunks  uint32          `json:"chunks"`
	Columns []columnSummary `json:"columns"`
}

type columnSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

// DumpJSON writes the schema summary as JSON, sorted by table name.
func (m *StorageManager) DumpJSON(out io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for name := range m.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	summaries := make([]tableSummary, 0, len(names))
	for _, name := range names {
		table := m.tables[name]
		summary := tableSummary{
			Name:   name,
			Rows:   table.RowCount(),
			Chunks: uint32(table.ChunkCount()),
		}
		for i, columnName := range table.ColumnNames() {
			summary.Columns = append(summary.Columns, columnSummary{
				Name:     columnName,
				Type:     string(table.columnTypes[i]),
				Nullable: table.columnNullable[i],
			})
		}
		summaries = append(summaries, summary)
	}

	return json.NewEncoder(out).Encode(summaries)
}

// Reset empties the registry. Intended for test teardown; it is not
// synchronized with readers holding table handles.
func (m *StorageManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make(map[string]*Table)
}
