package storage

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/logger"
	"github.com/ajitpratap0/lithic/pkg/metrics"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// Table is a schema plus an ordered sequence of chunks. Rows are appended
// to the last chunk; when it reaches the target chunk size the table rolls
// over to a fresh chunk, so every chunk except possibly the last is exactly
// full.
//
// A table is single-writer: appends, schema changes, and compressions must
// be serialized externally. Chunks of different tables are independent.
type Table struct {
	name            string
	columnNames     []string
	columnTypes     []DataType
	columnNullable  []bool
	chunks          []*Chunk
	targetChunkSize types.ChunkOffset
}

// NewTable creates an empty table that rolls chunks over at the given row
// count. The table starts with one empty chunk.
func NewTable(targetChunkSize types.ChunkOffset) *Table {
	t := &Table{targetChunkSize: targetChunkSize}
	t.createNewChunk()
	return t
}

// setName attaches the registry name for logging and metrics labels.
func (t *Table) setName(name string) {
	t.name = name
}

// metricName labels metrics for tables not yet registered.
func (t *Table) metricName() string {
	if t.name == "" {
		return "unregistered"
	}
	return t.name
}

// AddColumn appends a column to the schema. Only empty tables can grow
// their schema; every existing (empty) chunk is extended with a matching
// mutable segment.
func (t *Table) AddColumn(name string, dataType DataType, nullable bool) error {
	if t.RowCount() > 0 {
		return errors.New(errors.ErrorTypeValidation, "cannot add column to non-empty table")
	}
	for _, chunk := range t.chunks {
		segment, err := NewValueSegmentOfType(dataType, nullable)
		if err != nil {
			return err
		}
		if err := chunk.AddSegment(segment); err != nil {
			return err
		}
	}
	t.addColumnDefinition(name, dataType, nullable)
	return nil
}

// addColumnDefinition records the column metadata without touching chunks.
func (t *Table) addColumnDefinition(name string, dataType DataType, nullable bool) {
	t.columnNames = append(t.columnNames, name)
	t.columnTypes = append(t.columnTypes, dataType)
	t.columnNullable = append(t.columnNullable, nullable)
}

// createNewChunk appends a fresh chunk with one empty mutable segment per
// schema column.
func (t *Table) createNewChunk() {
	chunk := NewChunk()
	for i := range t.columnNames {
		segment, err := NewValueSegmentOfType(t.columnTypes[i], t.columnNullable[i])
		if err != nil {
			// The schema only holds types that resolved when the column was
			// added.
			panic(err)
		}
		if err := chunk.AddSegment(segment); err != nil {
			panic(err)
		}
	}
	t.chunks = append(t.chunks, chunk)
	metrics.ChunksCreated.WithLabelValues(t.metricName()).Inc()
}

// Append adds one row. The value count must match the column count. A full
// last chunk triggers rollover before the row is written.
func (t *Table) Append(values []value.Value) error {
	if len(values) != len(t.columnNames) {
		return errors.Newf(errors.ErrorTypeValidation,
			"number of values (%d) does not match number of columns (%d)", len(values), len(t.columnNames))
	}
	if t.lastChunk().Size() >= t.targetChunkSize {
		t.createNewChunk()
		logger.Debug("chunk rollover",
			zap.String("table", t.metricName()),
			zap.Uint32("chunk_count", uint32(len(t.chunks))))
	}
	if err := t.lastChunk().Append(values); err != nil {
		return err
	}
	metrics.RowsAppended.WithLabelValues(t.metricName()).Inc()
	return nil
}

func (t *Table) lastChunk() *Chunk {
	return t.chunks[len(t.chunks)-1]
}

// RowCount returns the number of rows. Every chunk but the last is exactly
// full, so the count follows from the chunk count and the last chunk.
func (t *Table) RowCount() uint64 {
	return uint64(len(t.chunks)-1)*uint64(t.targetChunkSize) + uint64(t.lastChunk().Size())
}

// ChunkCount returns the number of chunks.
func (t *Table) ChunkCount() types.ChunkID {
	return types.ChunkID(len(t.chunks))
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() types.ColumnCount {
	return types.ColumnCount(len(t.columnNames))
}

// ColumnIDByName resolves a column name to its id.
func (t *Table) ColumnIDByName(name string) (types.ColumnID, error) {
	for i, columnName := range t.columnNames {
		if columnName == name {
			return types.ColumnID(i), nil
		}
	}
	return 0, errors.Newf(errors.ErrorTypeNotFound, "column with name %q does not exist", name)
}

// ColumnName returns the name of a column.
func (t *Table) ColumnName(columnID types.ColumnID) (string, error) {
	if err := t.checkColumnID(columnID); err != nil {
		return "", err
	}
	return t.columnNames[columnID], nil
}

// ColumnType returns the element type of a column.
func (t *Table) ColumnType(columnID types.ColumnID) (DataType, error) {
	if err := t.checkColumnID(columnID); err != nil {
		return "", err
	}
	return t.columnTypes[columnID], nil
}

// ColumnNullable reports whether a column admits NULLs.
func (t *Table) ColumnNullable(columnID types.ColumnID) (bool, error) {
	if err := t.checkColumnID(columnID); err != nil {
		return false, err
	}
	return t.columnNullable[columnID], nil
}

// ColumnNames returns all column names in schema order.
func (t *Table) ColumnNames() []string {
	return t.columnNames
}

// GetChunk returns the chunk with the given id.
func (t *Table) GetChunk(chunkID types.ChunkID) (*Chunk, error) {
	if uint64(chunkID) >= uint64(len(t.chunks)) {
		return nil, errors.Newf(errors.ErrorTypeBounds,
			"chunk id %d out of range for table with %d chunks", chunkID, len(t.chunks))
	}
	return t.chunks[chunkID], nil
}

// TargetChunkSize returns the rollover threshold.
func (t *Table) TargetChunkSize() types.ChunkOffset {
	return t.targetChunkSize
}

// CompressChunk dictionary-encodes every segment of a chunk and installs
// the compressed segments in place. Column count and size are unchanged.
// The caller must ensure no reader holds the old segment handles across
// the swap; readers that do keep a consistent stale view.
func (t *Table) CompressChunk(chunkID types.ChunkID) error {
	chunk, err := t.GetChunk(chunkID)
	if err != nil {
		return err
	}

	// Build all replacements before installing any, so a failing column
	// leaves the chunk untouched.
	compressed := make([]Segment, chunk.ColumnCount())
	for i := range compressed {
		segment, err := chunk.GetSegment(types.ColumnID(i))
		if err != nil {
			return err
		}
		compressed[i], err = CompressSegment(segment)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeInternal, "compressing chunk")
		}
	}
	for i, segment := range compressed {
		if err := chunk.ReplaceSegment(types.ColumnID(i), segment); err != nil {
			return err
		}
	}

	metrics.ChunkCompressions.WithLabelValues(t.metricName()).Inc()
	logger.Info("chunk compressed",
		zap.String("table", t.metricName()),
		zap.Uint32("chunk_id", uint32(chunkID)),
		zap.Uint32("rows", uint32(chunk.Size())))
	return nil
}

// EstimateMemoryUsage sums the chunk estimates and refreshes the table
// memory gauge. The process is sampled alongside so the estimate can be
// compared against resident memory.
func (t *Table) EstimateMemoryUsage() int64 {
	var total int64
	for _, chunk := range t.chunks {
		total += chunk.EstimateMemoryUsage()
	}
	metrics.TableMemoryBytes.WithLabelValues(t.metricName()).Set(float64(total))
	if usage, err := metrics.SampleResourceUsage(); err == nil {
		logger.Debug("table memory estimated",
			zap.String("table", t.metricName()),
			zap.Int64("estimated_bytes", total),
			zap.Uint64("process_rss_bytes", usage.MemoryRSS))
	}
	return total
}

func (t *Table) checkColumnID(columnID types.ColumnID) error {
	if int(columnID) >= len(t.columnNames) {
		return errors.Newf(errors.ErrorTypeBounds,
			"column id %d out of range for table with %d columns", columnID, len(t.columnNames))
	}
	return nil
}
