package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

func newPeopleTable(t *testing.T, targetChunkSize types.ChunkOffset) *Table {
	t.Helper()
	table := NewTable(targetChunkSize)
	require.NoError(t, table.AddColumn("name", DataTypeString, true))
	require.NoError(t, table.AddColumn("age", DataTypeInt, false))
	return table
}

func TestTableStartsWithOneEmptyChunk(t *testing.T) {
	table := NewTable(2)
	assert.Equal(t, types.ChunkID(1), table.ChunkCount())
	assert.Equal(t, uint64(0), table.RowCount())
	assert.Equal(t, types.ChunkOffset(2), table.TargetChunkSize())
}

func TestTableAddColumn(t *testing.T) {
	table := newPeopleTable(t, 2)

	assert.Equal(t, types.ColumnCount(2), table.ColumnCount())
	assert.Equal(t, []string{"name", "age"}, table.ColumnNames())

	id, err := table.ColumnIDByName("age")
	require.NoError(t, err)
	assert.Equal(t, types.ColumnID(1), id)

	name, err := table.ColumnName(0)
	require.NoError(t, err)
	assert.Equal(t, "name", name)

	dataType, err := table.ColumnType(1)
	require.NoError(t, err)
	assert.Equal(t, DataTypeInt, dataType)

	nullable, err := table.ColumnNullable(0)
	require.NoError(t, err)
	assert.True(t, nullable)

	// The existing chunk was extended with matching segments.
	chunk, err := table.GetChunk(0)
	require.NoError(t, err)
	assert.Equal(t, types.ColumnCount(2), chunk.ColumnCount())
}

func TestTableAddColumnRejectsUnknownType(t *testing.T) {
	table := NewTable(2)
	err := table.AddColumn("x", "decimal", false)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, types.ColumnCount(0), table.ColumnCount())
}

func TestTableAddColumnOnNonEmptyTableFails(t *testing.T) {
	table := newPeopleTable(t, 2)
	require.NoError(t, table.Append([]value.Value{value.String("Bill"), value.Int(30)}))

	err := table.AddColumn("city", DataTypeString, true)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestTableAppendValueCountMismatch(t *testing.T) {
	table := newPeopleTable(t, 2)
	err := table.Append([]value.Value{value.String("Bill")})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Equal(t, uint64(0), table.RowCount())
}

func TestTableChunkRollover(t *testing.T) {
	table := NewTable(2)
	require.NoError(t, table.AddColumn("n", DataTypeInt, false))

	for i := int32(0); i < 3; i++ {
		require.NoError(t, table.Append([]value.Value{value.Int(i)}))
	}

	assert.Equal(t, types.ChunkID(2), table.ChunkCount())
	assert.Equal(t, uint64(3), table.RowCount())

	first, err := table.GetChunk(0)
	require.NoError(t, err)
	assert.Equal(t, types.ChunkOffset(2), first.Size())

	second, err := table.GetChunk(1)
	require.NoError(t, err)
	assert.Equal(t, types.ChunkOffset(1), second.Size())
}

func TestTableNonLastChunksAreExactlyFull(t *testing.T) {
	table := NewTable(3)
	require.NoError(t, table.AddColumn("n", DataTypeInt, false))

	for i := int32(0); i < 10; i++ {
		require.NoError(t, table.Append([]value.Value{value.Int(i)}))
	}

	require.Equal(t, types.ChunkID(4), table.ChunkCount())
	for chunkID := types.ChunkID(0); chunkID < 3; chunkID++ {
		chunk, err := table.GetChunk(chunkID)
		require.NoError(t, err)
		assert.Equal(t, types.ChunkOffset(3), chunk.Size())
	}
	assert.Equal(t, uint64(10), table.RowCount())
}

func TestTableLookupFailures(t *testing.T) {
	table := newPeopleTable(t, 2)

	_, err := table.ColumnIDByName("city")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	_, err = table.ColumnName(9)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBounds))

	_, err = table.ColumnType(9)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBounds))

	_, err = table.ColumnNullable(9)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBounds))

	_, err = table.GetChunk(9)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBounds))
}

func TestTableCompressChunk(t *testing.T) {
	table := newPeopleTable(t, 2)
	require.NoError(t, table.Append([]value.Value{value.String("Bill"), value.Int(30)}))
	require.NoError(t, table.Append([]value.Value{value.Null(), value.Int(40)}))
	require.NoError(t, table.Append([]value.Value{value.String("Hasso"), value.Int(50)}))

	require.NoError(t, table.CompressChunk(0))

	chunk, err := table.GetChunk(0)
	require.NoError(t, err)
	assert.Equal(t, types.ChunkOffset(2), chunk.Size())
	assert.Equal(t, types.ColumnCount(2), chunk.ColumnCount())

	nameSegment, err := chunk.GetSegment(0)
	require.NoError(t, err)
	nameDict, ok := nameSegment.(*DictionarySegment[string])
	require.True(t, ok)
	assert.Equal(t, []string{"Bill"}, nameDict.Dictionary())
	assert.True(t, nameSegment.At(1).IsNull())

	ageSegment, err := chunk.GetSegment(1)
	require.NoError(t, err)
	ageDict, ok := ageSegment.(*DictionarySegment[int32])
	require.True(t, ok)
	assert.Equal(t, []int32{30, 40}, ageDict.Dictionary())

	// The last (uncompressed) chunk still accepts rows.
	require.NoError(t, table.Append([]value.Value{value.String("Steve"), value.Int(60)}))
	assert.Equal(t, uint64(4), table.RowCount())

	// Compressing the same chunk twice fails: its segments are no longer
	// value segments.
	err = table.CompressChunk(0)
	assert.Error(t, err)
}

func TestTableCompressChunkBounds(t *testing.T) {
	table := newPeopleTable(t, 2)
	err := table.CompressChunk(5)
	assert.True(t, errors.IsType(err, errors.ErrorTypeBounds))
}

func TestTableEstimateMemoryUsage(t *testing.T) {
	table := NewTable(4)
	require.NoError(t, table.AddColumn("n", DataTypeInt, false))
	for i := int32(0); i < 3; i++ {
		require.NoError(t, table.Append([]value.Value{value.Int(i)}))
	}

	assert.Equal(t, int64(3*4), table.EstimateMemoryUsage())
}
