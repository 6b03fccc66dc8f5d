package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/lithic/pkg/compression"
	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

func snapshotTestChunk(t *testing.T) *Chunk {
	t.Helper()

	chunk := NewChunk()
	require.NoError(t, chunk.AddSegment(NewValueSegment[string](true)))
	require.NoError(t, chunk.AddSegment(NewValueSegment[int32](false)))
	require.NoError(t, chunk.AddSegment(NewValueSegment[float64](true)))

	rows := [][]value.Value{
		{value.String("Bill"), value.Int(30), value.Double(1.5)},
		{value.Null(), value.Int(40), value.Null()},
		{value.String("Hasso"), value.Int(50), value.Double(-2.25)},
	}
	for _, row := range rows {
		require.NoError(t, chunk.Append(row))
	}

	// Mix encodings: compress the int column, leave the others mutable.
	segment, err := chunk.GetSegment(1)
	require.NoError(t, err)
	compressed, err := CompressSegment(segment)
	require.NoError(t, err)
	require.NoError(t, chunk.ReplaceSegment(1, compressed))

	return chunk
}

func assertChunksEqual(t *testing.T, want, got *Chunk) {
	t.Helper()

	require.Equal(t, want.ColumnCount(), got.ColumnCount())
	require.Equal(t, want.Size(), got.Size())
	for columnID := types.ColumnID(0); columnID < types.ColumnID(want.ColumnCount()); columnID++ {
		wantSegment, err := want.GetSegment(columnID)
		require.NoError(t, err)
		gotSegment, err := got.GetSegment(columnID)
		require.NoError(t, err)

		assert.Equal(t, wantSegment.DataType(), gotSegment.DataType())
		assert.Equal(t, wantSegment.IsNullable(), gotSegment.IsNullable())
		for i := types.ChunkOffset(0); i < want.Size(); i++ {
			assert.True(t, wantSegment.At(i).Equal(gotSegment.At(i)),
				"column %d row %d: expected %v, got %v", columnID, i, wantSegment.At(i), gotSegment.At(i))
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	algorithms := []compression.Algorithm{
		compression.None,
		compression.Gzip,
		compression.Snappy,
		compression.LZ4,
		compression.Zstd,
		compression.S2,
	}

	chunk := snapshotTestChunk(t)
	for _, algorithm := range algorithms {
		t.Run(string(algorithm), func(t *testing.T) {
			snapshotter, err := NewSnapshotter(&compression.Config{
				Algorithm: algorithm,
				Level:     compression.Default,
			})
			require.NoError(t, err)

			data, err := snapshotter.SerializeChunk(chunk)
			require.NoError(t, err)

			restored, err := snapshotter.DeserializeChunk(data)
			require.NoError(t, err)
			assertChunksEqual(t, chunk, restored)
		})
	}
}

func TestSnapshotPreservesDictionaryEncoding(t *testing.T) {
	chunk := snapshotTestChunk(t)
	snapshotter, err := NewSnapshotter(nil)
	require.NoError(t, err)

	data, err := snapshotter.SerializeChunk(chunk)
	require.NoError(t, err)
	restored, err := snapshotter.DeserializeChunk(data)
	require.NoError(t, err)

	segment, err := restored.GetSegment(1)
	require.NoError(t, err)
	dict, ok := segment.(*DictionarySegment[int32])
	require.True(t, ok, "dictionary segment must stay dictionary-encoded")
	assert.Equal(t, []int32{30, 40, 50}, dict.Dictionary())
	assert.Equal(t, types.AttributeVectorWidth(1), dict.AttributeVector().Width())
}

func TestSnapshotWriteChunk(t *testing.T) {
	chunk := snapshotTestChunk(t)
	snapshotter, err := NewSnapshotter(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, snapshotter.WriteChunk(&buf, chunk))

	restored, err := snapshotter.DeserializeChunk(buf.Bytes())
	require.NoError(t, err)
	assertChunksEqual(t, chunk, restored)
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	snapshotter, err := NewSnapshotter(&compression.Config{
		Algorithm: compression.None,
		Level:     compression.Default,
	})
	require.NoError(t, err)

	_, err = snapshotter.DeserializeChunk([]byte("not a snapshot"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestSnapshotEmptyChunk(t *testing.T) {
	chunk := NewChunk()
	require.NoError(t, chunk.AddSegment(NewValueSegment[int32](false)))

	snapshotter, err := NewSnapshotter(nil)
	require.NoError(t, err)

	data, err := snapshotter.SerializeChunk(chunk)
	require.NoError(t, err)
	restored, err := snapshotter.DeserializeChunk(data)
	require.NoError(t, err)

	assert.Equal(t, types.ColumnCount(1), restored.ColumnCount())
	assert.Equal(t, types.ChunkOffset(0), restored.Size())
}
