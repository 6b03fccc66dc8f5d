package storage

import (
	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// Chunk is a horizontal partition of a table: an ordered sequence of
// segments, one per column, all of equal size. The table is the single
// writer of a chunk; readers receive segment handles and never mutate.
type Chunk struct {
	segments []Segment
}

// NewChunk creates a chunk with no segments.
func NewChunk() *Chunk {
	return &Chunk{}
}

// AddSegment appends a segment as a new column. Extending the schema is
// legal only while the chunk holds no rows; a populated chunk would end up
// with columns of unequal size.
func (c *Chunk) AddSegment(segment Segment) error {
	if c.Size() > 0 {
		return errors.New(errors.ErrorTypeValidation, "cannot add segment to non-empty chunk")
	}
	if segment.Size() > 0 {
		return errors.New(errors.ErrorTypeValidation, "cannot add non-empty segment to chunk")
	}
	c.segments = append(c.segments, segment)
	return nil
}

// Append adds one row across all segments. The value count must match the
// column count and every segment must be mutable. Columns already written
// when a later column fails are rolled back, so all segments keep the same
// size.
func (c *Chunk) Append(values []value.Value) error {
	if len(values) != len(c.segments) {
		return errors.Newf(errors.ErrorTypeValidation,
			"number of values (%d) does not match number of columns (%d)", len(values), len(c.segments))
	}

	before := c.Size()
	for i, segment := range c.segments {
		mutable, ok := segment.(mutableSegment)
		if !ok {
			c.rollback(types.ColumnID(i), before)
			return errors.Newf(errors.ErrorTypeValidation,
				"segment %d is not mutable, cannot append", i)
		}
		if err := mutable.Append(values[i]); err != nil {
			c.rollback(types.ColumnID(i), before)
			return err
		}
	}
	return nil
}

// rollback truncates the first n segments back to the pre-append size.
func (c *Chunk) rollback(n types.ColumnID, size types.ChunkOffset) {
	for i := types.ColumnID(0); i < n; i++ {
		c.segments[i].(mutableSegment).truncateTo(size)
	}
}

// GetSegment returns the segment holding the given column.
func (c *Chunk) GetSegment(columnID types.ColumnID) (Segment, error) {
	if int(columnID) >= len(c.segments) {
		return nil, errors.Newf(errors.ErrorTypeBounds,
			"column id %d out of range for chunk with %d columns", columnID, len(c.segments))
	}
	return c.segments[columnID], nil
}

// ReplaceSegment installs a segment into an existing column slot. The
// replacement must match the slot's size so the equal-size invariant
// holds; the table uses this to swap a value segment for its compressed
// form. Readers holding the old handle keep a consistent (stale) view.
func (c *Chunk) ReplaceSegment(columnID types.ColumnID, segment Segment) error {
	if int(columnID) >= len(c.segments) {
		return errors.Newf(errors.ErrorTypeBounds,
			"column id %d out of range for chunk with %d columns", columnID, len(c.segments))
	}
	if segment.Size() != c.Size() {
		return errors.Newf(errors.ErrorTypeValidation,
			"replacement segment size %d does not match chunk size %d", segment.Size(), c.Size())
	}
	c.segments[columnID] = segment
	return nil
}

// Size returns the number of rows. All segments agree by invariant, so the
// first one answers for the chunk.
func (c *Chunk) Size() types.ChunkOffset {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[0].Size()
}

// ColumnCount returns the number of segments.
func (c *Chunk) ColumnCount() types.ColumnCount {
	return types.ColumnCount(len(c.segments))
}

// EstimateMemoryUsage sums the segment estimates.
func (c *Chunk) EstimateMemoryUsage() int64 {
	var total int64
	for _, segment := range c.segments {
		total += segment.EstimateMemoryUsage()
	}
	return total
}
