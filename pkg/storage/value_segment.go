package storage

import (
	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// ValueSegment is the uncompressed, append-only segment used for ingestion.
// Values and NULL flags are parallel slices; the pair is pushed together so
// the two stay the same length even when an append fails.
type ValueSegment[T Element] struct {
	values    []T
	nullFlags []bool
	nullable  bool
}

// NewValueSegment creates an empty value segment.
func NewValueSegment[T Element](nullable bool) *ValueSegment[T] {
	return &ValueSegment[T]{nullable: nullable}
}

// Append adds a value at the end of the segment. NULL variants require a
// nullable segment; concrete values are coerced to the element type.
func (s *ValueSegment[T]) Append(v value.Value) error {
	if v.IsNull() {
		if !s.nullable {
			return errors.New(errors.ErrorTypeNullViolation, "tried to insert NULL value into non-nullable segment")
		}
		var dummy T
		s.values = append(s.values, dummy)
		s.nullFlags = append(s.nullFlags, true)
		return nil
	}

	typed, err := coerce[T](v)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeTypeMismatch, "wrong argument type in append")
	}
	s.values = append(s.values, typed)
	s.nullFlags = append(s.nullFlags, false)
	return nil
}

// Get returns the value at a certain position. NULL cells fail; use
// GetTyped or At when NULLs are expected.
func (s *ValueSegment[T]) Get(offset types.ChunkOffset) (T, error) {
	var zero T
	if err := s.checkBounds(offset); err != nil {
		return zero, err
	}
	if s.IsNull(offset) {
		return zero, errors.Newf(errors.ErrorTypeNullViolation, "value at position %d is NULL", offset)
	}
	return s.values[offset], nil
}

// GetTyped returns the value at a certain position, or ok=false for NULL.
func (s *ValueSegment[T]) GetTyped(offset types.ChunkOffset) (T, bool) {
	if s.IsNull(offset) {
		var zero T
		return zero, false
	}
	return s.values[offset], true
}

// At returns the cell wrapped in a variant, NULL included.
func (s *ValueSegment[T]) At(offset types.ChunkOffset) value.Value {
	if s.IsNull(offset) {
		return value.Null()
	}
	return wrap(s.values[offset])
}

// IsNull reports whether the cell at the given position is NULL.
func (s *ValueSegment[T]) IsNull(offset types.ChunkOffset) bool {
	return s.nullable && s.nullFlags[offset]
}

// Size returns the number of entries.
func (s *ValueSegment[T]) Size() types.ChunkOffset {
	return types.ChunkOffset(len(s.values))
}

// Values returns the raw value slice. NULL positions hold an unspecified
// dummy; pair with NullValues before interpreting them. This is the
// preferred access path for operators that scan many cells.
func (s *ValueSegment[T]) Values() []T {
	return s.values
}

// NullValues returns the NULL flag slice, true at NULL positions. Only
// nullable segments carry meaningful flags.
func (s *ValueSegment[T]) NullValues() ([]bool, error) {
	if !s.nullable {
		return nil, errors.New(errors.ErrorTypeValidation, "NULL values are only available if the segment is nullable")
	}
	return s.nullFlags, nil
}

// IsNullable reports whether the segment supports NULL values.
func (s *ValueSegment[T]) IsNullable() bool {
	return s.nullable
}

// DataType returns the element type name.
func (s *ValueSegment[T]) DataType() DataType {
	return DataTypeOf[T]()
}

// EstimateMemoryUsage returns the approximate payload size in bytes.
func (s *ValueSegment[T]) EstimateMemoryUsage() int64 {
	return int64(len(s.values)) * sizeOfElement[T]()
}

// truncateTo shrinks the segment back to n entries. The chunk append path
// uses it to undo partially applied row appends.
func (s *ValueSegment[T]) truncateTo(n types.ChunkOffset) {
	s.values = s.values[:n]
	s.nullFlags = s.nullFlags[:n]
}

func (s *ValueSegment[T]) checkBounds(offset types.ChunkOffset) error {
	if offset >= s.Size() {
		return errors.Newf(errors.ErrorTypeBounds, "offset %d out of range for segment of size %d", offset, s.Size())
	}
	return nil
}
