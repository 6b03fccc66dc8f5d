package storage

import (
	"fmt"
	"math/bits"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
)

// AttributeVector is a fixed-width packed array of value ids. The interface
// speaks 32-bit value ids; the backing storage narrows them to its width.
// Callers guarantee losslessness through the bit-width selection performed
// at dictionary construction.
type AttributeVector interface {
	// Get returns the value id at the given position.
	Get(index types.ChunkOffset) types.ValueID

	// Set stores a value id at the given position. Ids that do not fit the
	// storage width indicate a broken width selection and panic.
	Set(index types.ChunkOffset, id types.ValueID)

	// Size returns the number of entries.
	Size() types.ChunkOffset

	// Width returns the byte width of the backing storage.
	Width() types.AttributeVectorWidth
}

// Unsigned constrains the attribute vector backings to the three supported
// storage widths.
type Unsigned interface {
	uint8 | uint16 | uint32
}

// FixedWidthVector is an attribute vector backed by a slice of fixed-width
// unsigned integers.
type FixedWidthVector[U Unsigned] struct {
	values []U
}

// NewFixedWidthVector creates a zeroed vector with the given length.
func NewFixedWidthVector[U Unsigned](size types.ChunkOffset) *FixedWidthVector[U] {
	return &FixedWidthVector[U]{values: make([]U, size)}
}

// Get returns the value id at the given position.
func (v *FixedWidthVector[U]) Get(index types.ChunkOffset) types.ValueID {
	return types.ValueID(v.values[index])
}

// Set stores a value id at the given position.
func (v *FixedWidthVector[U]) Set(index types.ChunkOffset, id types.ValueID) {
	if uint64(id) > v.maxValue() {
		panic(fmt.Sprintf("value id %d does not fit attribute vector width %d", id, v.Width()))
	}
	v.values[index] = U(id)
}

// Size returns the number of entries.
func (v *FixedWidthVector[U]) Size() types.ChunkOffset {
	return types.ChunkOffset(len(v.values))
}

// Width returns the byte width of the backing storage.
func (v *FixedWidthVector[U]) Width() types.AttributeVectorWidth {
	var zero U
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	default:
		return 4
	}
}

func (v *FixedWidthVector[U]) maxValue() uint64 {
	return 1<<(8*uint64(v.Width())) - 1
}

// newAttributeVector selects the narrowest backing that can address
// codeCount distinct value ids and allocates it with the given length.
// codeCount already includes the reserved NULL id for nullable segments.
func newAttributeVector(codeCount uint64, size types.ChunkOffset) (AttributeVector, error) {
	bitsNeeded := 0
	if codeCount > 1 {
		bitsNeeded = bits.Len64(codeCount - 1)
	}
	switch {
	case bitsNeeded <= 8:
		return NewFixedWidthVector[uint8](size), nil
	case bitsNeeded <= 16:
		return NewFixedWidthVector[uint16](size), nil
	case bitsNeeded <= 32:
		return NewFixedWidthVector[uint32](size), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeCapacity,
			"too many values in dictionary, cannot use more than 32 bits (%d codes)", codeCount)
	}
}
