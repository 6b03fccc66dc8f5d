package storage

import (
	"sort"

	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// DictionarySegment is the immutable, dictionary-encoded form of a value
// segment. The dictionary holds the distinct non-NULL values in ascending
// order; the attribute vector stores one value id per row at the narrowest
// width that can address every id.
//
// For nullable segments value id 0 is reserved for NULL and dictionary
// entry k is addressed by id k+1. For non-nullable segments ids map to
// dictionary positions directly.
type DictionarySegment[T Element] struct {
	dictionary      []T
	attributeVector AttributeVector
	nullable        bool
}

// NewDictionarySegment dictionary-encodes a value segment. The source is
// not modified; installing the result into a chunk is the caller's
// (table's) decision.
func NewDictionarySegment[T Element](source *ValueSegment[T]) (*DictionarySegment[T], error) {
	size := source.Size()
	values := source.Values()
	nullable := source.IsNullable()

	// Collect the distinct non-NULL values and sort them.
	distinct := make(map[T]struct{})
	for i := types.ChunkOffset(0); i < size; i++ {
		if !source.IsNull(i) {
			distinct[values[i]] = struct{}{}
		}
	}

	dictionary := make([]T, 0, len(distinct))
	for v := range distinct {
		dictionary = append(dictionary, v)
	}
	sort.Slice(dictionary, func(i, j int) bool { return dictionary[i] < dictionary[j] })

	// Ids are positions in the sorted dictionary, shifted by one when id 0
	// is reserved for NULL.
	offset := types.ValueID(0)
	if nullable {
		offset = 1
	}
	idOf := make(map[T]types.ValueID, len(dictionary))
	for i, v := range dictionary {
		idOf[v] = types.ValueID(i) + offset
	}

	codeCount := uint64(len(dictionary)) + uint64(offset)
	attributeVector, err := newAttributeVector(codeCount, size)
	if err != nil {
		return nil, err
	}

	for i := types.ChunkOffset(0); i < size; i++ {
		if source.IsNull(i) {
			attributeVector.Set(i, 0)
		} else {
			attributeVector.Set(i, idOf[values[i]])
		}
	}

	return &DictionarySegment[T]{
		dictionary:      dictionary,
		attributeVector: attributeVector,
		nullable:        nullable,
	}, nil
}

// ValueOfValueID resolves a value id against the dictionary. The reserved
// NULL id of a nullable segment does not resolve.
func (s *DictionarySegment[T]) ValueOfValueID(id types.ValueID) (T, error) {
	var zero T
	if s.nullable && id == s.NullValueID() {
		return zero, errors.New(errors.ErrorTypeNullViolation, "cannot retrieve value for NULL value id")
	}
	index := id
	if s.nullable {
		index--
	}
	if index >= types.ValueID(len(s.dictionary)) {
		return zero, errors.Newf(errors.ErrorTypeBounds, "value id %d out of range for dictionary of size %d", id, len(s.dictionary))
	}
	return s.dictionary[index], nil
}

// Get returns the value at a certain position. NULL cells fail.
func (s *DictionarySegment[T]) Get(offset types.ChunkOffset) (T, error) {
	var zero T
	if err := s.checkBounds(offset); err != nil {
		return zero, err
	}
	v, ok := s.GetTyped(offset)
	if !ok {
		return zero, errors.Newf(errors.ErrorTypeNullViolation, "value at position %d is NULL", offset)
	}
	return v, nil
}

// GetTyped returns the value at a certain position, or ok=false for NULL.
func (s *DictionarySegment[T]) GetTyped(offset types.ChunkOffset) (T, bool) {
	id := s.attributeVector.Get(offset)
	if s.nullable && id == s.NullValueID() {
		var zero T
		return zero, false
	}
	v, err := s.ValueOfValueID(id)
	if err != nil {
		// The attribute vector only holds ids produced at construction, so
		// this cannot be reached through the public API.
		panic(err)
	}
	return v, true
}

// At returns the cell wrapped in a variant, NULL included.
func (s *DictionarySegment[T]) At(offset types.ChunkOffset) value.Value {
	v, ok := s.GetTyped(offset)
	if !ok {
		return value.Null()
	}
	return wrap(v)
}

// LowerBound returns the id of the first dictionary entry >= the probe, in
// dictionary coordinates (not shifted by the NULL reservation), or
// InvalidValueID when every entry is smaller.
func (s *DictionarySegment[T]) LowerBound(probe T) types.ValueID {
	index := sort.Search(len(s.dictionary), func(i int) bool { return s.dictionary[i] >= probe })
	if index == len(s.dictionary) {
		return types.InvalidValueID
	}
	return types.ValueID(index)
}

// UpperBound returns the id of the first dictionary entry > the probe, with
// the same coordinate convention as LowerBound.
func (s *DictionarySegment[T]) UpperBound(probe T) types.ValueID {
	index := sort.Search(len(s.dictionary), func(i int) bool { return s.dictionary[i] > probe })
	if index == len(s.dictionary) {
		return types.InvalidValueID
	}
	return types.ValueID(index)
}

// LowerBoundValue coerces the variant to the element type and delegates to
// LowerBound.
func (s *DictionarySegment[T]) LowerBoundValue(v value.Value) (types.ValueID, error) {
	probe, err := coerce[T](v)
	if err != nil {
		return types.InvalidValueID, err
	}
	return s.LowerBound(probe), nil
}

// UpperBoundValue coerces the variant to the element type and delegates to
// UpperBound.
func (s *DictionarySegment[T]) UpperBoundValue(v value.Value) (types.ValueID, error) {
	probe, err := coerce[T](v)
	if err != nil {
		return types.InvalidValueID, err
	}
	return s.UpperBound(probe), nil
}

// Dictionary returns the sorted dictionary.
func (s *DictionarySegment[T]) Dictionary() []T {
	return s.dictionary
}

// AttributeVector returns the packed value id sequence.
func (s *DictionarySegment[T]) AttributeVector() AttributeVector {
	return s.attributeVector
}

// UniqueValuesCount returns the number of distinct non-NULL values.
func (s *DictionarySegment[T]) UniqueValuesCount() types.ChunkOffset {
	return types.ChunkOffset(len(s.dictionary))
}

// NullValueID returns the value id reserved for NULL.
func (s *DictionarySegment[T]) NullValueID() types.ValueID {
	return 0
}

// Size returns the number of entries.
func (s *DictionarySegment[T]) Size() types.ChunkOffset {
	return s.attributeVector.Size()
}

// IsNullable reports whether the segment admits NULL cells.
func (s *DictionarySegment[T]) IsNullable() bool {
	return s.nullable
}

// DataType returns the element type name.
func (s *DictionarySegment[T]) DataType() DataType {
	return DataTypeOf[T]()
}

func (s *DictionarySegment[T]) checkBounds(offset types.ChunkOffset) error {
	if offset >= s.Size() {
		return errors.Newf(errors.ErrorTypeBounds, "offset %d out of range for segment of size %d", offset, s.Size())
	}
	return nil
}

// EstimateMemoryUsage returns the approximate payload size in bytes:
// the dictionary plus the packed attribute vector.
func (s *DictionarySegment[T]) EstimateMemoryUsage() int64 {
	dictSize := int64(len(s.dictionary)) * sizeOfElement[T]()
	vectorSize := int64(s.attributeVector.Width()) * int64(s.attributeVector.Size())
	return dictSize + vectorSize
}
