package storage

import (
	"github.com/ajitpratap0/lithic/pkg/errors"
	"github.com/ajitpratap0/lithic/pkg/types"
	"github.com/ajitpratap0/lithic/pkg/value"
)

// DataType names a column's element type. These are the names that appear
// in table schemas and in the storage manager's debug output.
type DataType string

const (
	// DataTypeInt is a 32-bit signed integer column
	DataTypeInt DataType = "int"
	// DataTypeLong is a 64-bit signed integer column
	DataTypeLong DataType = "long"
	// DataTypeFloat is a 32-bit float column
	DataTypeFloat DataType = "float"
	// DataTypeDouble is a 64-bit float column
	DataTypeDouble DataType = "double"
	// DataTypeString is a variable-length string column
	DataTypeString DataType = "string"
)

// DataTypes lists all supported element types in schema order.
var DataTypes = []DataType{DataTypeInt, DataTypeLong, DataTypeFloat, DataTypeDouble, DataTypeString}

// Element constrains segment type parameters to the five supported element
// types. All of them are ordered, which the dictionary encoder relies on.
type Element interface {
	int32 | int64 | float32 | float64 | string
}

// Segment is one column's worth of data within one chunk. Value segments
// additionally accept appends; dictionary segments are immutable after
// construction.
//
// Segments are shared by handle for read-only distribution to operators;
// mutating a shared segment is a caller contract violation.
type Segment interface {
	// At returns the cell at the given offset wrapped in a variant, or the
	// NULL variant for NULL cells.
	At(offset types.ChunkOffset) value.Value

	// Size returns the number of entries.
	Size() types.ChunkOffset

	// DataType returns the element type name.
	DataType() DataType

	// IsNullable reports whether the segment admits NULL cells.
	IsNullable() bool

	// EstimateMemoryUsage returns the approximate payload size in bytes.
	EstimateMemoryUsage() int64
}

// mutableSegment is implemented by segments that accept appends. The chunk
// append path discovers mutability through this assertion; dictionary
// segments intentionally stay outside it.
type mutableSegment interface {
	Segment
	Append(v value.Value) error
	truncateTo(n types.ChunkOffset)
}

// NewValueSegmentOfType constructs an empty mutable segment for a runtime
// type name. This is the single coupling point between schema type strings
// and the statically typed segment constructors.
func NewValueSegmentOfType(dataType DataType, nullable bool) (Segment, error) {
	switch dataType {
	case DataTypeInt:
		return NewValueSegment[int32](nullable), nil
	case DataTypeLong:
		return NewValueSegment[int64](nullable), nil
	case DataTypeFloat:
		return NewValueSegment[float32](nullable), nil
	case DataTypeDouble:
		return NewValueSegment[float64](nullable), nil
	case DataTypeString:
		return NewValueSegment[string](nullable), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "unknown data type %q", dataType)
	}
}

// CompressSegment builds the dictionary-encoded form of a runtime-typed
// value segment. It is the type-dispatching counterpart of
// NewDictionarySegment.
func CompressSegment(segment Segment) (Segment, error) {
	switch s := segment.(type) {
	case *ValueSegment[int32]:
		return NewDictionarySegment(s)
	case *ValueSegment[int64]:
		return NewDictionarySegment(s)
	case *ValueSegment[float32]:
		return NewDictionarySegment(s)
	case *ValueSegment[float64]:
		return NewDictionarySegment(s)
	case *ValueSegment[string]:
		return NewDictionarySegment(s)
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, "segment of type %s is not a value segment", segment.DataType())
	}
}

// DataTypeOf maps a static element type to its schema name.
func DataTypeOf[T Element]() DataType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return DataTypeInt
	case int64:
		return DataTypeLong
	case float32:
		return DataTypeFloat
	case float64:
		return DataTypeDouble
	default:
		return DataTypeString
	}
}

// sizeOfElement returns the per-element byte cost used by memory estimates.
// Strings count their header only; the character data is shared with the
// source of the append.
func sizeOfElement[T Element]() int64 {
	var zero T
	switch any(zero).(type) {
	case int32, float32:
		return 4
	case int64, float64:
		return 8
	default:
		return 16
	}
}

// coerce converts a variant into the segment's element type, applying the
// numeric cross-family rules. String and numeric never interconvert.
func coerce[T Element](v value.Value) (T, error) {
	var zero T
	switch p := any(&zero).(type) {
	case *int32:
		x, err := v.AsInt32()
		if err != nil {
			return zero, err
		}
		*p = x
	case *int64:
		x, err := v.AsInt64()
		if err != nil {
			return zero, err
		}
		*p = x
	case *float32:
		x, err := v.AsFloat32()
		if err != nil {
			return zero, err
		}
		*p = x
	case *float64:
		x, err := v.AsFloat64()
		if err != nil {
			return zero, err
		}
		*p = x
	case *string:
		x, err := v.AsString()
		if err != nil {
			return zero, err
		}
		*p = x
	}
	return zero, nil
}

// wrap packs a typed element back into a variant.
func wrap[T Element](v T) value.Value {
	switch x := any(v).(type) {
	case int32:
		return value.Int(x)
	case int64:
		return value.Long(x)
	case float32:
		return value.Float(x)
	case float64:
		return value.Double(x)
	default:
		return value.String(any(v).(string))
	}
}
