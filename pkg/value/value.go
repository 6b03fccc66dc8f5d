// Package value provides the tagged variant that carries untyped cell
// values across the storage boundary. A Value holds either one of the five
// supported element types (int, long, float, double, string) or the NULL
// sentinel.
//
// Coercion follows the column-store rules: the numeric types convert freely
// into each other with Go's standard narrowing/widening semantics, while
// string and numeric values are never interconvertible.
package value

import (
	"strconv"

	"github.com/ajitpratap0/lithic/pkg/errors"
)

// Kind identifies what a Value carries
type Kind uint8

const (
	// KindNull is the NULL sentinel
	KindNull Kind = iota
	// KindInt is a 32-bit signed integer
	KindInt
	// KindLong is a 64-bit signed integer
	KindLong
	// KindFloat is a 32-bit float
	KindFloat
	// KindDouble is a 64-bit float
	KindDouble
	// KindString is a variable-length string
	KindString
)

// String returns the type name used in table schemas
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the five element types plus NULL. The zero
// Value is NULL.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// Null returns the NULL sentinel value
func Null() Value {
	return Value{kind: KindNull}
}

// Int wraps a 32-bit integer
func Int(v int32) Value {
	return Value{kind: KindInt, i: int64(v)}
}

// Long wraps a 64-bit integer
func Long(v int64) Value {
	return Value{kind: KindLong, i: v}
}

// Float wraps a 32-bit float
func Float(v float32) Value {
	return Value{kind: KindFloat, f: float64(v)}
}

// Double wraps a 64-bit float
func Double(v float64) Value {
	return Value{kind: KindDouble, f: v}
}

// String wraps a string
func String(v string) Value {
	return Value{kind: KindString, s: v}
}

// FromAny infers the kind from a Go primitive. Untyped integer literals
// arrive as int and are widened to long.
func FromAny(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case int32:
		return Int(t), nil
	case int:
		return Long(int64(t)), nil
	case int64:
		return Long(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Double(t), nil
	case string:
		return String(t), nil
	case Value:
		return t, nil
	default:
		return Null(), errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported value type %T", v)
	}
}

// Kind returns the tag of the value
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is the NULL sentinel
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNumeric reports whether the value carries one of the four numeric types
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindInt, KindLong, KindFloat, KindDouble:
		return true
	default:
		return false
	}
}

// AsInt32 coerces the value to a 32-bit integer
func (v Value) AsInt32() (int32, error) {
	switch v.kind {
	case KindInt, KindLong:
		return int32(v.i), nil
	case KindFloat, KindDouble:
		return int32(v.f), nil
	default:
		return 0, coercionError(v.kind, KindInt)
	}
}

// AsInt64 coerces the value to a 64-bit integer
func (v Value) AsInt64() (int64, error) {
	switch v.kind {
	case KindInt, KindLong:
		return v.i, nil
	case KindFloat, KindDouble:
		return int64(v.f), nil
	default:
		return 0, coercionError(v.kind, KindLong)
	}
}

// AsFloat32 coerces the value to a 32-bit float
func (v Value) AsFloat32() (float32, error) {
	switch v.kind {
	case KindInt, KindLong:
		return float32(v.i), nil
	case KindFloat, KindDouble:
		return float32(v.f), nil
	default:
		return 0, coercionError(v.kind, KindFloat)
	}
}

// AsFloat64 coerces the value to a 64-bit float
func (v Value) AsFloat64() (float64, error) {
	switch v.kind {
	case KindInt, KindLong:
		return float64(v.i), nil
	case KindFloat, KindDouble:
		return v.f, nil
	default:
		return 0, coercionError(v.kind, KindDouble)
	}
}

// AsString coerces the value to a string. Only string values qualify;
// numerics are never stringified implicitly.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", coercionError(v.kind, KindString)
	}
	return v.s, nil
}

// Equal reports whether two values carry the same kind and payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindInt, KindLong:
		return v.i == other.i
	case KindFloat, KindDouble:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	default:
		return false
	}
}

// String renders the value for debug output
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt, KindLong:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return "unknown"
	}
}

func coercionError(from, to Kind) error {
	return errors.Newf(errors.ErrorTypeTypeMismatch, "wrong argument type: cannot coerce %s to %s", from, to)
}
