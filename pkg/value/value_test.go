package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/lithic/pkg/errors"
)

func TestNull(t *testing.T) {
	v := Null()
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())

	// The zero Value is NULL too.
	var zero Value
	assert.True(t, zero.IsNull())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, KindInt, Int(1).Kind())
	assert.Equal(t, KindLong, Long(1).Kind())
	assert.Equal(t, KindFloat, Float(1).Kind())
	assert.Equal(t, KindDouble, Double(1).Kind())
	assert.Equal(t, KindString, String("x").Kind())
}

func TestNumericCoercion(t *testing.T) {
	tests := []struct {
		name string
		v    Value
	}{
		{"int", Int(42)},
		{"long", Long(42)},
		{"float", Float(42)},
		{"double", Double(42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i32, err := tt.v.AsInt32()
			require.NoError(t, err)
			assert.Equal(t, int32(42), i32)

			i64, err := tt.v.AsInt64()
			require.NoError(t, err)
			assert.Equal(t, int64(42), i64)

			f32, err := tt.v.AsFloat32()
			require.NoError(t, err)
			assert.Equal(t, float32(42), f32)

			f64, err := tt.v.AsFloat64()
			require.NoError(t, err)
			assert.Equal(t, float64(42), f64)
		})
	}
}

func TestNarrowingCoercion(t *testing.T) {
	i32, err := Double(3.9).AsInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(3), i32)

	i64, err := Float(-2.5).AsInt64()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), i64)
}

func TestStringNumericNeverInterconvert(t *testing.T) {
	_, err := String("42").AsInt32()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	_, err = String("42").AsFloat64()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	_, err = Int(42).AsString()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestNullCoercionFails(t *testing.T) {
	_, err := Null().AsInt32()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	_, err = Null().AsString()
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(nil)
	require.NoError(t, err)
	assert.True(t, v.IsNull())

	v, err = FromAny(int32(7))
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())

	v, err = FromAny(7)
	require.NoError(t, err)
	assert.Equal(t, KindLong, v.Kind())

	v, err = FromAny("seven")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())

	_, err = FromAny(struct{}{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestEqual(t *testing.T) {
	assert.True(t, Int(1).Equal(Int(1)))
	assert.True(t, Null().Equal(Null()))
	assert.True(t, String("a").Equal(String("a")))

	// Kind matters: int 1 and long 1 are different values.
	assert.False(t, Int(1).Equal(Long(1)))
	assert.False(t, Int(1).Equal(Null()))
	assert.False(t, String("a").Equal(String("b")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "hello", String("hello").String())
}
