package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesTypeAndStack(t *testing.T) {
	err := New(ErrorTypeValidation, "bad schema")

	assert.Equal(t, "validation: bad schema", err.Error())
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.NotEmpty(t, err.Stack)
}

func TestNewf(t *testing.T) {
	err := Newf(ErrorTypeBounds, "offset %d out of range", 7)
	assert.Equal(t, "bounds: offset 7 out of range", err.Error())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrorTypeInternal, "compressing chunk")

	assert.Equal(t, "internal: compressing chunk: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrorTypeInternal))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeInternal, "nothing"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeNullViolation, "NULL")
	outer := Wrap(inner, ErrorTypeValidation, "append failed")

	assert.Equal(t, inner.Stack, outer.Stack)

	// The inner type is still discoverable through the chain.
	var e *Error
	require.True(t, stderrors.As(stderrors.Unwrap(outer), &e))
	assert.Equal(t, ErrorTypeNullViolation, e.Type)
}

func TestIsTypeThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("context: %w", New(ErrorTypeCapacity, "too many values"))
	assert.True(t, IsType(err, ErrorTypeCapacity))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeCapacity))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeConflict, "table exists").
		WithDetail("table", "people").
		WithDetail("attempt", 2)

	assert.Equal(t, "people", err.Details["table"])
	assert.Equal(t, 2, err.Details["attempt"])
}
