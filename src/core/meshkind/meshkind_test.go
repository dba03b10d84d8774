package meshkind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_ErrorIncludesOpAndKind(t *testing.T) {
	err := New(Transport, "RemoteProxy.Call", "connection refused")
	assert.Equal(t, "transport: RemoteProxy.Call: connection refused", err.Error())
}

func TestError_ErrorOmitsOpWhenEmpty(t *testing.T) {
	err := Wrap(Internal, "", errors.New("boom"))
	assert.Equal(t, "internal: boom", err.Error())
}

func TestWrap_NilErrorReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(Validation, "op", nil))
}

func TestUnwrap_ReturnsUnderlyingCause(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(Configuration, "op", cause)

	assert.Same(t, cause, errors.Unwrap(err))
}

func TestIs_MatchesTaggedKind(t *testing.T) {
	err := New(Resolution, "op", "unresolved")
	assert.True(t, Is(err, Resolution))
	assert.False(t, Is(err, Transport))
}

func TestIs_FalseForUntaggedError(t *testing.T) {
	assert.False(t, Is(errors.New("plain"), Internal))
}

func TestErrorsAs_WorksThroughWrap(t *testing.T) {
	err := New(Protocol, "decode", "bad json")

	var target *Error
	require := errors.As(err, &target)
	assert.True(t, require)
	assert.Equal(t, Protocol, target.Kind)
}
