package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorFormatting(t *testing.T) {
	err := NewDomainError("Registry.Get", ErrToolNotFound, "addTodo")
	assert.Equal(t, "Registry.Get: addTodo: tool not found", err.Error())

	bare := NewDomainError("Store.Load", ErrNotFound, "")
	assert.Equal(t, "Store.Load: not found", bare.Error())
}

func TestDomainErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewDomainError("op", ErrRateLimit, ""))
	assert.True(t, errors.Is(err, ErrRateLimit))
}

func TestWrapOpNil(t *testing.T) {
	assert.NoError(t, WrapOp("op", nil))
	assert.ErrorIs(t, WrapOp("op", ErrTimeout), ErrTimeout)
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(fmt.Errorf("%w: 429", ErrRateLimit)))
	assert.True(t, IsRetryableError(fmt.Errorf("%w: 503", ErrProviderError)))
	assert.False(t, IsRetryableError(ErrAuthInvalid))
	assert.False(t, IsRetryableError(nil))
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"direct", ErrToolNotFound, CodeToolNotFound},
		{"domain error", NewDomainError("op", ErrConfigLoad, "x"), CodeConfigLoad},
		{"wrapped", fmt.Errorf("call: %w", ErrAuthInvalid), CodeAuthInvalid},
		{"unknown", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeOf(tt.err))
		})
	}
}
