package megasena

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLotteryError_Error(t *testing.T) {
	err := ErrBadStatus.WithDetails("HTTP %d", 503).WithCause(errors.New("upstream down"))

	assert.Equal(t, "[MEGASENA_3001] bad status: HTTP 503: upstream down", err.Error())
	assert.Equal(t, "bad status", err.Reason())
	assert.Equal(t, "[MEGASENA_3002] malformed payload", ErrMalformedPayload.Error())
}

func TestLotteryError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same_code", ErrOutOfRange.WithDetails("x"), ErrOutOfRange, true},
		{"different_code", ErrOutOfRange, ErrDuplicateNumbers, false},
		{"category_root_validation", ErrDuplicateNumbers, ErrValidation, true},
		{"category_root_fetch", ErrBadStatus, ErrResultFetch, true},
		{"category_root_config", ErrInvalidEndpoint, ErrConfigInvalid, true},
		{"other_category", ErrInvalidSubsetSize, ErrValidation, false},
		{"non_root_target", ErrBadStatus, ErrMalformedPayload, false},
		{"wrapped_by_fmt", fmt.Errorf("outer: %w", ErrTooFewNumbers), ErrTooFewNumbers, true},
		{"cause_chain", ErrTransportFailure.WithCause(ErrCircuitBreakerOpen), ErrCircuitBreakerOpen, true},
		{"cause_context", ErrTransportFailure.WithCause(context.Canceled), context.Canceled, true},
		{"plain_target", ErrBadStatus, errors.New("bad status"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestLotteryError_BuildersDoNotMutateSentinels(t *testing.T) {
	derived := ErrStoreFailure.
		WithDetails("boom").
		WithOperation("save").
		WithMetadata("key", "value").
		WithCause(errors.New("io"))

	assert.Empty(t, ErrStoreFailure.Details)
	assert.Empty(t, ErrStoreFailure.Operation)
	assert.Nil(t, ErrStoreFailure.Metadata)
	assert.Nil(t, ErrStoreFailure.Cause)

	assert.Equal(t, "boom", derived.Details)
	assert.Equal(t, "save", derived.Operation)
	assert.Equal(t, "value", derived.Metadata["key"])
	assert.True(t, derived.Retryable)

	// 元数据为深拷贝
	other := derived.WithMetadata("key", "changed")
	assert.Equal(t, "value", derived.Metadata["key"])
	assert.Equal(t, "changed", other.Metadata["key"])
}

func TestErrorConstructors(t *testing.T) {
	plain := NewError("X_1", CategoryIO, "plain")
	assert.Equal(t, SeverityMedium, plain.Severity)
	assert.False(t, plain.Retryable)
	assert.False(t, plain.Timestamp.IsZero())

	assert.True(t, NewRetryableError("X_2", CategoryIO, "retry").Retryable)
	assert.Equal(t, SeverityCritical, NewCriticalError("X_3", CategoryIO, "critical").Severity)
}

func TestErrorHelpers(t *testing.T) {
	t.Run("校验错误", func(t *testing.T) {
		assert.True(t, IsValidationError(ErrTooManyNumbers))
		assert.False(t, IsValidationError(ErrBadStatus))
		assert.False(t, IsValidationError(nil))
	})

	t.Run("开奖结果错误", func(t *testing.T) {
		assert.True(t, IsResultFetchError(ErrTransportFailure))
		assert.True(t, IsResultFetchError(fmt.Errorf("wrap: %w", ErrMalformedPayload)))
		assert.False(t, IsResultFetchError(ErrStoreFailure))
	})

	t.Run("CodeOf", func(t *testing.T) {
		assert.Equal(t, ErrCodeOutOfRange, CodeOf(fmt.Errorf("wrap: %w", ErrOutOfRange)))
		assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
		assert.Equal(t, ErrorCode(""), CodeOf(nil))
	})

	t.Run("first_code_wins", func(t *testing.T) {
		err := ErrTransportFailure.WithCause(ErrCircuitBreakerOpen)
		require.Equal(t, ErrCodeTransportFailure, CodeOf(err))
	})
}
