package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	// Fails twice, succeeds on the third call: exactly 3 invocations.
	calls := 0
	result, err := Retry(context.Background(), 3, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &APIError{StatusCode: 503, Message: "service unavailable"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestRetryExhaustsAttemptsOn429(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, func() (string, error) {
		calls++
		return "", &APIError{StatusCode: 429, Message: "rate limited"}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, IsQuotaError(err))
}

func TestRetryDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 3, func() (string, error) {
		calls++
		return "", &APIError{StatusCode: 401, Message: "invalid api key"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryDoesNotRetryStatusInMessage(t *testing.T) {
	// SDK-style errors only carry the status in the message text.
	calls := 0
	_, err := Retry(context.Background(), 3, func() (string, error) {
		calls++
		return "", errors.New("request failed with status 401")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryRetriesNetworkErrors(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), 2, func() (string, error) {
		calls++
		return "", errors.New("connection reset by peer")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Retry(ctx, 3, func() (string, error) {
		calls++
		cancel()
		return "", &APIError{StatusCode: 500, Message: "boom"}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsQuotaError(t *testing.T) {
	assert.True(t, IsQuotaError(&APIError{StatusCode: 429}))
	assert.False(t, IsQuotaError(&APIError{StatusCode: 500}))
	assert.False(t, IsQuotaError(errors.New("429")))
	assert.False(t, IsQuotaError(nil))
}
