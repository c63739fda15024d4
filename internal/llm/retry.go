package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// APIError is a non-2xx reply from the model API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "model API error: " + e.Message
}

// IsQuotaError reports whether err is an upstream 429.
func IsQuotaError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}

// Retry runs fn up to maxAttempts times with exponential backoff (1s, 2s,
// 4s, ...). Client errors other than 429 abort immediately; network errors,
// 429 and 5xx are retried. The last error is returned when all attempts fail.
func Retry(ctx context.Context, maxAttempts int, fn func() (string, error)) (string, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := time.Duration(1<<uint(attempt-2)) * time.Second
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return "", err
		}
	}
	return "", lastErr
}

func retryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	// Errors from SDK-style clients only carry the status in the message.
	msg := err.Error()
	for _, code := range []string{"400", "401", "403", "404"} {
		if strings.Contains(msg, code) {
			return false
		}
	}
	return true
}
