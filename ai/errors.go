package ai

import (
	"errors"
	"strings"
)

var (
	// ErrBackendUnavailable indicates the embedding backend could not be
	// reached or returned a transport-level failure.
	ErrBackendUnavailable = errors.New("embedding backend unavailable")

	// ErrRateLimited indicates the backend rejected the request with an
	// explicit rate-limit signal.
	ErrRateLimited = errors.New("embedding backend rate limited")
)

// IsRetryable reports whether an embedding error is worth retrying with
// backoff. Both classified failure modes are transient by definition.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrRateLimited)
}

// ClassifyBackendError maps a raw client error onto the failure taxonomy.
// Rate-limit signals surface from OpenAI-compatible and Ollama servers as
// HTTP 429 responses; everything else is treated as backend unavailability.
func ClassifyBackendError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBackendUnavailable) || errors.Is(err, ErrRateLimited) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests") {
		return errors.Join(ErrRateLimited, err)
	}
	return errors.Join(ErrBackendUnavailable, err)
}
