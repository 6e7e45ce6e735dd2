package llm

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"legalextract/internal/domain"
)

// RateLimitError indicates a provider returned HTTP 429. It unwraps to the
// underlying *domain.TransportError, so it also matches domain.ErrTransport.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

// StatusError converts a non-200 provider response into a transport fault.
func StatusError(provider string, resp *http.Response, body []byte) error {
	baseErr := domain.NewTransportError(provider, resp.StatusCode,
		fmt.Errorf("%s API error: %s", provider, Truncate(string(body), 500)))
	if resp.StatusCode == http.StatusTooManyRequests {
		return NewRateLimitError(provider, baseErr, ParseRetryAfterHeader(resp.Header.Get("Retry-After")))
	}
	return baseErr
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Truncated reports whether a provider finish reason means the output hit the
// token limit.
func Truncated(finishReason string) bool {
	switch finishReason {
	case "MAX_TOKENS", "max_tokens", "length", "FinishReasonMaxTokens":
		return true
	}
	return false
}
