package classifier

import (
	"context"
	"errors"
	"strings"
)

// ErrorCategory is a stable label for error classification in metrics.
type ErrorCategory string

// Error category constants used as metric labels (classifierErrorsTotal).
const (
	ErrorCategoryTimeout       ErrorCategory = "timeout"
	ErrorCategoryNetwork       ErrorCategory = "network"
	ErrorCategoryUnavailable   ErrorCategory = "unavailable"
	ErrorCategoryNoProbability ErrorCategory = "no_probability"
	ErrorCategoryBadResponse   ErrorCategory = "bad_response"
	ErrorCategoryBadRequest    ErrorCategory = "bad_request"
	ErrorCategoryUnknown       ErrorCategory = "unknown"
)

// CategorizeError maps an error to a stable ErrorCategory for metrics.
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorCategoryTimeout
	}
	if errors.Is(err, ErrNoProbability) {
		return ErrorCategoryNoProbability
	}
	if errors.Is(err, ErrUnavailable) {
		return ErrorCategoryUnavailable
	}
	if errors.Is(err, ErrBadResponse) {
		return ErrorCategoryBadResponse
	}
	if errors.Is(err, ErrBadRequest) {
		return ErrorCategoryBadRequest
	}

	errStr := err.Error()
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "context deadline exceeded") {
		return ErrorCategoryTimeout
	}
	if strings.Contains(errStr, "network") || strings.Contains(errStr, "connection") {
		return ErrorCategoryNetwork
	}
	if strings.Contains(errStr, "parse") || strings.Contains(errStr, "unmarshal") {
		return ErrorCategoryBadResponse
	}

	return ErrorCategoryUnknown
}
