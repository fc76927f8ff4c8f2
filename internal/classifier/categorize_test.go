package classifier

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline exceeded", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled", context.Canceled, ErrorCategoryTimeout},
		{"wrapped deadline", fmt.Errorf("predict_proba: %w", context.DeadlineExceeded), ErrorCategoryTimeout},
		{"no probability", ErrNoProbability, ErrorCategoryNoProbability},
		{"unavailable", fmt.Errorf("after 3 attempts: %w", ErrUnavailable), ErrorCategoryUnavailable},
		{"bad response", ErrBadResponse, ErrorCategoryBadResponse},
		{"bad request", ErrBadRequest, ErrorCategoryBadRequest},
		{"timeout string", errors.New("i/o timeout"), ErrorCategoryTimeout},
		{"connection string", errors.New("connection refused"), ErrorCategoryNetwork},
		{"parse string", errors.New("parse response: unexpected EOF"), ErrorCategoryBadResponse},
		{"unknown", errors.New("something odd"), ErrorCategoryUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategorizeError(tc.err); got != tc.want {
				t.Errorf("CategorizeError(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
