package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateQuery_EmptyAndWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tab", "\t"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateQuery(tc.input, 100)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrQueryEmpty) {
				t.Errorf("error = %v, want ErrQueryEmpty", err)
			}
		})
	}
}

func TestValidateQuery_TrimsAndAccepts(t *testing.T) {
	got, err := ValidateQuery("  Is it safe at 10pm?  ", 100)
	if err != nil {
		t.Fatalf("ValidateQuery() err = %v", err)
	}
	if got != "Is it safe at 10pm?" {
		t.Errorf("trimmed = %q", got)
	}
}

func TestValidateQuery_LengthBound(t *testing.T) {
	s100 := strings.Repeat("a", 100)
	if _, err := ValidateQuery(s100, 100); err != nil {
		t.Errorf("exactly max length: err = %v", err)
	}
	if _, err := ValidateQuery(s100+"a", 100); !errors.Is(err, ErrQueryTooLong) {
		t.Errorf("over max: err = %v, want ErrQueryTooLong", err)
	}
	// Zero disables the bound.
	if _, err := ValidateQuery(s100, 0); err != nil {
		t.Errorf("maxLen 0: err = %v, want nil", err)
	}
}

func TestValidateHour(t *testing.T) {
	for _, hour := range []int{0, 9, 23} {
		if err := ValidateHour(hour); err != nil {
			t.Errorf("ValidateHour(%d) = %v, want nil", hour, err)
		}
	}
	for _, hour := range []int{-1, 24, 100} {
		if err := ValidateHour(hour); !errors.Is(err, ErrHourOutOfRange) {
			t.Errorf("ValidateHour(%d) = %v, want ErrHourOutOfRange", hour, err)
		}
	}
}

func TestValidateInterval(t *testing.T) {
	for _, interval := range []int{1, 6, 24} {
		if err := ValidateInterval(interval); err != nil {
			t.Errorf("ValidateInterval(%d) = %v, want nil", interval, err)
		}
	}
	for _, interval := range []int{0, -3, 25} {
		if err := ValidateInterval(interval); !errors.Is(err, ErrIntervalOutOfRange) {
			t.Errorf("ValidateInterval(%d) = %v, want ErrIntervalOutOfRange", interval, err)
		}
	}
}
