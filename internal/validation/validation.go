// Package validation checks request inputs before they reach the extraction
// pipeline or the forecast engine.
package validation

import (
	"errors"
	"strings"
)

// ErrQueryEmpty is returned when the query is empty or whitespace-only after trim.
var ErrQueryEmpty = errors.New("query is required")

// ErrQueryTooLong is returned when the query length exceeds the maximum.
var ErrQueryTooLong = errors.New("query too long")

// ErrHourOutOfRange is returned when an explicit hour lies outside 0-23.
var ErrHourOutOfRange = errors.New("hour must be between 0 and 23")

// ErrIntervalOutOfRange is returned when the slot interval lies outside 1-24.
var ErrIntervalOutOfRange = errors.New("hour interval must be between 1 and 24")

// ValidateQuery trims the input and enforces the length bound (maxLen in
// runes; 0 disables it). Returns the trimmed string or an error suitable for
// 400 INVALID_QUERY responses.
func ValidateQuery(input string, maxLen int) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrQueryEmpty
	}
	if maxLen > 0 && len([]rune(s)) > maxLen {
		return "", ErrQueryTooLong
	}
	return s, nil
}

// ValidateHour checks an explicit forecast hour.
func ValidateHour(hour int) error {
	if hour < 0 || hour > 23 {
		return ErrHourOutOfRange
	}
	return nil
}

// ValidateInterval checks a forecast slot interval.
func ValidateInterval(interval int) error {
	if interval < 1 || interval > 24 {
		return ErrIntervalOutOfRange
	}
	return nil
}
