// Package encode builds the fixed-order feature vectors consumed by the
// crime classifier. Hour-of-day and day-of-week are circularly encoded as
// sine/cosine pairs so adjacency across the wrap-around point (23:00 vs 00:00,
// Sunday vs Monday) is preserved in feature space.
package encode

import (
	"fmt"
	"math"
	"time"
)

// FeatureCount is the width of one feature vector.
const FeatureCount = 6

// Feature vector column order. This exact order is a hard contract with the
// pre-trained classifier and must not be permuted.
const (
	ColLatitude = iota
	ColLongitude
	ColSinHour
	ColCosHour
	ColSinWeekday
	ColCosWeekday
)

// Features encodes a point in space and time as the model's 6-column vector
// [latitude, longitude, sin_hour, cos_hour, sin_weekday, cos_weekday].
// The hour is continuous (hour + minute/60); the weekday is 0-6 with Monday=0.
func Features(t time.Time, lon, lat float64) []float64 {
	hour := float64(t.Hour()) + float64(t.Minute())/60.0
	weekday := float64((int(t.Weekday()) + 6) % 7)

	return []float64{
		lat,
		lon,
		math.Sin(2 * math.Pi * hour / 24.0),
		math.Cos(2 * math.Pi * hour / 24.0),
		math.Sin(2 * math.Pi * weekday / 7.0),
		math.Cos(2 * math.Pi * weekday / 7.0),
	}
}

// At parses "YYYY-MM-DD" and "HH:MM" strings and encodes the combined instant.
func At(dateStr, timeStr string, lon, lat float64) ([]float64, error) {
	t, err := Combine(dateStr, timeStr)
	if err != nil {
		return nil, err
	}
	return Features(t, lon, lat), nil
}

// Combine parses a date and clock time into one time.Time.
func Combine(dateStr, timeStr string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", dateStr+" "+timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date/time %q %q: %w", dateStr, timeStr, err)
	}
	return t, nil
}
