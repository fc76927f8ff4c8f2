package models

import (
	"strconv"
	"time"
)

// QueryType labels the kind of query a conversation turn resolved to. Stored in
// the conversation context so follow-up heuristics can check the previous turn.
const QueryTypeCrimePrediction = "crime_prediction"

// UsingDefault records, per field, whether the value was absent from the query
// text and the conversation context and had to be filled with a hardcoded
// fallback. The orchestrator reads this to decide between answering and asking
// a follow-up question.
type UsingDefault struct {
	Coordinates bool `json:"coordinates"`
	Time        bool `json:"time"`
	Date        bool `json:"date"`
}

// Any reports whether any field fell back to a default.
func (u UsingDefault) Any() bool {
	return u.Coordinates || u.Time || u.Date
}

// QueryParams is the structured parameter set extracted from one query.
// Date is YYYY-MM-DD, Time is HH:MM (24-hour). Complete is set true by the
// extraction pipeline unconditionally; the orchestrator forces it false when a
// prediction cannot be produced.
type QueryParams struct {
	Date           string       `json:"date"`
	Time           string       `json:"time"`
	Longitude      float64      `json:"longitude"`
	Latitude       float64      `json:"latitude"`
	UsingDefault   UsingDefault `json:"using_default"`
	Complete       bool         `json:"complete"`
	OriginalQuery  string       `json:"original_query"`
	WeeklyForecast bool         `json:"is_weekly_forecast"`
}

// ForecastRequest identifies one weekly forecast computation and doubles as
// the memoization cache key. Exactly one of the two sampling modes applies:
// SpecificHour nil means one slot every HourInterval hours, non-nil means one
// slot per day at that hour.
type ForecastRequest struct {
	StartDate    string  `json:"start_date"` // YYYY-MM-DD
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	HourInterval int     `json:"hour_interval"`
	SpecificHour *int    `json:"specific_hour,omitempty"`
}

// CacheKey renders the request as a cache key. The specific-hour mode appends
// a suffix so it can never collide with an interval-mode key for the same
// date and coordinates.
func (r ForecastRequest) CacheKey() string {
	key := r.StartDate +
		"_" + strconv.FormatFloat(r.Longitude, 'g', -1, 64) +
		"_" + strconv.FormatFloat(r.Latitude, 'g', -1, 64) +
		"_" + strconv.Itoa(r.HourInterval)
	if r.SpecificHour != nil {
		key += "_hour" + strconv.Itoa(*r.SpecificHour)
	}
	return key
}

// ForecastSample is one predicted time slot.
type ForecastSample struct {
	Time        time.Time `json:"time"`
	Probability float64   `json:"probability"`
}

// ForecastSummary summarizes all slot probabilities of a forecast.
type ForecastSummary struct {
	Avg float64 `json:"avg_probability"`
	Min float64 `json:"min_probability"`
	Max float64 `json:"max_probability"`
	Std float64 `json:"std_probability"`
}

// GroupSummary summarizes the probabilities of one weekday or hour group.
type GroupSummary struct {
	Avg     float64 `json:"avg"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Samples int     `json:"samples"`
}

// ForecastMetadata echoes the request plus the realized sample count.
type ForecastMetadata struct {
	StartDate    string  `json:"start_date"`
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	HourInterval int     `json:"hour_interval"`
	SpecificHour *int    `json:"specific_hour,omitempty"`
	TotalSamples int     `json:"total_samples"`
}

// ForecastResult is the full output of one weekly forecast. Cached entries are
// immutable once computed; callers must not mutate a returned result.
type ForecastResult struct {
	Samples       []ForecastSample        `json:"samples"`
	Summary       ForecastSummary         `json:"summary"`
	DailySummary  map[string]GroupSummary `json:"daily_summary"`  // keyed by weekday name
	HourlySummary map[int]GroupSummary    `json:"hourly_summary"` // keyed by hour of day
	Metadata      ForecastMetadata        `json:"metadata"`
}

// FollowUp describes what a FOLLOW_UP outcome is missing and the clarification
// question to relay to the user.
type FollowUp struct {
	MissingInfo []string `json:"missing_info"`
	Question    string   `json:"question"`
}

// RagResult is the orchestrator's caller-facing outcome for one accepted query.
// Either Complete is true and Probability/Explanation are populated, or
// FollowUp is set. WeeklyForecast tags a weekly-forecast request whose actual
// computation the command surface performs separately. Error carries a
// user-visible prediction failure; a failed prediction never yields a
// fabricated probability.
type RagResult struct {
	Type           string      `json:"type"`
	Complete       bool        `json:"complete"`
	Params         QueryParams `json:"params"`
	Probability    *float64    `json:"probability,omitempty"`
	Explanation    string      `json:"explanation,omitempty"`
	WeeklyForecast bool        `json:"weekly_forecast,omitempty"`
	FollowUp       *FollowUp   `json:"follow_up,omitempty"`
	Error          string      `json:"error,omitempty"`
}
