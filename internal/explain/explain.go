// Package explain renders predictions and forecast results as human-readable
// text and as prompt-injectable context blocks for the downstream LLM.
package explain

import (
	"fmt"

	"github.com/crimesight/crime-risk-service/internal/encode"
	"github.com/crimesight/crime-risk-service/internal/models"
)

// RiskTier returns the discrete qualitative label for a probability expressed
// as a percentage.
func RiskTier(probPercent float64) string {
	switch {
	case probPercent < 20:
		return "very low"
	case probPercent < 40:
		return "low"
	case probPercent < 60:
		return "moderate"
	case probPercent < 80:
		return "high"
	default:
		return "very high"
	}
}

// timeOfDay returns the qualitative descriptor for an hour of day.
func timeOfDay(hour int) string {
	switch {
	case hour < 6:
		return "late night/early morning"
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// Explanation renders a prediction as natural-language text. When any
// parameter fell back to a default, it returns a targeted clarification naming
// exactly what is missing instead of ever fabricating a number; missing
// coordinates take priority, then missing time and date together, then each
// alone.
func Explanation(probability float64, params models.QueryParams) string {
	ud := params.UsingDefault
	switch {
	case ud.Coordinates:
		return "I notice you didn't specify a location in your query. " +
			"To provide accurate crime risk predictions, I need a specific location. " +
			"Please specify a location by providing coordinates or a place name. " +
			"For example: 'What's the crime risk at 41.8781, -87.6298 tonight?' or " +
			"'Is it safe in downtown Chicago at 10pm?'"
	case ud.Time && ud.Date:
		return "I notice you didn't specify a time or date in your query. " +
			"To provide accurate crime risk predictions, I need a specific time and date. " +
			"Please specify when you'd like a prediction for. " +
			"For example: 'What's the crime risk in downtown Chicago tonight at 10pm?' or " +
			"'Is it safe at 41.8781, -87.6298 tomorrow morning?'"
	case ud.Time:
		return "I notice you didn't specify a time in your query. " +
			"To provide accurate crime risk predictions, I need a specific time. " +
			"Please specify what time you'd like a prediction for. " +
			"For example: 'What's the crime risk in downtown Chicago at 10pm?' or " +
			"'Is it safe at 41.8781, -87.6298 at 7am?'"
	case ud.Date:
		return "I notice you didn't specify a date in your query. " +
			"To provide accurate crime risk predictions, I need a specific date. " +
			"Please specify what date you'd like a prediction for. " +
			"For example: 'What's the crime risk in downtown Chicago tomorrow?' or " +
			"'Is it safe at 41.8781, -87.6298 on Friday?'"
	}

	probPercent := probability * 100
	text := fmt.Sprintf(
		"For the location at coordinates (%.4f, %.4f) on %s at %s, "+
			"the model predicts a %s risk of crime with a probability of %.1f%%.",
		params.Latitude, params.Longitude, params.Date, params.Time,
		RiskTier(probPercent), probPercent,
	)

	if t, err := encode.Combine(params.Date, params.Time); err == nil {
		text += fmt.Sprintf(" The prediction takes into account that this is a %s %s.",
			t.Weekday().String(), timeOfDay(t.Hour()))
	}
	return text
}
