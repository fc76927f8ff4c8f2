package extract

import (
	"regexp"
	"strings"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// crimeKeywords is the fixed closed list of safety/crime terms a single-turn
// query must contain to be accepted.
var crimeKeywords = []string{
	"crime", "safe", "safety", "danger", "dangerous", "risk",
	"robbery", "theft", "assault", "shooting", "violence", "security",
}

var (
	decimalNumberRe = regexp.MustCompile(`\b\d+\.\d+\b`)
	timeLikeRe      = regexp.MustCompile(`\b\d{1,2}(?::\d{2})?\s*(?:am|pm)?\b`)
)

// followUpRes are anchor phrases that mark a turn as a follow-up to a previous
// crime-prediction turn. Only consulted when the context's last query type is
// crime_prediction.
var followUpRes = []*regexp.Regexp{
	regexp.MustCompile(`\bwhat about\b`),
	regexp.MustCompile(`\bhow about\b`),
	regexp.MustCompile(`\band (on|at|in)\b`),
	regexp.MustCompile(`\bwhat if\b`),
	regexp.MustCompile(`^(and|but) `),
	regexp.MustCompile(`^(on|at|in) `),
	regexp.MustCompile(`^tomorrow`),
	regexp.MustCompile(`^tonight`),
	regexp.MustCompile(`^later`),
	regexp.MustCompile(`^next`),
	regexp.MustCompile(`^is it\b`),
	regexp.MustCompile(`^will it be\b`),
	regexp.MustCompile(`^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`^(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
}

// weeklyPhrases mark a query as a weekly-forecast request. Weekly requests
// only need a location; time and date are supplied by the forecast engine.
var weeklyPhrases = []string{
	"weekly forecast",
	"weekly crime forecast",
	"forecast for the week",
	"forecast for this week",
	"forecast for next week",
	"next 7 days",
	"next seven days",
	"whole week",
	"entire week",
}

// IsCrimeQuery reports whether the query asks for a crime-risk prediction.
// Single-turn acceptance is strict (a decimal-number pattern, a crime keyword,
// and a time-like pattern must all be present) to avoid false positives;
// follow-up turns are accepted on anchor phrases alone because the context
// supplies the missing specificity.
func IsCrimeQuery(query string, ctx *Context) bool {
	lower := strings.ToLower(query)

	hasCoordinates := decimalNumberRe.MatchString(query)

	hasKeyword := false
	for _, kw := range crimeKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}

	hasTimeRef := timeLikeRe.MatchString(query)
	if !hasTimeRef {
		for _, period := range timePeriodOrder {
			if strings.Contains(lower, period) {
				hasTimeRef = true
				break
			}
		}
	}

	if hasCoordinates && hasKeyword && hasTimeRef {
		return true
	}
	return isFollowUp(lower, ctx)
}

// isFollowUp reports whether the lowercased query looks like a follow-up to a
// previous crime-prediction turn.
func isFollowUp(lower string, ctx *Context) bool {
	if ctx == nil || ctx.LastQueryType != models.QueryTypeCrimePrediction {
		return false
	}
	for _, re := range followUpRes {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// IsWeeklyRequest reports whether the query asks for a week-long forecast
// rather than a point prediction.
func IsWeeklyRequest(query string) bool {
	lower := strings.ToLower(query)
	for _, phrase := range weeklyPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
