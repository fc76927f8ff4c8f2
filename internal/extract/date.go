package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

var (
	monthDayRe = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	mdyRe      = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	isoRe      = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
)

// ExtractDate extracts a calendar date from the query as "YYYY-MM-DD".
// Relative keywords are checked first, then weekday names (next strict
// occurrence, plus a week for "next <day>"), then explicit date patterns, then
// named holidays of the current year. When nothing matches, the context date
// is used if set; the final fallback is today. usedDefault is true only for
// the today fallback.
func ExtractDate(query string, ctx *Context, now time.Time) (value string, usedDefault bool) {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "today") || strings.Contains(lower, "tonight"):
		return now.Format(dateLayout), false
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1).Format(dateLayout), false
	case strings.Contains(lower, "yesterday"):
		return now.AddDate(0, 0, -1).Format(dateLayout), false
	}

	for i, day := range weekdayNames {
		if !strings.Contains(lower, day) {
			continue
		}
		current := mondayWeekday(now)
		daysAhead := i - current
		if daysAhead <= 0 {
			daysAhead += 7
		}
		if strings.Contains(lower, "next "+day) {
			daysAhead += 7
		}
		return now.AddDate(0, 0, daysAhead).Format(dateLayout), false
	}

	if g := monthDayRe.FindStringSubmatch(lower); g != nil {
		month := monthNumber(g[1])
		day, _ := strconv.Atoi(g[2])
		return fmt.Sprintf("%04d-%02d-%02d", now.Year(), month, day), false
	}
	if g := mdyRe.FindStringSubmatch(query); g != nil {
		month, _ := strconv.Atoi(g[1])
		day, _ := strconv.Atoi(g[2])
		return fmt.Sprintf("%s-%02d-%02d", g[3], month, day), false
	}
	if g := isoRe.FindStringSubmatch(query); g != nil {
		month, _ := strconv.Atoi(g[2])
		day, _ := strconv.Atoi(g[3])
		return fmt.Sprintf("%s-%02d-%02d", g[1], month, day), false
	}

	switch {
	case strings.Contains(lower, "christmas"):
		return fmt.Sprintf("%04d-12-25", now.Year()), false
	case strings.Contains(lower, "new year"):
		return fmt.Sprintf("%04d-01-01", now.Year()), false
	case strings.Contains(lower, "valentine"):
		return fmt.Sprintf("%04d-02-14", now.Year()), false
	}

	if ctx != nil && ctx.Date != "" {
		return ctx.Date, false
	}
	return now.Format(dateLayout), true
}

// mondayWeekday returns the weekday with Monday as 0, matching the encoding
// the classifier was trained with.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func monthNumber(name string) int {
	for i, m := range monthNames {
		if m == name {
			return i + 1
		}
	}
	return 0
}
