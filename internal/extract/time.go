package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timePeriodOrder fixes the evaluation order of named period phrases.
var timePeriodOrder = []string{
	"morning", "afternoon", "evening", "night",
	"dawn", "dusk", "midnight", "noon",
}

// timePeriods maps named period phrases to their default clock times.
var timePeriods = map[string]string{
	"morning":   "09:00",
	"afternoon": "15:00",
	"evening":   "19:00",
	"night":     "22:00",
	"dawn":      "06:00",
	"dusk":      "20:00",
	"midnight":  "00:00",
	"noon":      "12:00",
}

// timeRule is one step of the time extraction cascade: a matcher plus the
// handler that renders its submatches to HH:MM. Rules are evaluated in slice
// order, first match wins.
type timeRule struct {
	re     *regexp.Regexp
	render func(groups []string) string
}

// anchoredTimeRules match "at HH[:MM] am/pm" forms. These commonly trail a
// coordinate pair, so they are checked before the general rules and are exempt
// from the coordinate-proximity rejection.
var anchoredTimeRules = []timeRule{
	{
		re: regexp.MustCompile(`\bat\s+(\d{1,2})\s*(pm|am)\b`),
		render: func(g []string) string {
			return formatHourMinute(g[1], "00", g[2])
		},
	},
	{
		re: regexp.MustCompile(`\bat\s+(\d{1,2}):(\d{2})\s*(am|pm)?\b`),
		render: func(g []string) string {
			return formatHourMinute(g[1], g[2], g[3])
		},
	},
}

// generalTimeRules match free-standing time expressions. Each candidate match
// is rejected if it lies near coordinate-looking text, because a fragment like
// "41.87" must not be misread as an hour.
var generalTimeRules = []timeRule{
	{
		// 10:30 AM, 3:45 pm - minute precision first
		re: regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`),
		render: func(g []string) string {
			return formatHourMinute(g[1], g[2], g[3])
		},
	},
	{
		// 3pm, 10am
		re: regexp.MustCompile(`\b(\d{1,2})\s*(pm|am)\b`),
		render: func(g []string) string {
			return formatHourMinute(g[1], "00", g[2])
		},
	},
	{
		// 22:45, 09:30 (24-hour)
		re: regexp.MustCompile(`\b([01]\d|2[0-3]):([0-5]\d)\b`),
		render: func(g []string) string {
			return g[1] + ":" + g[2]
		},
	},
	{
		// 8 o'clock [in the morning/afternoon/evening]
		re: regexp.MustCompile(`\b(\d{1,2})\s*o'clock(?:\s*in the (morning|afternoon|evening))?\b`),
		render: func(g []string) string {
			hour, _ := strconv.Atoi(g[1])
			if g[2] == "afternoon" || g[2] == "evening" {
				hour += 12
			}
			return fmt.Sprintf("%02d:00", hour)
		},
	},
	{
		// 3 in the afternoon
		re: regexp.MustCompile(`\b(\d{1,2})\s*(?:in|during) the (morning|afternoon|evening|night)\b`),
		render: func(g []string) string {
			hour, _ := strconv.Atoi(g[1])
			if g[2] == "afternoon" || g[2] == "evening" {
				hour += 12
			}
			return fmt.Sprintf("%02d:00", hour)
		},
	},
}

// coordProximityRes mark text as coordinate-looking for candidate rejection.
var coordProximityRes = []*regexp.Regexp{
	decimalNumberRe,
	regexp.MustCompile(`\blatitude\b`),
	regexp.MustCompile(`\blongitude\b`),
	regexp.MustCompile(`\blat\b`),
	regexp.MustCompile(`\blng\b`),
	regexp.MustCompile(`\bcoordinates\b`),
}

// coordWindow is the width, in bytes, of the window around a time candidate
// that is scanned for coordinate-looking text.
const coordWindow = 50

// ExtractTime extracts a clock time from the query as "HH:MM". The rule
// cascade is evaluated in documented priority order; when no rule matches, the
// context time is used if set, otherwise the wall-clock time at now.
// usedDefault is true only for the wall-clock fallback.
func ExtractTime(query string, ctx *Context, now time.Time) (value string, usedDefault bool) {
	lower := strings.ToLower(query)

	// Literal midnight and noon take priority over every pattern.
	if strings.Contains(lower, "midnight") || strings.Contains(lower, "12am") || strings.Contains(lower, "12 am") {
		return "00:00", false
	}
	if strings.Contains(lower, "noon") || strings.Contains(lower, "12pm") || strings.Contains(lower, "12 pm") {
		return "12:00", false
	}

	for _, rule := range anchoredTimeRules {
		if g := rule.re.FindStringSubmatch(lower); g != nil {
			return rule.render(g), false
		}
	}

	for _, rule := range generalTimeRules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(lower, -1) {
			if nearCoordinate(lower, loc[0]) {
				continue
			}
			groups := make([]string, len(loc)/2)
			for i := range groups {
				if loc[2*i] >= 0 {
					groups[i] = lower[loc[2*i]:loc[2*i+1]]
				}
			}
			return rule.render(groups), false
		}
	}

	for _, period := range timePeriodOrder {
		if !strings.Contains(lower, " "+period) {
			continue
		}
		// "about/around/at H in the afternoon" shifts H into the afternoon.
		aboutRe := regexp.MustCompile(`\b(?:around|about|at) (\d{1,2})\s*(?:in|during) the ` + period + `\b`)
		if g := aboutRe.FindStringSubmatch(lower); g != nil {
			hour, _ := strconv.Atoi(g[1])
			if period == "afternoon" || period == "evening" {
				hour += 12
			}
			return fmt.Sprintf("%02d:00", hour), false
		}
		return timePeriods[period], false
	}

	if ctx != nil && ctx.Time != "" {
		return ctx.Time, false
	}
	return fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute()), true
}

// nearCoordinate reports whether the position lies within coordWindow bytes of
// coordinate-looking text, or the match itself starts a decimal number.
func nearCoordinate(text string, pos int) bool {
	start := pos - coordWindow
	if start < 0 {
		start = 0
	}
	end := pos + coordWindow
	if end > len(text) {
		end = len(text)
	}
	window := text[start:end]

	sampleEnd := pos + 10
	if sampleEnd > len(text) {
		sampleEnd = len(text)
	}
	if decimalNumberRe.MatchString(text[pos:sampleEnd]) {
		return true
	}

	for _, re := range coordProximityRes {
		if re.MatchString(window) {
			return true
		}
	}
	return false
}

// formatHourMinute converts a 12-hour reading to 24-hour "HH:MM". Hour 12 with
// "am" maps to 00, hour 12 with "pm" stays 12, any hour below 12 with "pm"
// gains 12.
func formatHourMinute(hourStr, minuteStr, period string) string {
	hour, _ := strconv.Atoi(hourStr)
	period = strings.ToLower(period)
	if hour == 12 {
		if period == "am" {
			hour = 0
		}
	} else if period == "pm" && hour < 12 {
		hour += 12
	}
	return fmt.Sprintf("%02d:%s", hour, minuteStr)
}
