package explain

import (
	"fmt"
	"strings"
	"time"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// weekdayOrder fixes the Monday-first rendering order of daily breakdowns.
var weekdayOrder = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeeklyReport renders a weekly forecast as a plain-text report: location,
// period, sampling mode, overall summary, Monday-first daily breakdown, and a
// risk assessment naming the safest and riskiest weekday, plus the safest and
// riskiest hour when hourly granularity is present.
func WeeklyReport(result *models.ForecastResult) string {
	meta := result.Metadata
	summary := result.Summary

	var lines []string
	lines = append(lines,
		"Weekly Crime Probability Forecast",
		fmt.Sprintf("Location: (%.4f, %.4f)", meta.Latitude, meta.Longitude),
	)

	if start, err := time.Parse("2006-01-02", meta.StartDate); err == nil {
		end := start.AddDate(0, 0, 6)
		lines = append(lines, fmt.Sprintf("Period: %s to %s",
			start.Format("2006-01-02"), end.Format("2006-01-02")))
	}

	if meta.SpecificHour != nil {
		lines = append(lines,
			fmt.Sprintf("Time: %s each day", hour12(*meta.SpecificHour)),
			fmt.Sprintf("Samples: 7 days at the same hour (%d total predictions)", meta.TotalSamples),
		)
	} else {
		lines = append(lines,
			fmt.Sprintf("Samples: Every %d hours, %d total predictions", meta.HourInterval, meta.TotalSamples),
		)
	}

	lines = append(lines,
		"",
		"Overall Summary:",
		fmt.Sprintf("- Average probability: %.1f%%", summary.Avg*100),
		fmt.Sprintf("- Range: %.1f%% to %.1f%%", summary.Min*100, summary.Max*100),
		"",
		"Daily Breakdown:",
	)

	for _, day := range weekdayOrder {
		stats, ok := result.DailySummary[day]
		if !ok {
			continue
		}
		if meta.SpecificHour != nil {
			// One data point per day in specific-hour mode.
			lines = append(lines, fmt.Sprintf("- %s: %.1f%% crime probability", day, stats.Avg*100))
		} else {
			lines = append(lines, fmt.Sprintf("- %s: %.1f%% avg (%.1f%% to %.1f%%)",
				day, stats.Avg*100, stats.Min*100, stats.Max*100))
		}
	}

	lines = append(lines, "", "Risk Assessment:")

	safestDay, riskiestDay := extremeDays(result.DailySummary)
	lines = append(lines,
		fmt.Sprintf("- Safest day: %s", safestDay),
		fmt.Sprintf("- Highest risk day: %s", riskiestDay),
	)

	if meta.SpecificHour == nil && len(result.HourlySummary) > 0 {
		safestHour, riskiestHour := extremeHours(result.HourlySummary)
		lines = append(lines,
			fmt.Sprintf("- Safest time: %s", hour12(safestHour)),
			fmt.Sprintf("- Highest risk time: %s", hour12(riskiestHour)),
		)
	}

	return strings.Join(lines, "\n")
}

// extremeDays returns the weekday names with the lowest and highest average
// probability. Ties resolve to the earlier weekday in Monday-first order so
// the report is deterministic.
func extremeDays(daily map[string]models.GroupSummary) (safest, riskiest string) {
	for _, day := range weekdayOrder {
		stats, ok := daily[day]
		if !ok {
			continue
		}
		if safest == "" || stats.Avg < daily[safest].Avg {
			safest = day
		}
		if riskiest == "" || stats.Avg > daily[riskiest].Avg {
			riskiest = day
		}
	}
	return safest, riskiest
}

// extremeHours returns the hours with the lowest and highest average
// probability. Ties resolve to the earlier hour.
func extremeHours(hourly map[int]models.GroupSummary) (safest, riskiest int) {
	safest, riskiest = -1, -1
	for hour := 0; hour < 24; hour++ {
		stats, ok := hourly[hour]
		if !ok {
			continue
		}
		if safest < 0 || stats.Avg < hourly[safest].Avg {
			safest = hour
		}
		if riskiest < 0 || stats.Avg > hourly[riskiest].Avg {
			riskiest = hour
		}
	}
	return safest, riskiest
}

// hour12 renders an hour of day in 12-hour clock form, e.g. "9:00 PM".
func hour12(hour int) string {
	h := hour % 12
	if h == 0 {
		h = 12
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:00 %s", h, suffix)
}
