package extract

import (
	"regexp"
	"strconv"
)

// coordRule is one step of the coordinate extraction ladder: a pattern plus
// the handler that resolves its two captures to (longitude, latitude).
// The handler returns ok=false when the captured pair cannot be resolved,
// letting the ladder continue to the next pattern.
type coordRule struct {
	re      *regexp.Regexp
	resolve func(a, b float64) (lon, lat float64, ok bool)
}

var coordRules = []coordRule{
	{
		// latitude 41.8781, longitude -87.6298
		re: regexp.MustCompile(`(?i)latitude\s+(\d+\.\d+)\s*,?\s*longitude\s+(-?\d+\.\d+)`),
		resolve: func(a, b float64) (float64, float64, bool) {
			return b, a, true
		},
	},
	{
		// longitude -87.6298, latitude 41.8781
		re: regexp.MustCompile(`(?i)longitude\s+(-?\d+\.\d+)\s*,?\s*latitude\s+(\d+\.\d+)`),
		resolve: func(a, b float64) (float64, float64, bool) {
			return a, b, true
		},
	},
	{
		// lat 41.8781, lng -87.6298
		re: regexp.MustCompile(`(?i)lat\s+(\d+\.\d+)\s*,?\s*lng\s+(-?\d+\.\d+)`),
		resolve: func(a, b float64) (float64, float64, bool) {
			return b, a, true
		},
	},
	{
		// lng -87.6298, lat 41.8781
		re: regexp.MustCompile(`(?i)lng\s+(-?\d+\.\d+)\s*,?\s*lat\s+(\d+\.\d+)`),
		resolve: func(a, b float64) (float64, float64, bool) {
			return a, b, true
		},
	},
	{
		// -87.6298, 41.8781 - longitude first, disambiguated by value ranges
		re: regexp.MustCompile(`(-\d+\.\d+)\s*,\s*(\d+\.\d+)`),
		resolve: func(a, b float64) (float64, float64, bool) {
			if a < -30 && b > 30 {
				return a, b, true
			}
			return 0, 0, false
		},
	},
	{
		// (41.8781, -87.6298)
		re:      regexp.MustCompile(`\((\d+\.\d+)\s*,\s*(-?\d+\.\d+)\)`),
		resolve: disambiguatePair,
	},
	{
		// 41.8781, -87.6298
		re:      regexp.MustCompile(`(\d+\.\d+)\s*,\s*(-?\d+\.\d+)`),
		resolve: disambiguatePair,
	},
	{
		// 41.8781 -87.6298
		re:      regexp.MustCompile(`(\d+\.\d+)\s+(-?\d+\.\d+)`),
		resolve: disambiguatePair,
	},
}

// disambiguatePair resolves a pair whose order is not lexically marked.
// A strongly negative value is longitude; an unsigned value in 0-90 is
// latitude; when both values are positive the second is negated to produce a
// plausible western-hemisphere longitude. The heuristic assumes Chicago-area
// value ranges and is a documented limitation for global coordinates.
func disambiguatePair(a, b float64) (lon, lat float64, ok bool) {
	switch {
	case b < 0:
		return b, a, true
	case a < -30:
		return a, b, true
	default:
		lon, lat = b, a
		if lon > 0 && lat > 0 {
			lon = -lon
		}
		return lon, lat, true
	}
}

// ExtractCoordinates extracts a (longitude, latitude) pair from the query.
// Numeric patterns are tried in ladder order; with no numeric pair, a named
// location known to the gazetteer may supply coordinates; then the context;
// finally def with usingDefault=true.
func ExtractCoordinates(query string, ctx *Context, gaz Locator, def Coordinates) (lon, lat float64, usingDefault bool) {
	for _, rule := range coordRules {
		g := rule.re.FindStringSubmatch(query)
		if g == nil {
			continue
		}
		a, errA := strconv.ParseFloat(g[1], 64)
		b, errB := strconv.ParseFloat(g[2], 64)
		if errA != nil || errB != nil {
			continue
		}
		if lon, lat, ok := rule.resolve(a, b); ok {
			return lon, lat, false
		}
	}

	if gaz != nil {
		if c, ok := gaz.Lookup(query); ok {
			return c.Longitude, c.Latitude, false
		}
	}

	if ctx != nil && ctx.HasCoordinates() {
		return *ctx.Longitude, *ctx.Latitude, false
	}

	return def.Longitude, def.Latitude, true
}
