package extract

import (
	"math"
	"testing"
)

func coordsClose(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtractCoordinates_LabeledForms(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantLon float64
		wantLat float64
	}{
		{"latitude first", "latitude 41.8781, longitude -87.6298", -87.6298, 41.8781},
		{"longitude first", "longitude -87.6298, latitude 41.8781", -87.6298, 41.8781},
		{"lat lng", "lat 41.8781, lng -87.6298", -87.6298, 41.8781},
		{"lng lat", "lng -87.6298, lat 41.8781", -87.6298, 41.8781},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lon, lat, usingDefault := ExtractCoordinates(tc.query, NewContext(), nil, DefaultCoordinates)
			if usingDefault {
				t.Fatal("usingDefault = true, want false")
			}
			if !coordsClose(lon, tc.wantLon) || !coordsClose(lat, tc.wantLat) {
				t.Errorf("got (%v, %v), want (%v, %v)", lon, lat, tc.wantLon, tc.wantLat)
			}
		})
	}
}

func TestExtractCoordinates_BarePairs(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantLon float64
		wantLat float64
	}{
		{"lat comma lon", "crime risk at 41.8781, -87.6298", -87.6298, 41.8781},
		{"lon comma lat", "crime risk at -87.6298, 41.8781", -87.6298, 41.8781},
		{"parenthesized", "crime risk at (41.8781, -87.6298)", -87.6298, 41.8781},
		{"space separated", "crime risk at 41.8781 -87.6298", -87.6298, 41.8781},
		// Both positive: the second value is negated to give a plausible
		// western-hemisphere longitude.
		{"both positive", "crime risk at 41.8781, 87.6298", -87.6298, 41.8781},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lon, lat, usingDefault := ExtractCoordinates(tc.query, NewContext(), nil, DefaultCoordinates)
			if usingDefault {
				t.Fatal("usingDefault = true, want false")
			}
			if !coordsClose(lon, tc.wantLon) || !coordsClose(lat, tc.wantLat) {
				t.Errorf("got (%v, %v), want (%v, %v)", lon, lat, tc.wantLon, tc.wantLat)
			}
		})
	}
}

func TestExtractCoordinates_GazetteerLookup(t *testing.T) {
	gaz := ChicagoGazetteer()
	lon, lat, usingDefault := ExtractCoordinates("is it safe in lincoln park tonight", NewContext(), gaz, DefaultCoordinates)
	if usingDefault {
		t.Fatal("usingDefault = true, want false")
	}
	if !coordsClose(lon, -87.6513) || !coordsClose(lat, 41.9214) {
		t.Errorf("got (%v, %v), want Lincoln Park coordinates", lon, lat)
	}
}

func TestExtractCoordinates_LongestGazetteerNameWins(t *testing.T) {
	gaz := ChicagoGazetteer()
	// "downtown chicago" must win over the shorter "chicago" entry even though
	// both are substrings of the query.
	lon, lat, _ := ExtractCoordinates("crime in downtown chicago", NewContext(), gaz, Coordinates{})
	if !coordsClose(lon, -87.6298) || !coordsClose(lat, 41.8781) {
		t.Errorf("got (%v, %v), want downtown Chicago coordinates", lon, lat)
	}
}

func TestExtractCoordinates_ContextFallback(t *testing.T) {
	ctx := NewContext()
	lonVal, latVal := -87.6513, 41.9214
	ctx.Longitude, ctx.Latitude = &lonVal, &latVal

	lon, lat, usingDefault := ExtractCoordinates("what about at 2am?", ctx, nil, DefaultCoordinates)
	if usingDefault {
		t.Fatal("usingDefault = true, want false: context coordinates are not a default")
	}
	if !coordsClose(lon, -87.6513) || !coordsClose(lat, 41.9214) {
		t.Errorf("got (%v, %v), want context coordinates", lon, lat)
	}
}

func TestExtractCoordinates_DefaultFallback(t *testing.T) {
	lon, lat, usingDefault := ExtractCoordinates("is it safe around here", NewContext(), nil, DefaultCoordinates)
	if !usingDefault {
		t.Fatal("usingDefault = false, want true")
	}
	if !coordsClose(lon, -87.6298) || !coordsClose(lat, 41.8781) {
		t.Errorf("got (%v, %v), want default Chicago coordinates", lon, lat)
	}
}

func TestDisambiguatePair(t *testing.T) {
	tests := []struct {
		name    string
		a, b    float64
		wantLon float64
		wantLat float64
	}{
		{"negative second is longitude", 41.8781, -87.6298, -87.6298, 41.8781},
		{"strongly negative first is longitude", -87.6298, 41.8781, -87.6298, 41.8781},
		{"both positive negates second", 41.8781, 87.6298, -87.6298, 41.8781},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lon, lat, ok := disambiguatePair(tc.a, tc.b)
			if !ok {
				t.Fatal("ok = false, want true")
			}
			if !coordsClose(lon, tc.wantLon) || !coordsClose(lat, tc.wantLat) {
				t.Errorf("got (%v, %v), want (%v, %v)", lon, lat, tc.wantLon, tc.wantLat)
			}
		})
	}
}
