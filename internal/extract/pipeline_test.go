package extract

import (
	"testing"
	"time"
)

func testPipeline() *Pipeline {
	return &Pipeline{
		Gazetteer: ChicagoGazetteer(),
		Default:   DefaultCoordinates,
		Now:       func() time.Time { return testNow },
	}
}

func TestPipelineExtract_FullQuery(t *testing.T) {
	p := testPipeline()
	ctx := NewContext()

	params := p.Extract(ctx, "What's the crime risk at 41.8781, -87.6298 tomorrow at 10pm?")

	if !params.Complete {
		t.Error("Complete = false, want true (extraction always succeeds structurally)")
	}
	if params.UsingDefault.Any() {
		t.Errorf("UsingDefault = %+v, want all false", params.UsingDefault)
	}
	if params.Date != "2025-03-13" {
		t.Errorf("Date = %q, want 2025-03-13", params.Date)
	}
	if params.Time != "22:00" {
		t.Errorf("Time = %q, want 22:00", params.Time)
	}
	if !coordsClose(params.Longitude, -87.6298) || !coordsClose(params.Latitude, 41.8781) {
		t.Errorf("coordinates = (%v, %v), want (-87.6298, 41.8781)", params.Longitude, params.Latitude)
	}
	if params.WeeklyForecast {
		t.Error("WeeklyForecast = true, want false")
	}
}

func TestPipelineExtract_WritesContextBack(t *testing.T) {
	p := testPipeline()
	ctx := NewContext()

	p.Extract(ctx, "Is it safe at 41.9214, -87.6513 on friday at 9pm?")

	if !ctx.HasCoordinates() {
		t.Fatal("context has no coordinates after extraction")
	}
	if !coordsClose(*ctx.Longitude, -87.6513) || !coordsClose(*ctx.Latitude, 41.9214) {
		t.Errorf("context coordinates = (%v, %v), want (-87.6513, 41.9214)", *ctx.Longitude, *ctx.Latitude)
	}
	if ctx.Date != "2025-03-14" {
		t.Errorf("context date = %q, want 2025-03-14", ctx.Date)
	}
	if ctx.Time != "21:00" {
		t.Errorf("context time = %q, want 21:00", ctx.Time)
	}
	if ctx.LastQueryType != "crime_prediction" {
		t.Errorf("LastQueryType = %q, want crime_prediction", ctx.LastQueryType)
	}
}

func TestPipelineExtract_FollowUpCarriesContext(t *testing.T) {
	p := testPipeline()
	ctx := NewContext()

	p.Extract(ctx, "What's the crime risk at 41.8781, -87.6298 tomorrow at 10pm?")
	params := p.Extract(ctx, "What about at 2am?")

	if params.Time != "02:00" {
		t.Errorf("Time = %q, want 02:00 from the follow-up", params.Time)
	}
	if params.Date != "2025-03-13" {
		t.Errorf("Date = %q, want the carried 2025-03-13", params.Date)
	}
	if !coordsClose(params.Longitude, -87.6298) || !coordsClose(params.Latitude, 41.8781) {
		t.Errorf("coordinates = (%v, %v), want carried pair", params.Longitude, params.Latitude)
	}
	// Context carryover is a resolved value, never a default.
	if params.UsingDefault.Any() {
		t.Errorf("UsingDefault = %+v, want all false for context-resolved fields", params.UsingDefault)
	}
}

func TestPipelineExtract_DefaultsWhenNothingKnown(t *testing.T) {
	p := testPipeline()
	params := p.Extract(NewContext(), "Is it safe?")

	if !params.UsingDefault.Coordinates || !params.UsingDefault.Time || !params.UsingDefault.Date {
		t.Errorf("UsingDefault = %+v, want all true", params.UsingDefault)
	}
	if !coordsClose(params.Longitude, -87.6298) || !coordsClose(params.Latitude, 41.8781) {
		t.Errorf("coordinates = (%v, %v), want the fixed default", params.Longitude, params.Latitude)
	}
	// Structural completeness is unconditional.
	if !params.Complete {
		t.Error("Complete = false, want true")
	}
}

func TestNewPipelineFactory_ConfiguredDefaultLocation(t *testing.T) {
	// New York instead of the built-in Chicago fallback.
	factory := NewPipelineFactory(Coordinates{Latitude: 40.7128, Longitude: -74.0060})
	p := factory()
	p.Now = func() time.Time { return testNow }

	params := p.Extract(NewContext(), "Is it safe?")

	if !params.UsingDefault.Coordinates {
		t.Error("UsingDefault.Coordinates = false, want true")
	}
	if !coordsClose(params.Latitude, 40.7128) || !coordsClose(params.Longitude, -74.0060) {
		t.Errorf("coordinates = (%v, %v), want the configured (40.7128, -74.0060)",
			params.Latitude, params.Longitude)
	}

	// The gazetteer and explicit coordinates still take precedence.
	params = factory().Extract(NewContext(), "is it safe in lincoln park tonight")
	if params.UsingDefault.Coordinates {
		t.Error("gazetteer hit flagged as default")
	}
	if !coordsClose(params.Latitude, 41.9214) {
		t.Errorf("latitude = %v, want the gazetteer's 41.9214", params.Latitude)
	}
}

func TestPipelineExtract_WeeklyFlag(t *testing.T) {
	p := testPipeline()
	params := p.Extract(NewContext(), "Give me a weekly crime forecast for downtown chicago")
	if !params.WeeklyForecast {
		t.Error("WeeklyForecast = false, want true")
	}
	if params.UsingDefault.Coordinates {
		t.Error("UsingDefault.Coordinates = true, want gazetteer hit")
	}
}

func TestContextReset(t *testing.T) {
	p := testPipeline()
	ctx := NewContext()
	p.Extract(ctx, "crime risk at 41.8781, -87.6298 at 10pm tonight")

	ctx.Reset()

	if ctx.HasCoordinates() || ctx.Date != "" || ctx.Time != "" || ctx.LastQueryType != "" {
		t.Errorf("context not cleared after Reset: %+v", ctx)
	}
}
