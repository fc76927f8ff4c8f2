package extract

import (
	"time"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// Pipeline composes the three extractors into one parameter extraction pass.
// Now is injectable for tests; Gazetteer may be nil to disable named-location
// lookup.
type Pipeline struct {
	Gazetteer Locator
	Default   Coordinates
	Now       func() time.Time
}

// NewPipeline returns a Pipeline with the built-in Chicago gazetteer, the
// fixed default location, and the real clock.
func NewPipeline() *Pipeline {
	return &Pipeline{
		Gazetteer: ChicagoGazetteer(),
		Default:   DefaultCoordinates,
		Now:       time.Now,
	}
}

// NewPipelineFactory returns a per-session Pipeline constructor whose fallback
// location is defaultLoc instead of the built-in one. This is how configured
// default coordinates reach new sessions.
func NewPipelineFactory(defaultLoc Coordinates) func() *Pipeline {
	return func() *Pipeline {
		p := NewPipeline()
		p.Default = defaultLoc
		return p
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Extract runs the extractors over the query, builds the structured parameter
// set, and writes every extracted field back into ctx. Extraction always
// succeeds structurally: Complete is set true unconditionally, and semantic
// incompleteness is signaled only through the per-field UsingDefault record,
// which is what the orchestrator consults to decide between answering and
// asking a follow-up.
func (p *Pipeline) Extract(ctx *Context, query string) models.QueryParams {
	now := p.now()

	lon, lat, coordsDefault := ExtractCoordinates(query, ctx, p.Gazetteer, p.Default)
	timeStr, timeDefault := ExtractTime(query, ctx, now)
	dateStr, dateDefault := ExtractDate(query, ctx, now)

	params := models.QueryParams{
		Date:      dateStr,
		Time:      timeStr,
		Longitude: lon,
		Latitude:  lat,
		UsingDefault: models.UsingDefault{
			Coordinates: coordsDefault,
			Time:        timeDefault,
			Date:        dateDefault,
		},
		Complete:       true,
		OriginalQuery:  query,
		WeeklyForecast: IsWeeklyRequest(query),
	}

	p.updateContext(ctx, params)
	return params
}

// updateContext writes the extracted fields back into the conversation
// context and marks the turn as a crime-prediction turn.
func (p *Pipeline) updateContext(ctx *Context, params models.QueryParams) {
	if ctx == nil {
		return
	}
	lon, lat := params.Longitude, params.Latitude
	ctx.Longitude = &lon
	ctx.Latitude = &lat
	ctx.Date = params.Date
	ctx.Time = params.Time
	ctx.LastQueryType = models.QueryTypeCrimePrediction
}
