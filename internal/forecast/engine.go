// Package forecast runs the pre-trained classifier over points and week-long
// slot batches and summarizes the results.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/crimesight/crime-risk-service/internal/cache"
	"github.com/crimesight/crime-risk-service/internal/classifier"
	"github.com/crimesight/crime-risk-service/internal/encode"
	"github.com/crimesight/crime-risk-service/internal/models"
	"github.com/crimesight/crime-risk-service/internal/observability"
)

// ErrInvalidRequest is returned for forecast requests rejected before any
// classifier call (hour outside 0-23, interval outside 1-24, bad start date).
var ErrInvalidRequest = errors.New("invalid forecast request")

// DefaultHourInterval is the slot spacing used when a request leaves the
// interval unset.
const DefaultHourInterval = 3

const forecastDays = 7

// Engine batches the classifier over a week of time slots and memoizes the
// summarized results. One engine owns one classifier handle and one cache;
// it is shared by all sessions and safe for concurrent use.
type Engine struct {
	classifier classifier.Classifier
	cache      cache.Cache
	coalescer  *forecastCoalescer
	logger     *zap.Logger
}

// NewEngine creates an Engine. cache may be nil to disable memoization.
func NewEngine(cls classifier.Classifier, c cache.Cache, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		classifier: cls,
		cache:      c,
		coalescer:  newForecastCoalescer(30 * time.Second),
		logger:     logger,
	}
}

// Point predicts the crime probability for a single date, time, and location.
// The classifier's probability operation is preferred; models exposing none
// fall back to the plain prediction operation. Invocation failures propagate
// as prediction errors.
func (e *Engine) Point(ctx context.Context, dateStr, timeStr string, lon, lat float64) (float64, error) {
	row, err := encode.At(dateStr, timeStr, lon, lat)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	values, err := e.invoke(ctx, [][]float64{row})
	if err != nil {
		return 0, fmt.Errorf("point prediction: %w", err)
	}
	return values[0], nil
}

// Weekly computes (or returns the memoized) weekly forecast for the request.
// With useCache true a repeated call with the identical key returns the cached
// result without invoking the classifier again; concurrent callers on one key
// share a single computation.
func (e *Engine) Weekly(ctx context.Context, req models.ForecastRequest, useCache bool) (*models.ForecastResult, error) {
	if req.HourInterval == 0 {
		req.HourInterval = DefaultHourInterval
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	key := req.CacheKey()
	if useCache && e.cache != nil {
		if cached, ok, err := e.cacheGet(ctx, key); err == nil && ok {
			observability.ForecastCacheHitsTotal.Inc()
			e.logger.Debug("forecast cache hit", zap.String("key", key))
			return cached, nil
		}
		return e.coalescer.GetOrDo(ctx, key, func() (*models.ForecastResult, error) {
			// Re-check under the coalescer: a concurrent computation may have
			// populated the entry while this caller waited for the key.
			if cached, ok, err := e.cacheGet(ctx, key); err == nil && ok {
				observability.ForecastCacheHitsTotal.Inc()
				return cached, nil
			}
			result, err := e.compute(ctx, req)
			if err != nil {
				return nil, err
			}
			if setErr := e.cache.Set(ctx, key, result); setErr != nil {
				e.logger.Warn("forecast cache set failed", zap.String("key", key), zap.Error(setErr))
			}
			return result, nil
		})
	}

	return e.compute(ctx, req)
}

func (e *Engine) cacheGet(ctx context.Context, key string) (*models.ForecastResult, bool, error) {
	cached, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("forecast cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}
	return cached, ok, nil
}

// compute generates the week's slots, invokes the classifier once over the
// whole batch, and summarizes the probabilities.
func (e *Engine) compute(ctx context.Context, req models.ForecastRequest) (*models.ForecastResult, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: parse start date %q: %v", ErrInvalidRequest, req.StartDate, err)
	}

	slots := generateSlots(start, req.HourInterval, req.SpecificHour)

	rows := make([][]float64, len(slots))
	for i, slot := range slots {
		rows[i] = encode.Features(slot, req.Longitude, req.Latitude)
	}

	observability.ForecastBatchSize.Observe(float64(len(rows)))

	probabilities, err := e.invoke(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("weekly forecast: %w", err)
	}

	samples := make([]models.ForecastSample, len(slots))
	for i, slot := range slots {
		samples[i] = models.ForecastSample{Time: slot, Probability: probabilities[i]}
	}

	result := &models.ForecastResult{
		Samples:       samples,
		Summary:       summarize(probabilities),
		DailySummary:  groupByWeekday(samples),
		HourlySummary: groupByHour(samples),
		Metadata: models.ForecastMetadata{
			StartDate:    req.StartDate,
			Longitude:    req.Longitude,
			Latitude:     req.Latitude,
			HourInterval: req.HourInterval,
			SpecificHour: req.SpecificHour,
			TotalSamples: len(samples),
		},
	}
	return result, nil
}

// invoke calls the classifier's probability operation, falling back to the
// plain prediction operation for models that expose none.
func (e *Engine) invoke(ctx context.Context, rows [][]float64) ([]float64, error) {
	values, err := e.classifier.PredictProba(ctx, rows)
	if err == nil {
		return values, nil
	}
	if errors.Is(err, classifier.ErrNoProbability) {
		return e.classifier.Predict(ctx, rows)
	}
	return nil, err
}

// validateRequest rejects out-of-range parameters before any classifier call.
func validateRequest(req models.ForecastRequest) error {
	if req.SpecificHour != nil {
		if h := *req.SpecificHour; h < 0 || h > 23 {
			return fmt.Errorf("%w: specific hour %d outside 0-23", ErrInvalidRequest, h)
		}
	}
	if req.HourInterval < 1 || req.HourInterval > 24 {
		return fmt.Errorf("%w: hour interval %d outside 1-24", ErrInvalidRequest, req.HourInterval)
	}
	return nil
}

// generateSlots emits the week's time slots: one per day at specificHour when
// set, otherwise one per hourInterval hours starting at midnight each day.
func generateSlots(start time.Time, hourInterval int, specificHour *int) []time.Time {
	var slots []time.Time
	for day := 0; day < forecastDays; day++ {
		date := start.AddDate(0, 0, day)
		if specificHour != nil {
			slots = append(slots, time.Date(date.Year(), date.Month(), date.Day(), *specificHour, 0, 0, 0, date.Location()))
			continue
		}
		for hour := 0; hour < 24; hour += hourInterval {
			slots = append(slots, time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location()))
		}
	}
	return slots
}

// summarize computes mean/min/max/std over all slot probabilities.
func summarize(values []float64) models.ForecastSummary {
	if len(values) == 0 {
		return models.ForecastSummary{}
	}
	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg := sum / float64(len(values))

	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - avg
		sumSquaredDiff += diff * diff
	}
	std := math.Sqrt(sumSquaredDiff / float64(len(values)))

	return models.ForecastSummary{Avg: avg, Min: min, Max: max, Std: std}
}

// groupByWeekday summarizes samples grouped by weekday name.
func groupByWeekday(samples []models.ForecastSample) map[string]models.GroupSummary {
	groups := make(map[string][]float64)
	for _, s := range samples {
		name := s.Time.Weekday().String()
		groups[name] = append(groups[name], s.Probability)
	}
	return summarizeGroups(groups)
}

// groupByHour summarizes samples grouped by hour of day. In specific-hour
// mode this yields a single entry, which callers must treat as expected.
func groupByHour(samples []models.ForecastSample) map[int]models.GroupSummary {
	groups := make(map[int][]float64)
	for _, s := range samples {
		groups[s.Time.Hour()] = append(groups[s.Time.Hour()], s.Probability)
	}
	out := make(map[int]models.GroupSummary, len(groups))
	for hour, values := range groups {
		out[hour] = groupSummary(values)
	}
	return out
}

func summarizeGroups(groups map[string][]float64) map[string]models.GroupSummary {
	out := make(map[string]models.GroupSummary, len(groups))
	for name, values := range groups {
		out[name] = groupSummary(values)
	}
	return out
}

func groupSummary(values []float64) models.GroupSummary {
	min, max := values[0], values[0]
	var sum float64
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return models.GroupSummary{
		Avg:     sum / float64(len(values)),
		Min:     min,
		Max:     max,
		Samples: len(values),
	}
}
