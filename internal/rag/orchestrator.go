// Package rag is the top-level entry point for crime-risk queries: it
// classifies the query, drives parameter extraction against the session's
// conversation context, and decides between a point prediction, a weekly
// forecast, and a follow-up question.
package rag

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/crimesight/crime-risk-service/internal/explain"
	"github.com/crimesight/crime-risk-service/internal/extract"
	"github.com/crimesight/crime-risk-service/internal/forecast"
	"github.com/crimesight/crime-risk-service/internal/models"
	"github.com/crimesight/crime-risk-service/internal/observability"
)

// Outcome labels the terminal state a query resolved to.
type Outcome string

const (
	OutcomeRejected     Outcome = "rejected"
	OutcomeFollowUp     Outcome = "follow_up"
	OutcomePointAnswer  Outcome = "point_answer"
	OutcomeWeeklyAnswer Outcome = "weekly_answer"
	OutcomeError        Outcome = "error"
)

// Orchestrator processes the turns of one conversation session. It owns the
// session's conversation context exclusively; concurrent sessions each hold
// their own Orchestrator around a shared forecast engine.
type Orchestrator struct {
	pipeline *extract.Pipeline
	engine   *forecast.Engine
	ctx      *extract.Context
	logger   *zap.Logger
}

// NewOrchestrator creates an Orchestrator with a fresh conversation context.
func NewOrchestrator(pipeline *extract.Pipeline, engine *forecast.Engine, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		pipeline: pipeline,
		engine:   engine,
		ctx:      extract.NewContext(),
		logger:   logger,
	}
}

// Context exposes the session's conversation context for inspection in tests
// and the reset surface.
func (o *Orchestrator) Context() *extract.Context {
	return o.ctx
}

// Reset clears the session's conversation context.
func (o *Orchestrator) Reset() {
	o.ctx.Reset()
}

// Process runs one query through the state machine. handled is false for
// queries that are not crime-risk queries at all; those pass through to the
// general-purpose responder. For handled queries the result is one of:
// a complete point answer, a weekly-forecast tag, a follow-up asking for the
// missing parameters, or a prediction-unavailable error — never a fabricated
// probability.
func (o *Orchestrator) Process(ctx context.Context, query string) (handled bool, result *models.RagResult) {
	if !extract.IsCrimeQuery(query, o.ctx) {
		observability.QueriesTotal.WithLabelValues(string(OutcomeRejected)).Inc()
		return false, nil
	}

	params := o.pipeline.Extract(o.ctx, query)
	result = &models.RagResult{
		Type:           models.QueryTypeCrimePrediction,
		Complete:       params.Complete,
		Params:         params,
		WeeklyForecast: params.WeeklyForecast,
	}

	if missing := missingInfo(params); len(missing) > 0 {
		result.Complete = false
		result.FollowUp = &models.FollowUp{
			MissingInfo: missing,
			Question:    followUpQuestion(missing, params.WeeklyForecast),
		}
		observability.QueriesTotal.WithLabelValues(string(OutcomeFollowUp)).Inc()
		o.logger.Debug("follow-up needed", zap.Strings("missing", missing))
		return true, result
	}

	if params.WeeklyForecast {
		// The command surface computes the forecast itself; the orchestrator
		// only tags the outcome.
		observability.QueriesTotal.WithLabelValues(string(OutcomeWeeklyAnswer)).Inc()
		return true, result
	}

	probability, err := o.engine.Point(ctx, params.Date, params.Time, params.Longitude, params.Latitude)
	if err != nil {
		result.Complete = false
		result.Error = err.Error()
		observability.QueriesTotal.WithLabelValues(string(OutcomeError)).Inc()
		o.logger.Warn("point prediction failed", zap.Error(err))
		return true, result
	}

	result.Probability = &probability
	result.Explanation = explain.Explanation(probability, params)
	observability.QueriesTotal.WithLabelValues(string(OutcomePointAnswer)).Inc()
	return true, result
}

// missingInfo lists the required parameters that fell back to hardcoded
// defaults. Weekly-forecast requests only require a location; time and date
// are supplied by the forecast engine.
func missingInfo(params models.QueryParams) []string {
	var missing []string
	ud := params.UsingDefault
	if ud.Coordinates {
		missing = append(missing, "location coordinates")
	}
	if !params.WeeklyForecast {
		if ud.Time {
			missing = append(missing, "time")
		}
		if ud.Date {
			missing = append(missing, "date")
		}
	}
	return missing
}

// followUpQuestion builds the clarification for a FOLLOW_UP outcome, listing
// every missing item with up to two worked examples.
func followUpQuestion(missing []string, weekly bool) string {
	has := func(item string) bool {
		for _, m := range missing {
			if m == item {
				return true
			}
		}
		return false
	}

	if weekly && has("location coordinates") {
		return "To generate a weekly crime forecast, I need a specific location. " +
			"Please provide a location by city name or coordinates. " +
			"For example: 'Generate a weekly forecast for downtown Chicago' or " +
			"'Give me a weekly forecast for 41.8781, -87.6298'"
	}

	var examples []string
	if has("location coordinates") {
		examples = append(examples,
			"'What's the crime risk at 41.8781, -87.6298?'",
			"'Is it safe in downtown Chicago?'")
	}
	if has("time") {
		examples = append(examples,
			"'What's the crime risk at 10pm?'",
			"'Is it safe during the morning?'")
	}
	if has("date") {
		examples = append(examples,
			"'What's the crime risk tomorrow?'",
			"'Is it safe on Friday?'")
	}

	if len(examples) > 2 {
		examples = examples[:2]
	}
	return "To predict crime risk, I need more information about: " +
		strings.Join(missing, ", ") +
		". Please provide these details. For example: " +
		strings.Join(examples, " or ")
}
