package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/crimesight/crime-risk-service/internal/explain"
	"github.com/crimesight/crime-risk-service/internal/forecast"
	"github.com/crimesight/crime-risk-service/internal/models"
	"github.com/crimesight/crime-risk-service/internal/session"
	"github.com/crimesight/crime-risk-service/internal/validation"
)

// Pinger checks reachability of the model server. Satisfied by the classifier
// HTTP client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthConfig holds the dependency probes for the health handler.
type HealthConfig struct {
	Classifier Pinger
	// CachePing, when set, is called to check cache reachability. Used when backend is memcached.
	CachePing func() error
	StartTime time.Time
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	sessions       *session.Manager
	engine         *forecast.Engine
	healthConfig   *HealthConfig
	logger         *zap.Logger
	queryMaxLength int
	hourInterval   int
}

// NewHandler returns a new Handler. hourInterval is the slot spacing used for
// weekly forecasts triggered from conversation turns.
func NewHandler(
	sessions *session.Manager,
	engine *forecast.Engine,
	healthConfig *HealthConfig,
	logger *zap.Logger,
	queryMaxLength int,
	hourInterval int,
) *Handler {
	if hourInterval <= 0 {
		hourInterval = forecast.DefaultHourInterval
	}
	return &Handler{
		sessions:       sessions,
		engine:         engine,
		healthConfig:   healthConfig,
		logger:         logger,
		queryMaxLength: queryMaxLength,
		hourInterval:   hourInterval,
	}
}

type queryRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

type queryResponse struct {
	SessionID      string            `json:"session_id"`
	Handled        bool              `json:"handled"`
	Result         *models.RagResult `json:"result,omitempty"`
	LLMContext     string            `json:"llm_context,omitempty"`
	ForecastReport string            `json:"forecast_report,omitempty"`
}

// PostQuery handles POST /query: one conversation turn. Queries that are not
// crime-risk queries come back with handled=false so the caller can route them
// to its general-purpose responder.
func (h *Handler) PostQuery(w http.ResponseWriter, r *http.Request) {
	var body queryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON")
		return
	}

	query, err := validation.ValidateQuery(body.Query, h.queryMaxLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}

	sess := h.sessions.Get(strings.TrimSpace(body.SessionID))
	sess.Lock()
	defer sess.Unlock()

	handled, result := sess.Orchestrator.Process(r.Context(), query)

	resp := queryResponse{SessionID: sess.ID, Handled: handled}
	if !handled {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Result = result
	if result.WeeklyForecast && result.FollowUp == nil {
		h.attachWeeklyForecast(r.Context(), result, &resp)
	}
	resp.LLMContext = explain.ForLLM(result)
	writeJSON(w, http.StatusOK, resp)
}

// attachWeeklyForecast computes the weekly forecast a conversation turn asked
// for and renders the report. Computation failures demote the result to an
// error outcome rather than failing the request.
func (h *Handler) attachWeeklyForecast(ctx context.Context, result *models.RagResult, resp *queryResponse) {
	req := models.ForecastRequest{
		StartDate:    result.Params.Date,
		Longitude:    result.Params.Longitude,
		Latitude:     result.Params.Latitude,
		HourInterval: h.hourInterval,
	}
	forecastResult, err := h.engine.Weekly(ctx, req, true)
	if err != nil {
		result.Complete = false
		result.Error = err.Error()
		h.logger.Warn("weekly forecast failed", zap.Error(err))
		return
	}
	resp.ForecastReport = explain.WeeklyReport(forecastResult)
}

// PostSessionReset handles POST /session/{id}/reset: clears the session's
// conversation context without discarding the session.
func (h *Handler) PostSessionReset(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	sess, ok := h.sessions.Lookup(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_SESSION", "no session with id "+id)
		return
	}
	sess.Lock()
	sess.Orchestrator.Reset()
	sess.Unlock()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"reset":      true,
	})
}

// GetWeeklyForecast handles GET /forecast/weekly. Coordinates are required;
// date defaults to today, interval to the configured default, and hour selects
// the one-slot-per-day mode.
func (h *Handler) GetWeeklyForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATES", "lat is required and must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_COORDINATES", "lon is required and must be a number")
		return
	}

	req := models.ForecastRequest{
		StartDate:    q.Get("date"),
		Longitude:    lon,
		Latitude:     lat,
		HourInterval: h.hourInterval,
	}
	if req.StartDate == "" {
		req.StartDate = time.Now().Format("2006-01-02")
	}

	if v := q.Get("interval"); v != "" {
		interval, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_INTERVAL", "interval must be an integer")
			return
		}
		if err := validation.ValidateInterval(interval); err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_INTERVAL", err.Error())
			return
		}
		req.HourInterval = interval
	}
	if v := q.Get("hour"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_HOUR", "hour must be an integer")
			return
		}
		if err := validation.ValidateHour(hour); err != nil {
			writeError(w, r, http.StatusBadRequest, "INVALID_HOUR", err.Error())
			return
		}
		req.SpecificHour = &hour
	}

	result, err := h.engine.Weekly(r.Context(), req, q.Get("no_cache") != "true")
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidRequest) {
			writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"forecast": result,
		"report":   explain.WeeklyReport(result),
	})
}

// GetHealth handles GET /health. Unreachable model server means degraded:
// every prediction path depends on it.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	checks := make(map[string]string)

	if h.healthConfig != nil && h.healthConfig.Classifier != nil {
		if err := h.healthConfig.Classifier.Ping(r.Context()); err != nil {
			checks["classifier"] = "unhealthy"
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		} else {
			checks["classifier"] = "healthy"
		}
	}
	if h.healthConfig != nil && h.healthConfig.CachePing != nil {
		if h.healthConfig.CachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
		}
	}

	resp := map[string]interface{}{
		"status":    status,
		"service":   "crime-risk-service",
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.healthConfig != nil && !h.healthConfig.StartTime.IsZero() {
		resp["uptime"] = time.Since(h.healthConfig.StartTime).Round(time.Second).String()
	}
	writeJSON(w, statusCode, resp)
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with code,
// message, and requestId (correlation ID) if available in request context.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}

// writeServiceError writes a 503 Service Unavailable error response for
// upstream failures. Logs the underlying error at DEBUG level if a logger is
// available in the request context.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", "Unable to produce a prediction")
	if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
		logger.Debug("upstream error", zap.Error(err))
	}
}
