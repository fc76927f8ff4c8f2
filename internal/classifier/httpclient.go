package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/crimesight/crime-risk-service/internal/observability"
)

// HTTPClient talks to a model server that serves the pre-trained crime
// classifier over JSON. The server exposes POST /predict_proba and
// POST /predict; a 404 on /predict_proba means the loaded model has no
// probability operation and is reported as ErrNoProbability so callers can
// fall back to /predict.
type HTTPClient struct {
	baseURL        string
	timeout        time.Duration
	client         *http.Client
	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
}

// NewHTTPClient creates an HTTPClient with default retry settings.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	return NewHTTPClientWithRetry(baseURL, timeout, 3, 100*time.Millisecond, 2*time.Second)
}

// NewHTTPClientWithRetry creates an HTTPClient with explicit retry settings.
func NewHTTPClientWithRetry(baseURL string, timeout time.Duration, retryAttempts int, retryBaseDelay, retryMaxDelay time.Duration) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("classifier base URL is required")
	}
	return &HTTPClient{
		baseURL:        strings.TrimRight(baseURL, "/"),
		timeout:        timeout,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
		retryMaxDelay:  retryMaxDelay,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type predictRequest struct {
	Rows [][]float64 `json:"rows"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities,omitempty"`
	Predictions   []float64 `json:"predictions,omitempty"`
}

// PredictProba implements Classifier.PredictProba.
func (c *HTTPClient) PredictProba(ctx context.Context, rows [][]float64) ([]float64, error) {
	return c.call(ctx, "predict_proba", rows)
}

// Predict implements Classifier.Predict.
func (c *HTTPClient) Predict(ctx context.Context, rows [][]float64) ([]float64, error) {
	return c.call(ctx, "predict", rows)
}

func (c *HTTPClient) call(ctx context.Context, op string, rows [][]float64) ([]float64, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrBadRequest)
	}

	var lastErr error
	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			observability.ClassifierRetriesTotal.Inc()
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := c.callOnce(ctx, op, rows)
		if err == nil {
			return result, nil
		}

		lastErr = err
		if !c.isRetryable(err) {
			observability.ClassifierErrorsTotal.WithLabelValues(string(CategorizeError(err))).Inc()
			return nil, err
		}
	}

	err := fmt.Errorf("exhausted retries: %w", lastErr)
	observability.ClassifierErrorsTotal.WithLabelValues(string(CategorizeError(err))).Inc()
	return nil, err
}

func (c *HTTPClient) callOnce(ctx context.Context, op string, rows [][]float64) ([]float64, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(predictRequest{Rows: rows})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, "POST", c.baseURL+"/"+op, bytes.NewReader(body))
	if err != nil {
		observability.ClassifierCallsTotal.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.ClassifierCallsTotal.WithLabelValues(op, "error").Inc()
		observability.ClassifierDuration.WithLabelValues(op, "error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.ClassifierCallsTotal.WithLabelValues(op, status).Inc()
	observability.ClassifierDuration.WithLabelValues(op, status).Observe(duration)

	if err := c.handleErrorResponse(resp, op); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var apiResp predictResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrBadResponse, err)
	}

	values := apiResp.Probabilities
	if op == "predict" {
		values = apiResp.Predictions
	}
	if len(values) != len(rows) {
		return nil, fmt.Errorf("%w: got %d values for %d rows", ErrBadResponse, len(values), len(rows))
	}
	return values, nil
}

func (c *HTTPClient) handleErrorResponse(resp *http.Response, op string) error {
	switch resp.StatusCode {
	case http.StatusNotFound:
		if op == "predict_proba" {
			return ErrNoProbability
		}
		return fmt.Errorf("%w: HTTP 404", ErrUnavailable)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: HTTP %d", ErrBadRequest, resp.StatusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoProbability) || errors.Is(err, ErrBadRequest) || errors.Is(err, ErrBadResponse) {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled")
}

func (c *HTTPClient) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.retryMaxDelay) {
		delay = float64(c.retryMaxDelay)
	}

	jitter := delay * 0.1 * rand.Float64()
	return time.Duration(delay + jitter)
}

// Ping checks whether the model server is reachable. Used by health checks.
func (c *HTTPClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func extractCorrelationID(ctx context.Context) string {
	if v := ctx.Value("correlation_id"); v != nil {
		if corrID, ok := v.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "success"
	case statusCode >= 400 && statusCode < 500:
		return "client_error"
	case statusCode >= 500:
		return "server_error"
	default:
		return "error"
	}
}
