package forecast

import (
	"context"
	"sync"
	"time"

	"github.com/crimesight/crime-risk-service/internal/models"
)

// inFlightForecast tracks a single forecast computation that multiple callers
// may wait for.
type inFlightForecast struct {
	mu      sync.Mutex
	result  *models.ForecastResult
	err     error
	done    bool
	waiters []chan struct{} // Channels to notify waiters when result is ready
}

// forecastCoalescer serializes forecast computation per cache key so that
// concurrent callers racing on the same key share one classifier invocation.
// Different keys compute independently; entries are insert-once.
type forecastCoalescer struct {
	mu       sync.Mutex
	inFlight map[string]*inFlightForecast
	timeout  time.Duration
}

// newForecastCoalescer creates a forecastCoalescer with the specified timeout.
func newForecastCoalescer(timeout time.Duration) *forecastCoalescer {
	return &forecastCoalescer{
		inFlight: make(map[string]*inFlightForecast),
		timeout:  timeout,
	}
}

// GetOrDo checks if a computation for key is already in-flight. If yes, waits
// for its result. If no, executes fn and registers the computation. Respects
// context cancellation and timeout to prevent indefinite blocking.
func (fc *forecastCoalescer) GetOrDo(ctx context.Context, key string, fn func() (*models.ForecastResult, error)) (*models.ForecastResult, error) {
	fc.mu.Lock()
	req, exists := fc.inFlight[key]
	if exists {
		fc.mu.Unlock()
		return fc.wait(ctx, req)
	}

	req = &inFlightForecast{
		waiters: make([]chan struct{}, 0),
	}
	fc.inFlight[key] = req
	fc.mu.Unlock()

	go func() {
		result, err := fn()

		req.mu.Lock()
		req.result = result
		req.err = err
		req.done = true
		waiters := req.waiters
		req.waiters = nil
		req.mu.Unlock()

		for _, notify := range waiters {
			close(notify)
		}

		fc.cleanup(key)
	}()

	return fc.wait(ctx, req)
}

// wait blocks until the in-flight computation completes or the context or
// coalescer timeout expires.
func (fc *forecastCoalescer) wait(ctx context.Context, req *inFlightForecast) (*models.ForecastResult, error) {
	notify := make(chan struct{})
	req.mu.Lock()
	if req.done {
		result := req.result
		err := req.err
		req.mu.Unlock()
		return result, err
	}
	req.waiters = append(req.waiters, notify)
	req.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, fc.timeout)
	defer cancel()
	select {
	case <-notify:
		req.mu.Lock()
		result := req.result
		err := req.err
		req.mu.Unlock()
		return result, err
	case <-waitCtx.Done():
		return nil, waitCtx.Err()
	}
}

// cleanup removes the in-flight entry for key. Must be called after the
// computation completes.
func (fc *forecastCoalescer) cleanup(key string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.inFlight, key)
}
