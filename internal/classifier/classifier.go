// Package classifier defines the consumed classifier capability: an opaque
// pre-trained model that maps feature vectors in the fixed 6-column order to
// probabilities, plus an HTTP client that talks to a model server exposing it.
package classifier

import (
	"context"
	"errors"
)

// Classifier is the consumed model capability. Rows are feature vectors in
// the fixed order [latitude, longitude, sin_hour, cos_hour, sin_weekday,
// cos_weekday]. Implementations must tolerate batch sizes from 1 to at least
// 56 rows in one call. PredictProba returns the per-row probability of the
// positive class; Predict returns the per-row scalar prediction for models
// that expose no probability operation.
type Classifier interface {
	PredictProba(ctx context.Context, rows [][]float64) ([]float64, error)
	Predict(ctx context.Context, rows [][]float64) ([]float64, error)
}

var (
	// ErrNoProbability signals that the model exposes no probability
	// operation; callers fall back to Predict.
	ErrNoProbability = errors.New("model exposes no probability operation")

	// ErrUnavailable signals that the model server cannot be reached or
	// answered with a server-side failure.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrBadResponse signals a response that could not be parsed or whose row
	// count does not match the request.
	ErrBadResponse = errors.New("malformed classifier response")

	// ErrBadRequest signals input the model server rejected.
	ErrBadRequest = errors.New("classifier rejected request")
)
