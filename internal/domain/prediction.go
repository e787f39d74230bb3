package domain

import (
	"fmt"
	"time"
)

// Classifier is a loaded, read-only model. Predict returns the raw category
// code; implementations must be safe for concurrent use.
type Classifier interface {
	Predict(features FeatureVector) (int, error)
}

// PredictionResult attributes one decoded prediction to the model that made it.
type PredictionResult struct {
	Model       string    `json:"model"`
	Alert       Alert     `json:"alert"`
	PredictedAt time.Time `json:"predicted_at"`
}

// NewPredictionResult decodes code and stamps it with the package clock.
func NewPredictionResult(model string, code int) PredictionResult {
	return PredictionResult{
		Model:       model,
		Alert:       Decode(code),
		PredictedAt: clock.Now(),
	}
}

// LoadError reports a model artifact that is missing, unreadable, or not a
// usable classifier.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// PredictionError reports a classifier rejecting its input.
type PredictionError struct {
	Model string
	Err   error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("predict with %q: %v", e.Model, e.Err)
}

func (e *PredictionError) Unwrap() error { return e.Err }

// ModelSpec names a model artifact to load. Name is what results are attributed to.
type ModelSpec struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}
