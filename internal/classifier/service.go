// Package classifier serves alert predictions from one or more loaded models.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/model"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
)

// ErrUnknownModel is returned when a prediction names a model that was not loaded.
var ErrUnknownModel = errors.New("unknown model")

// LoadFunc deserializes one artifact into a classifier.
type LoadFunc func(path string) (domain.Classifier, error)

// LoadArtifact loads a tree-ensemble artifact from disk.
func LoadArtifact(path string) (domain.Classifier, error) {
	e, err := model.Load(path)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Model is a named, loaded classifier.
type Model struct {
	Name       string
	Classifier domain.Classifier
}

// Service holds the loaded models. It is immutable after construction and
// safe for concurrent use.
type Service struct {
	models  []Model
	index   map[string]int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New wraps already loaded classifiers. Results are reported in the order given.
func New(logger *slog.Logger, metrics *observability.Metrics, models ...Model) (*Service, error) {
	if len(models) == 0 {
		return nil, errors.New("at least one model is required")
	}
	index := make(map[string]int, len(models))
	for i, m := range models {
		if m.Classifier == nil {
			return nil, fmt.Errorf("model %q has no classifier", m.Name)
		}
		if _, dup := index[m.Name]; dup {
			return nil, fmt.Errorf("duplicate model name %q", m.Name)
		}
		index[m.Name] = i
	}
	metrics.ModelsLoaded.Set(float64(len(models)))
	return &Service{
		models:  models,
		index:   index,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Load deserializes every artifact in specs concurrently and returns the
// service handle. Any failure is a *domain.LoadError and no handle is returned.
func Load(ctx context.Context, specs []domain.ModelSpec, load LoadFunc, logger *slog.Logger, metrics *observability.Metrics) (*Service, error) {
	if len(specs) == 0 {
		return nil, errors.New("at least one model is required")
	}

	models := make([]Model, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return &domain.LoadError{Path: spec.Path, Err: err}
			}
			start := time.Now()
			clf, err := load(spec.Path)
			if err != nil {
				var loadErr *domain.LoadError
				if !errors.As(err, &loadErr) {
					err = &domain.LoadError{Path: spec.Path, Err: err}
				}
				return err
			}
			if clf == nil {
				return &domain.LoadError{Path: spec.Path, Err: errors.New("artifact is not a classifier")}
			}
			models[i] = Model{Name: spec.Name, Classifier: clf}
			logger.Info("model loaded", "model", spec.Name, "path", spec.Path, "duration", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(logger, metrics, models...)
}

// Models returns the loaded model names in result order.
func (s *Service) Models() []string {
	names := make([]string, len(s.models))
	for i, m := range s.models {
		names[i] = m.Name
	}
	return names
}

// Predict runs one model on features and returns its raw category code.
// Inputs are passed through unvalidated; a classifier failure is a *domain.PredictionError.
func (s *Service) Predict(name string, features domain.FeatureVector) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return s.predict(s.models[i], features)
}

// PredictAll runs every model in order. Each result stays attributed to its
// model; predictions are never combined.
func (s *Service) PredictAll(features domain.FeatureVector) ([]domain.PredictionResult, error) {
	results := make([]domain.PredictionResult, 0, len(s.models))
	for _, m := range s.models {
		code, err := s.predict(m, features)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.NewPredictionResult(m.Name, code))
	}
	return results, nil
}

// Decode maps a category code to its display alert.
func (s *Service) Decode(code int) domain.Alert {
	return domain.Decode(code)
}

func (s *Service) predict(m Model, features domain.FeatureVector) (int, error) {
	start := time.Now()
	code, err := m.Classifier.Predict(features)
	s.metrics.PredictionDuration.WithLabelValues(m.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.PredictionErrors.WithLabelValues(m.Name).Inc()
		var predErr *domain.PredictionError
		if errors.As(err, &predErr) {
			return 0, err
		}
		return 0, &domain.PredictionError{Model: m.Name, Err: err}
	}

	s.metrics.Predictions.WithLabelValues(m.Name, domain.Decode(code).Name).Inc()
	s.logger.Debug("prediction", "model", m.Name, "code", code)
	return code, nil
}
