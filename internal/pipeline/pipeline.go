package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
)

// publishTimeout bounds how long a request waits on the event sink.
const publishTimeout = 2 * time.Second

// Predictor classifies one feature vector with every loaded model.
type Predictor interface {
	PredictAll(features domain.FeatureVector) ([]domain.PredictionResult, error)
	Models() []string
}

// EventLoader writes prediction events to the destination.
type EventLoader interface {
	LoadBatch(ctx context.Context, events []domain.PredictionEvent) error
}

// Outcome is everything a single prediction request produced.
type Outcome struct {
	RequestID string
	Features  domain.FeatureVector
	Results   []domain.PredictionResult
}

// Pipeline runs the classify-decode-publish sequence for one request.
type Pipeline struct {
	predictor Predictor
	loader    EventLoader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Pass a nil loader to disable event publishing.
func New(p Predictor, l EventLoader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if l != nil {
		metrics.EventPublishEnabled.Set(1)
	}
	return &Pipeline{
		predictor: p,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
	}
}

// Models returns the loaded model names in result order.
func (p *Pipeline) Models() []string {
	return p.predictor.Models()
}

// Predict classifies features with every model. A classifier failure fails the
// whole request; an event publishing failure is logged and does not.
func (p *Pipeline) Predict(ctx context.Context, features domain.FeatureVector) (Outcome, error) {
	requestID := uuid.NewString()

	results, err := p.predictor.PredictAll(features)
	if err != nil {
		p.logger.Warn("prediction failed", "error", err, "request_id", requestID)
		return Outcome{}, err
	}

	for _, r := range results {
		p.logger.Info("prediction",
			"request_id", requestID,
			"model", r.Model,
			"code", r.Alert.Code,
			"alert", r.Alert.Name,
		)
	}

	p.publish(ctx, requestID, features, results)

	return Outcome{RequestID: requestID, Features: features, Results: results}, nil
}

func (p *Pipeline) publish(ctx context.Context, requestID string, features domain.FeatureVector, results []domain.PredictionResult) {
	if p.loader == nil || len(results) == 0 {
		return
	}

	events := make([]domain.PredictionEvent, len(results))
	for i, r := range results {
		events[i] = domain.NewPredictionEvent(uuid.NewString(), requestID, features, r)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.loader.LoadBatch(ctx, events); err != nil {
		p.logger.Error("publish prediction events failed", "error", err, "request_id", requestID, "batch_size", len(events))
		p.metrics.EventPublishErrors.Inc()
		return
	}
	p.metrics.EventsPublished.Add(float64(len(events)))
}
