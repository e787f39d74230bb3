package classifier_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/classifier"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/model"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- mocks ---

type fixedClassifier struct {
	code int
	err  error
}

func (c fixedClassifier) Predict(domain.FeatureVector) (int, error) { return c.code, c.err }

// writeDemoModels writes both demo artifacts and returns their specs in
// the two-model order.
func writeDemoModels(t *testing.T) []domain.ModelSpec {
	t.Helper()
	dir := t.TempDir()
	gb := filepath.Join(dir, "best_gradient_boosting.json")
	rf := filepath.Join(dir, "best_random_forest.json.gz")
	require.NoError(t, model.WriteArtifact(gb, model.DemoGradientBoosting()))
	require.NoError(t, model.WriteArtifact(rf, model.DemoRandomForest()))
	return []domain.ModelSpec{
		{Name: "Gradient Boosting", Path: gb},
		{Name: "Random Forest", Path: rf},
	}
}

func loadDemo(t *testing.T) (*classifier.Service, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	svc, err := classifier.Load(context.Background(), writeDemoModels(t), classifier.LoadArtifact, slog.Default(), metrics)
	require.NoError(t, err)
	return svc, metrics
}

// --- Load ---

func TestLoad_PreservesOrder(t *testing.T) {
	svc, metrics := loadDemo(t)

	assert.Equal(t, []string{"Gradient Boosting", "Random Forest"}, svc.Models())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.ModelsLoaded))
}

func TestLoad_MissingFile(t *testing.T) {
	specs := writeDemoModels(t)
	specs[1].Path = filepath.Join(t.TempDir(), "best_random_forest.pkl")

	svc, err := classifier.Load(context.Background(), specs, classifier.LoadArtifact, slog.Default(), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Nil(t, svc)

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, specs[1].Path, loadErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_WrapsForeignLoaderErrors(t *testing.T) {
	specs := []domain.ModelSpec{{Name: "broken", Path: "broken.bin"}}
	load := func(string) (domain.Classifier, error) { return nil, errors.New("not a classifier") }

	_, err := classifier.Load(context.Background(), specs, load, slog.Default(), observability.NewMetricsForTesting())

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.bin", loadErr.Path)
}

func TestLoad_NilClassifier(t *testing.T) {
	specs := []domain.ModelSpec{{Name: "empty", Path: "empty.bin"}}
	load := func(string) (domain.Classifier, error) { return nil, nil }

	_, err := classifier.Load(context.Background(), specs, load, slog.Default(), observability.NewMetricsForTesting())

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := classifier.Load(ctx, writeDemoModels(t), classifier.LoadArtifact, slog.Default(), observability.NewMetricsForTesting())

	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_NoSpecs(t *testing.T) {
	_, err := classifier.Load(context.Background(), nil, classifier.LoadArtifact, slog.Default(), observability.NewMetricsForTesting())
	require.Error(t, err)
}

func TestNew_DuplicateNames(t *testing.T) {
	_, err := classifier.New(slog.Default(), observability.NewMetricsForTesting(),
		classifier.Model{Name: "RF", Classifier: fixedClassifier{}},
		classifier.Model{Name: "RF", Classifier: fixedClassifier{}},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

// --- Predict ---

func TestPredict_Deterministic(t *testing.T) {
	svc, _ := loadDemo(t)
	features := domain.FeatureVector{Magnitude: 6.5, DepthKm: 20, CDI: 5, MMI: 6, Sig: 400}

	first, err := svc.Predict("Random Forest", features)
	require.NoError(t, err)
	for range 20 {
		got, err := svc.Predict("Random Forest", features)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestPredict_UnknownModel(t *testing.T) {
	svc, _ := loadDemo(t)

	_, err := svc.Predict("CatBoost", domain.DefaultFeatureVector())
	require.ErrorIs(t, err, classifier.ErrUnknownModel)
}

func TestPredict_ClassifierErrorBecomesPredictionError(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc, err := classifier.New(slog.Default(), metrics,
		classifier.Model{Name: "Shape Checker", Classifier: fixedClassifier{err: errors.New("expected 6 features")}},
	)
	require.NoError(t, err)

	_, err = svc.Predict("Shape Checker", domain.DefaultFeatureVector())

	var predErr *domain.PredictionError
	require.ErrorAs(t, err, &predErr)
	assert.Equal(t, "Shape Checker", predErr.Model)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PredictionErrors.WithLabelValues("Shape Checker")))

	// A failed request does not affect the next one.
	_, err = svc.Predict("Shape Checker", domain.DefaultFeatureVector())
	require.Error(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.PredictionErrors.WithLabelValues("Shape Checker")))
}

func TestPredictAll_DefaultsEndToEnd(t *testing.T) {
	svc, metrics := loadDemo(t)

	results, err := svc.PredictAll(domain.DefaultFeatureVector())
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Alert.Code, 0)
		assert.LessOrEqual(t, r.Alert.Code, 3)
		assert.NotEmpty(t, r.Alert.Label)
		assert.Len(t, r.Alert.Color, 7)
		assert.Equal(t, byte('#'), r.Alert.Color[0])
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Predictions.WithLabelValues("Random Forest", "green")))
}

func TestPredictAll_ModelsReportedSeparately(t *testing.T) {
	at := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(at))
	defer domain.SetClock(nil)

	svc, _ := loadDemo(t)

	// The demo models disagree on this quake.
	results, err := svc.PredictAll(domain.FeatureVector{Magnitude: 6.5, DepthKm: 20, CDI: 5, MMI: 6, Sig: 400})
	require.NoError(t, err)

	assert.Equal(t, []domain.PredictionResult{
		{Model: "Gradient Boosting", Alert: domain.Decode(0), PredictedAt: at},
		{Model: "Random Forest", Alert: domain.Decode(2), PredictedAt: at},
	}, results)
}

func TestPredictAll_OutOfRangeCodeDegrades(t *testing.T) {
	svc, err := classifier.New(slog.Default(), observability.NewMetricsForTesting(),
		classifier.Model{Name: "Odd", Classifier: fixedClassifier{code: 7}},
	)
	require.NoError(t, err)

	results, err := svc.PredictAll(domain.DefaultFeatureVector())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Alert.Known)
	assert.Equal(t, domain.UnknownAlertColor, results[0].Alert.Color)
	assert.Equal(t, domain.UnknownAlertLabel, svc.Decode(7).Label)
}

func TestPredictAll_FailsWhole(t *testing.T) {
	svc, err := classifier.New(slog.Default(), observability.NewMetricsForTesting(),
		classifier.Model{Name: "Good", Classifier: fixedClassifier{code: 1}},
		classifier.Model{Name: "Bad", Classifier: fixedClassifier{err: errors.New("boom")}},
	)
	require.NoError(t, err)

	results, err := svc.PredictAll(domain.DefaultFeatureVector())
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestPredict_ConcurrentRequests(t *testing.T) {
	svc, _ := loadDemo(t)
	severe := domain.FeatureVector{Magnitude: 8, DepthKm: 10, CDI: 9, MMI: 9, Sig: 900}

	var wg sync.WaitGroup
	var mismatches atomic.Int32
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := svc.PredictAll(severe)
			if err != nil || results[0].Alert.Code != 3 || results[1].Alert.Code != 3 {
				mismatches.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, mismatches.Load())
}
