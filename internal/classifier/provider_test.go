package classifier_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/classifier"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/observability"
)

func TestProvider_LoadsOnceUnderConcurrency(t *testing.T) {
	specs := writeDemoModels(t)
	var loads atomic.Int32
	provider := classifier.NewProvider(specs, func(ctx context.Context, specs []domain.ModelSpec) (*classifier.Service, error) {
		loads.Add(1)
		return classifier.Load(ctx, specs, classifier.LoadArtifact, slog.Default(), observability.NewMetricsForTesting())
	})

	require.Error(t, provider.CheckReadiness(context.Background()))

	var wg sync.WaitGroup
	services := make([]*classifier.Service, 20)
	for i := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc, err := provider.Service(context.Background())
			assert.NoError(t, err)
			services[i] = svc
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, svc := range services {
		assert.Same(t, services[0], svc)
	}
	assert.NoError(t, provider.CheckReadiness(context.Background()))
}

func TestProvider_FailedLoadIsSticky(t *testing.T) {
	var loads atomic.Int32
	provider := classifier.NewProvider(nil, func(context.Context, []domain.ModelSpec) (*classifier.Service, error) {
		loads.Add(1)
		return nil, &domain.LoadError{Path: "models/best_gradient_boosting.json", Err: errors.New("corrupt")}
	})

	_, err := provider.Service(context.Background())
	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)

	_, err = provider.Service(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), loads.Load())
	assert.Error(t, provider.CheckReadiness(context.Background()))
}

func TestProvider_CancelledFirstCallerStillLoads(t *testing.T) {
	specs := writeDemoModels(t)
	provider := classifier.NewProvider(specs, func(ctx context.Context, specs []domain.ModelSpec) (*classifier.Service, error) {
		return classifier.Load(ctx, specs, classifier.LoadArtifact, slog.Default(), observability.NewMetricsForTesting())
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, err := provider.Service(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gradient Boosting", "Random Forest"}, svc.Models())
	assert.NoError(t, provider.CheckReadiness(context.Background()))
}
