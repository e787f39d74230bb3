package classifier

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

// LoaderFunc builds a Service from model specs.
type LoaderFunc func(ctx context.Context, specs []domain.ModelSpec) (*Service, error)

// Provider owns the process-wide Service. The first call to Service loads
// the models; concurrent first calls wait for that single load. A failed
// load is not retried.
type Provider struct {
	specs  []domain.ModelSpec
	load   LoaderFunc
	once   sync.Once
	svc    *Service
	err    error
	loaded atomic.Bool
}

// NewProvider creates an unloaded Provider.
func NewProvider(specs []domain.ModelSpec, load LoaderFunc) *Provider {
	return &Provider{specs: specs, load: load}
}

// Service returns the loaded Service, loading it on first use. The load
// keeps the caller's values but not its cancellation, so an abandoned first
// request cannot leave the process without models.
func (p *Provider) Service(ctx context.Context) (*Service, error) {
	p.once.Do(func() {
		p.svc, p.err = p.load(context.WithoutCancel(ctx), p.specs)
		if p.err == nil {
			p.loaded.Store(true)
		}
	})
	return p.svc, p.err
}

// CheckReadiness returns nil once the models have loaded.
func (p *Provider) CheckReadiness(_ context.Context) error {
	if !p.loaded.Load() {
		return errors.New("models are not loaded")
	}
	return nil
}
