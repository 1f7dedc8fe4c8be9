package simulated

import (
	"context"
	"math/rand"
	"sync"

	"soncore/internal/domain/optimize"
)

// Config shapes the simulated telemetry plane. Drift entries push a
// metric away from its nominal value by a fixed fraction, which is how
// demos inject anomalies for the cycle to find.
type Config struct {
	Nominal optimize.KPISet
	Jitter  float64
	Drift   map[optimize.KPIKey]float64
	Seed    int64
}

func DefaultConfig() Config {
	return Config{
		Nominal: optimize.KPISet{
			optimize.KPIEnergy:   120.0,
			optimize.KPIMobility: 0.97,
			optimize.KPICoverage: 0.92,
			optimize.KPICapacity: 0.65,
		},
		Jitter: 0.02,
		Seed:   1,
	}
}

type Provider struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

func NewProvider(cfg Config) *Provider {
	def := DefaultConfig()
	if len(cfg.Nominal) == 0 {
		cfg.Nominal = def.Nominal
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = def.Jitter
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Provider{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

func (p *Provider) CurrentKPIs(ctx context.Context) (optimize.KPISet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(optimize.KPISet, len(p.cfg.Nominal))
	for metric, nominal := range p.cfg.Nominal {
		value := nominal * (1 + p.cfg.Drift[metric])
		if p.cfg.Jitter > 0 {
			value *= 1 + (p.rng.Float64()*2-1)*p.cfg.Jitter
		}
		out[metric] = value
	}
	return out, nil
}

// SetDrift replaces one metric's drift at runtime, so a demo can flip
// a healthy network into a degraded one between cycles.
func (p *Provider) SetDrift(metric optimize.KPIKey, drift float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Drift == nil {
		p.cfg.Drift = map[optimize.KPIKey]float64{}
	}
	p.cfg.Drift[metric] = drift
}
