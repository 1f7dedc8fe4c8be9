package simulated

import (
	"context"
	"math"
	"testing"

	"soncore/internal/domain/optimize"
)

func TestProvider_JitterStaysWithinBand(t *testing.T) {
	p := NewProvider(Config{Jitter: 0.02, Seed: 42})
	for i := 0; i < 50; i++ {
		kpis, err := p.CurrentKPIs(context.Background())
		if err != nil {
			t.Fatalf("current kpis: %v", err)
		}
		for metric, nominal := range DefaultConfig().Nominal {
			got := kpis[metric]
			if math.Abs(got-nominal)/nominal > 0.021 {
				t.Fatalf("%s jittered out of band: %f vs nominal %f", metric, got, nominal)
			}
		}
	}
}

func TestProvider_DriftInjectsAnomaly(t *testing.T) {
	p := NewProvider(Config{Jitter: 0, Seed: 7})
	p.SetDrift(optimize.KPIEnergy, 0.30)

	kpis, err := p.CurrentKPIs(context.Background())
	if err != nil {
		t.Fatalf("current kpis: %v", err)
	}
	nominal := DefaultConfig().Nominal[optimize.KPIEnergy]
	if got := kpis[optimize.KPIEnergy]; math.Abs(got-nominal*1.30) > 1e-9 {
		t.Fatalf("expected 30%% drift, got %f", got)
	}

	anomalies := optimize.DetectAnomalies(kpis, DefaultConfig().Nominal)
	found := false
	for _, a := range anomalies {
		if a.Metric == optimize.KPIEnergy && a.Severity == optimize.SeverityMedium {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected energy anomaly, got %+v", anomalies)
	}
}

func TestProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider(Config{}).CurrentKPIs(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
