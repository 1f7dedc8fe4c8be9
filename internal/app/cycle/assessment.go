package cycle

import (
	"context"
	"fmt"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

// assessState pulls the baseline and recent similar patterns from the
// pattern store, samples current KPIs and computes anomalies plus the
// system-health score. Any failure here invalidates the cycle.
func (e *Engine) assessState(ctx context.Context, state *cycleState) error {
	current, err := e.deps.Network.CurrentKPIs(ctx)
	if err != nil {
		return fmt.Errorf("state assessment: current kpis: %w", err)
	}
	baseline, err := e.deps.Patterns.HistoricalBaseline(ctx, ports.PatternQuery{WindowDays: 30})
	if err != nil {
		return fmt.Errorf("state assessment: baseline: %w", err)
	}
	similar, err := e.deps.Patterns.SimilarPatterns(ctx, ports.PatternQuery{Limit: 20})
	if err != nil {
		return fmt.Errorf("state assessment: similar patterns: %w", err)
	}

	state.assessment = optimize.Assessment{
		Current:         current,
		Baseline:        baseline,
		SimilarPatterns: similar,
		Anomalies:       optimize.DetectAnomalies(current, baseline),
		HealthScore:     optimize.HealthScore(current, baseline),
	}
	return nil
}
