package simulated

import (
	"context"
	"math"
	"sync"

	"soncore/internal/app/ports"
)

// EvolutionTracker accumulates a capability score across cycles.
// Successful, resource-efficient cycles that produce insights push the
// score up; failures pull it down. Levels are coarse buckets of the
// score so dashboards have a stable number to show.
type EvolutionTracker struct {
	mu    sync.Mutex
	score float64
}

func NewEvolutionTracker() *EvolutionTracker {
	return &EvolutionTracker{}
}

func (t *EvolutionTracker) Evolve(ctx context.Context, outcome ports.EvolutionOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if outcome.Success {
		gain := 0.05 + 0.03*outcome.ResourceEfficiency + 0.01*float64(outcome.InsightCount) + 0.02*outcome.DecisionQuality
		t.score += gain
	} else {
		t.score -= 0.02
		if t.score < 0 {
			t.score = 0
		}
	}
	return nil
}

func (t *EvolutionTracker) CurrentLevel(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return 1 + int(math.Floor(t.score)), nil
}

func (t *EvolutionTracker) EvolutionScore(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.score, nil
}
