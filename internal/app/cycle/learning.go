package cycle

import (
	"context"
	"fmt"
	"log"
	"time"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"

	"github.com/google/uuid"
)

// updateLearning extracts (pattern, effectiveness, impact) tuples from
// the temporal and cognitive outputs and forwards them to the pattern
// store; assessment anomalies surface as additional insight records.
// Store failures degrade to a log line: learning is advisory.
func (e *Engine) updateLearning(ctx context.Context, state *cycleState) {
	insights := make([]optimize.Insight, 0)

	for _, p := range state.temporal.Patterns {
		insights = append(insights, optimize.Insight{
			Kind:          "temporal",
			Pattern:       p.Description,
			Effectiveness: p.Effectiveness,
			Impact:        p.Impact,
		})
	}
	for _, p := range state.cognitive {
		insights = append(insights, optimize.Insight{
			Kind:          "recursive",
			Pattern:       p.Description,
			Effectiveness: p.Effectiveness,
			Impact:        p.OptimizationPotential,
		})
	}
	for _, a := range state.assessment.Anomalies {
		insights = append(insights, optimize.Insight{
			Kind:    "anomaly",
			Pattern: string(a.Metric),
			Impact:  a.Deviation,
			Detail:  fmt.Sprintf("%s deviated %.0f%% from baseline (severity %s)", a.Metric, a.Deviation*100, a.Severity),
		})
	}
	state.insights = insights

	learned := e.learnedPattern(state)
	persist := func(txCtx context.Context) error {
		if len(state.temporal.Patterns) > 0 {
			if err := e.deps.Patterns.StoreTemporalPatterns(txCtx, state.temporal.Patterns); err != nil {
				return fmt.Errorf("store temporal patterns: %w", err)
			}
		}
		for _, p := range state.cognitive {
			if err := e.deps.Patterns.StoreRecursivePattern(txCtx, p); err != nil {
				return fmt.Errorf("store recursive pattern: %w", err)
			}
		}
		if learned != nil {
			if err := e.deps.Patterns.StoreLearningPattern(txCtx, *learned); err != nil {
				return fmt.Errorf("store learning pattern: %w", err)
			}
		}
		return nil
	}

	var err error
	if e.deps.Tx != nil {
		err = e.deps.Tx.RunInTx(ctx, persist)
	} else {
		err = persist(ctx)
	}
	if err != nil {
		log.Printf("[cycle] learning update degraded: %v", err)
	}
}

// learnedPattern distills the executed proposal's outcome into one
// learning tuple for the store.
func (e *Engine) learnedPattern(state *cycleState) *optimize.Pattern {
	winning := state.decision.Winning
	if winning == nil {
		return nil
	}
	total := state.execution.Successful + state.execution.Failed
	if total == 0 {
		return nil
	}
	return &optimize.Pattern{
		ID:                    uuid.New().String(),
		Kind:                  optimize.PatternLearning,
		Metric:                metricFor(winning.Type),
		Description:           winning.Name,
		OptimizationPotential: winning.Score(),
		Effectiveness:         float64(state.execution.Successful) / float64(total),
		Impact:                winning.ExpectedImpact,
		ObservedAt:            e.now(),
	}
}

// updateEvolution reports the cycle outcome to the evolution tracker.
// This feedback loop is cosmetic: failures are logged and swallowed.
func (e *Engine) updateEvolution(ctx context.Context, state *cycleState, result optimize.CycleResult) {
	if e.deps.Evolution == nil {
		return
	}
	outcome := ports.EvolutionOutcome{
		CycleID:         result.CycleID,
		Success:         result.Success,
		Elapsed:         e.now().Sub(result.StartedAt),
		InsightCount:    len(state.insights),
		DecisionQuality: state.decision.Result.ApprovalPercentage / 100,
	}
	if result.Execution != nil {
		outcome.ResourceEfficiency = result.Execution.Resources.Efficiency()
	}
	evolveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.deps.Evolution.Evolve(evolveCtx, outcome); err != nil {
		log.Printf("[cycle] evolution update failed: %v", err)
	}
}
