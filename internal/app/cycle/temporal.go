package cycle

import (
	"context"
	"fmt"
	"log"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

// analyzeTemporal asks the temporal-reasoning collaborator for a deep
// expansion. A result below the confidence floor is a hard failure of
// the phase unless the fallback policy is enabled, in which case a
// degraded substitute analysis is used and the cycle continues,
// recorded as degraded.
func (e *Engine) analyzeTemporal(ctx context.Context, state *cycleState) error {
	analysis, err := e.deps.Temporal.Expand(ctx, ports.TemporalRequest{
		Assessment:      state.assessment,
		ExpansionFactor: e.cfg.ExpansionFactor,
		Depth:           e.cfg.TemporalDepth,
		SeedPatterns:    state.assessment.SimilarPatterns,
	})
	if err == nil && analysis.Confidence >= optimize.TemporalConfidenceFloor {
		state.temporal = analysis
		return nil
	}

	if !e.cfg.FallbackEnabled {
		if err != nil {
			return fmt.Errorf("temporal analysis: %w", err)
		}
		return fmt.Errorf("%w: confidence %.3f < %.2f", ErrTemporalConfidence, analysis.Confidence, optimize.TemporalConfidenceFloor)
	}

	if err != nil {
		log.Printf("[cycle] temporal analysis failed, falling back: %v", err)
	} else {
		log.Printf("[cycle] temporal confidence %.3f below floor, falling back", analysis.Confidence)
	}
	state.temporal = optimize.TemporalAnalysis{
		ExpansionFactor: optimize.DegradedExpansionFactor,
		Confidence:      optimize.DegradedConfidence,
		Degraded:        true,
	}
	return nil
}

// analyzePatterns runs the cognitive collaborator's self-referential
// pass. The patterns are advisory: on failure the phase degrades to an
// empty list and the cycle proceeds.
func (e *Engine) analyzePatterns(ctx context.Context, state *cycleState) {
	patterns, err := e.deps.Cognitive.ApplyRecursiveAnalysis(ctx, ports.RecursiveAnalysisRequest{
		Assessment:   state.assessment,
		Temporal:     state.temporal,
		RecentCycles: e.Recent(5),
	})
	if err != nil {
		log.Printf("[cycle] pattern analysis degraded to empty: %v", err)
		state.cognitive = nil
		return
	}
	kept := make([]optimize.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.OptimizationPotential > optimize.MinPatternPotential {
			kept = append(kept, p)
		}
	}
	state.cognitive = kept
}
