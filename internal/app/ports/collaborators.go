package ports

import (
	"context"
	"time"

	"soncore/internal/domain/optimize"
)

// TemporalRequest asks the temporal-reasoning collaborator for a deep
// expansion of the assessed state.
type TemporalRequest struct {
	Assessment      optimize.Assessment
	ExpansionFactor float64
	Depth           int
	SeedPatterns    []optimize.Pattern
}

// TemporalReasoner is the external temporal-reasoning collaborator.
type TemporalReasoner interface {
	Expand(ctx context.Context, req TemporalRequest) (optimize.TemporalAnalysis, error)
}

// RecursiveAnalysisRequest feeds the cognitive collaborator's
// self-referential pass with everything the cycle knows so far.
type RecursiveAnalysisRequest struct {
	Assessment   optimize.Assessment
	Temporal     optimize.TemporalAnalysis
	RecentCycles []optimize.CycleResult
}

// CognitiveAnalyzer is the external cognitive/pattern collaborator.
type CognitiveAnalyzer interface {
	ApplyRecursiveAnalysis(ctx context.Context, req RecursiveAnalysisRequest) ([]optimize.Pattern, error)
}

// EvolutionOutcome summarizes one finished cycle for the evolution
// scorer.
type EvolutionOutcome struct {
	CycleID            string
	Success            bool
	Elapsed            time.Duration
	ResourceEfficiency float64
	InsightCount       int
	DecisionQuality    float64
}

// EvolutionTracker is the external evolution/scoring collaborator.
type EvolutionTracker interface {
	Evolve(ctx context.Context, outcome EvolutionOutcome) error
	CurrentLevel(ctx context.Context) (int, error)
	EvolutionScore(ctx context.Context) (float64, error)
}
