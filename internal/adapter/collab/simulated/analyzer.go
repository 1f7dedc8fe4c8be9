package simulated

import (
	"context"
	"fmt"
	"time"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

// Analyzer is the simulated cognitive collaborator. It mines recursive
// patterns by replaying recent cycle outcomes against the current
// anomalies: a metric that keeps misbehaving across cycles is a
// stronger candidate than a one-off blip.
type Analyzer struct {
	Now func() time.Time
}

func NewAnalyzer() Analyzer {
	return Analyzer{Now: time.Now}
}

func (a Analyzer) ApplyRecursiveAnalysis(ctx context.Context, req ports.RecursiveAnalysisRequest) ([]optimize.Pattern, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	recurrence := map[optimize.KPIKey]int{}
	for _, cycle := range req.RecentCycles {
		for _, insight := range cycle.Insights {
			recurrence[optimize.KPIKey(insight.Pattern)]++
		}
	}

	var out []optimize.Pattern
	for _, anomaly := range req.Assessment.Anomalies {
		seen := recurrence[anomaly.Metric]
		potential := 0.6 + 0.1*float64(seen) + anomaly.Deviation/2
		if potential > 1 {
			potential = 1
		}
		out = append(out, optimize.Pattern{
			ID:                    fmt.Sprintf("rec-%s-%d", anomaly.Metric, now().UnixNano()),
			Kind:                  optimize.PatternRecursive,
			Metric:                anomaly.Metric,
			Description:           fmt.Sprintf("%s anomaly recurred in %d recent cycles", anomaly.Metric, seen),
			OptimizationPotential: potential,
			Effectiveness:         req.Temporal.Confidence,
			Impact:                anomaly.Deviation,
			ObservedAt:            now(),
		})
	}
	return out, nil
}
