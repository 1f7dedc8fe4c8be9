package simulated

import (
	"context"
	"fmt"
	"time"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

// ReasonerConfig tunes the simulated temporal collaborator. The real
// deployment talks to an external reasoning service; this adapter
// reproduces its output shape deterministically for demos and tests.
type ReasonerConfig struct {
	BaseConfidence    float64
	BaseAccuracy      float64
	ConfidencePenalty float64
	Horizons          []time.Duration
	Now               func() time.Time
}

func DefaultReasonerConfig() ReasonerConfig {
	return ReasonerConfig{
		BaseConfidence:    0.97,
		BaseAccuracy:      0.96,
		ConfidencePenalty: 0.005,
		Horizons:          []time.Duration{15 * time.Minute, time.Hour, 4 * time.Hour},
		Now:               time.Now,
	}
}

type Reasoner struct {
	cfg ReasonerConfig
}

func NewReasoner(cfg ReasonerConfig) Reasoner {
	def := DefaultReasonerConfig()
	if cfg.BaseConfidence <= 0 {
		cfg.BaseConfidence = def.BaseConfidence
	}
	if cfg.BaseAccuracy <= 0 {
		cfg.BaseAccuracy = def.BaseAccuracy
	}
	if cfg.ConfidencePenalty <= 0 {
		cfg.ConfidencePenalty = def.ConfidencePenalty
	}
	if len(cfg.Horizons) == 0 {
		cfg.Horizons = def.Horizons
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return Reasoner{cfg: cfg}
}

// Expand projects the assessed state forward. Confidence degrades with
// the number of concurrent anomalies: a network in flux is harder to
// predict than a stable one.
func (r Reasoner) Expand(ctx context.Context, req ports.TemporalRequest) (optimize.TemporalAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return optimize.TemporalAnalysis{}, err
	}

	confidence := r.cfg.BaseConfidence - float64(len(req.Assessment.Anomalies))*r.cfg.ConfidencePenalty
	if confidence < 0 {
		confidence = 0
	}
	accuracy := r.cfg.BaseAccuracy - float64(len(req.Assessment.Anomalies))*r.cfg.ConfidencePenalty
	if accuracy < 0 {
		accuracy = 0
	}

	now := r.cfg.Now()
	analysis := optimize.TemporalAnalysis{
		Accuracy:        accuracy,
		Confidence:      confidence,
		ExpansionFactor: req.ExpansionFactor,
	}

	for _, a := range req.Assessment.Anomalies {
		potential := a.Deviation * req.ExpansionFactor / 3.0
		if potential > 1 {
			potential = 1
		}
		analysis.Patterns = append(analysis.Patterns, optimize.Pattern{
			ID:                    fmt.Sprintf("tmp-%s-%d", a.Metric, now.UnixNano()),
			Kind:                  optimize.PatternTemporal,
			Metric:                a.Metric,
			Description:           fmt.Sprintf("%s deviates %.0f%% from baseline", a.Metric, a.Deviation*100),
			OptimizationPotential: potential,
			Impact:                a.Deviation,
			ObservedAt:            now,
		})
		analysis.Insights = append(analysis.Insights, optimize.Insight{
			Kind:          "temporal_drift",
			Pattern:       string(a.Metric),
			Effectiveness: confidence,
			Impact:        a.Deviation,
		})
	}

	for metric, value := range req.Assessment.Current {
		baseline := req.Assessment.Baseline[metric]
		for i, horizon := range r.cfg.Horizons {
			if i >= req.Depth {
				break
			}
			// Each step drifts the metric a little further toward its
			// baseline, confidence decaying with distance.
			step := float64(i+1) / float64(len(r.cfg.Horizons))
			analysis.Predictions = append(analysis.Predictions, optimize.Prediction{
				Metric:     metric,
				Horizon:    horizon,
				Value:      value + (baseline-value)*0.5*step,
				Confidence: confidence * (1 - 0.05*float64(i)),
			})
		}
	}

	return analysis, nil
}
