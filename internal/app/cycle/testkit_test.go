package cycle

import (
	"context"
	"sync"
	"time"

	"soncore/internal/app/consensus"
	"soncore/internal/app/execute"
	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

type stubPatternStore struct {
	mu              sync.Mutex
	baseline        optimize.KPISet
	similar         []optimize.Pattern
	baselineErr     error
	similarErr      error
	storeErr        error
	storedLearning  []optimize.Pattern
	storedTemporal  []optimize.Pattern
	storedRecursive []optimize.Pattern
}

func (s *stubPatternStore) HistoricalBaseline(context.Context, ports.PatternQuery) (optimize.KPISet, error) {
	return s.baseline, s.baselineErr
}

func (s *stubPatternStore) SimilarPatterns(context.Context, ports.PatternQuery) ([]optimize.Pattern, error) {
	return s.similar, s.similarErr
}

func (s *stubPatternStore) LearningPatterns(context.Context, ports.PatternQuery) ([]optimize.Pattern, error) {
	return nil, nil
}

func (s *stubPatternStore) StoreLearningPattern(_ context.Context, p optimize.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	s.storedLearning = append(s.storedLearning, p)
	return nil
}

func (s *stubPatternStore) StoreTemporalPatterns(_ context.Context, patterns []optimize.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	s.storedTemporal = append(s.storedTemporal, patterns...)
	return nil
}

func (s *stubPatternStore) StoreRecursivePattern(_ context.Context, p optimize.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.storeErr != nil {
		return s.storeErr
	}
	s.storedRecursive = append(s.storedRecursive, p)
	return nil
}

type stubNetwork struct {
	kpis optimize.KPISet
	err  error
}

func (s stubNetwork) CurrentKPIs(context.Context) (optimize.KPISet, error) {
	return s.kpis, s.err
}

type stubTemporal struct {
	analysis optimize.TemporalAnalysis
	err      error
}

func (s stubTemporal) Expand(context.Context, ports.TemporalRequest) (optimize.TemporalAnalysis, error) {
	return s.analysis, s.err
}

type stubCognitive struct {
	patterns []optimize.Pattern
	err      error
}

func (s stubCognitive) ApplyRecursiveAnalysis(context.Context, ports.RecursiveAnalysisRequest) ([]optimize.Pattern, error) {
	return s.patterns, s.err
}

type stubEvolution struct {
	mu       sync.Mutex
	err      error
	outcomes []ports.EvolutionOutcome
}

func (s *stubEvolution) Evolve(_ context.Context, outcome ports.EvolutionOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.outcomes = append(s.outcomes, outcome)
	return nil
}

func (s *stubEvolution) CurrentLevel(context.Context) (int, error) { return 1, nil }

func (s *stubEvolution) EvolutionScore(context.Context) (float64, error) { return 0.5, nil }

type stubMetrics struct {
	mu        sync.Mutex
	successes int
	degraded  int
	failures  map[string]int
}

func newStubMetrics() *stubMetrics {
	return &stubMetrics{failures: map[string]int{}}
}

func (m *stubMetrics) RecordSuccess(degraded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes++
	if degraded {
		m.degraded++
	}
}

func (m *stubMetrics) RecordFailure(errorClass string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[errorClass]++
}

func healthyKPIs() optimize.KPISet {
	return optimize.KPISet{
		optimize.KPIEnergy:   100,
		optimize.KPIMobility: 100,
		optimize.KPICoverage: 100,
		optimize.KPICapacity: 100,
	}
}

func energyPattern() optimize.Pattern {
	return optimize.Pattern{
		ID:                    "tp-1",
		Kind:                  optimize.PatternTemporal,
		Metric:                optimize.KPIEnergy,
		Target:                "cell-12",
		Description:           "shut down secondary carrier during low load",
		OptimizationPotential: 0.9,
		Effectiveness:         0.85,
		Impact:                0.9,
	}
}

func confidentAnalysis() optimize.TemporalAnalysis {
	return optimize.TemporalAnalysis{
		Accuracy:        0.97,
		Confidence:      0.97,
		ExpansionFactor: 3.0,
		Patterns:        []optimize.Pattern{energyPattern()},
	}
}

// engineFixture bundles the stubs behind a happy-path engine; tests
// mutate individual stubs before calling Run.
type engineFixture struct {
	patterns  *stubPatternStore
	network   *stubNetwork
	temporal  *stubTemporal
	cognitive *stubCognitive
	evolution *stubEvolution
	metrics   *stubMetrics
}

func newFixture() *engineFixture {
	return &engineFixture{
		patterns:  &stubPatternStore{baseline: healthyKPIs()},
		network:   &stubNetwork{kpis: healthyKPIs()},
		temporal:  &stubTemporal{analysis: confidentAnalysis()},
		cognitive: &stubCognitive{},
		evolution: &stubEvolution{},
		metrics:   newStubMetrics(),
	}
}

// newCappedExecutor returns an executor whose concurrency cap is below
// the smallest proposal's batch size.
func newCappedExecutor() *execute.Executor {
	return execute.NewExecutor(execute.Config{MaxConcurrentActions: 1})
}

func (f *engineFixture) engine(cfg Config) *Engine {
	executor := execute.NewExecutor(execute.Config{
		MaxConcurrentActions: 10,
		MaxRetries:           1,
		RetryDelay:           time.Millisecond,
		RollbackEnabled:      true,
	})
	return NewEngine(cfg, Deps{
		Patterns:  f.patterns,
		Network:   f.network,
		Temporal:  f.temporal,
		Cognitive: f.cognitive,
		Evolution: f.evolution,
		Consensus: consensus.NewBuilder(consensus.Config{Threshold: 67, Mechanism: consensus.MechanismWeighted}, nil),
		Executor:  executor,
		Metrics:   f.metrics,
	})
}
