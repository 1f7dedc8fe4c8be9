package cycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"soncore/internal/app/consensus"
	"soncore/internal/app/execute"
	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"

	"github.com/google/uuid"
)

var (
	ErrCycleInFlight      = errors.New("optimization cycle already in flight")
	ErrConsensusRejected  = errors.New("consensus not reached")
	ErrTemporalConfidence = errors.New("temporal analysis below confidence floor")
)

// HistoryLimit bounds the in-memory cycle history buffer.
const HistoryLimit = 100

type Phase string

const (
	PhaseStateAssessment   Phase = "state_assessment"
	PhaseTemporalAnalysis  Phase = "temporal_analysis"
	PhasePatternAnalysis   Phase = "pattern_analysis"
	PhaseMetaOptimization  Phase = "meta_optimization"
	PhaseDecisionSynthesis Phase = "decision_synthesis"
	PhaseConsensusBuilding Phase = "consensus_building"
	PhaseActionExecution   Phase = "action_execution"
	PhaseLearningUpdate    Phase = "learning_update"
	PhaseEvolutionUpdate   Phase = "evolution_update"
)

type Config struct {
	ExpansionFactor float64
	TemporalDepth   int
	FallbackEnabled bool
}

// Deps wires the engine to its collaborators and infrastructure.
// Patterns, Network, Temporal, Cognitive, Consensus and Executor are
// required; the rest are optional.
type Deps struct {
	Patterns  ports.PatternStore
	Network   ports.NetworkStateProvider
	Temporal  ports.TemporalReasoner
	Cognitive ports.CognitiveAnalyzer
	Evolution ports.EvolutionTracker
	Consensus *consensus.Builder
	Executor  *execute.Executor
	History   ports.CycleHistoryRepository
	Tx        ports.TxManager
	Metrics   ports.CycleMetrics
	Now       func() time.Time
}

// Engine runs one bounded optimization cycle through the fixed phase
// sequence and always returns a CycleResult, never an unhandled
// failure. A single engine instance allows one cycle in flight at a
// time; callers needing overlap run independent instances.
type Engine struct {
	cfg  Config
	deps Deps
	now  func() time.Time

	inFlight atomic.Bool

	mu      sync.Mutex
	history []optimize.CycleResult
}

func NewEngine(cfg Config, deps Deps) *Engine {
	if cfg.ExpansionFactor <= 0 {
		cfg.ExpansionFactor = 3.0
	}
	if cfg.TemporalDepth <= 0 {
		cfg.TemporalDepth = 5
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{cfg: cfg, deps: deps, now: now}
}

// cycleState accumulates phase outputs while a cycle runs.
type cycleState struct {
	assessment optimize.Assessment
	temporal   optimize.TemporalAnalysis
	cognitive  []optimize.Pattern
	meta       metaResult
	proposals  []optimize.Proposal
	decision   consensus.Decision
	execution  optimize.ExecutionSummary
	insights   []optimize.Insight
}

// Run executes one optimization cycle end to end and always returns a
// terminal CycleResult: phase errors and collaborator panics both end
// up as classified failure reports. Every cycle that started appends
// its record to the bounded history; a refused overlapping trigger
// never started a cycle and is not recorded.
func (e *Engine) Run(ctx context.Context) (result optimize.CycleResult) {
	result = optimize.CycleResult{
		CycleID:   uuid.New().String(),
		StartedAt: e.now(),
	}
	if !e.inFlight.CompareAndSwap(false, true) {
		report := classify(ErrCycleInFlight)
		result.Failure = &report
		result.EndedAt = e.now()
		log.Printf("[cycle] %s refused: %s", result.CycleID, report.Message)
		return result
	}
	defer e.inFlight.Store(false)

	state := &cycleState{}
	defer func() {
		if r := recover(); r != nil {
			result = e.finishFailure(ctx, result, state, fmt.Errorf("collaborator panic: %v", r))
		}
	}()

	if err := e.assessState(ctx, state); err != nil {
		return e.finishFailure(ctx, result, state, err)
	}
	if err := e.analyzeTemporal(ctx, state); err != nil {
		return e.finishFailure(ctx, result, state, err)
	}
	e.analyzePatterns(ctx, state)
	e.metaOptimize(state)
	e.synthesizeDecision(state)
	result.Proposals = state.proposals

	if err := e.buildConsensus(state); err != nil {
		return e.finishFailure(ctx, result, state, err)
	}
	result.Consensus = &state.decision.Result

	if err := e.executeActions(ctx, state); err != nil {
		return e.finishFailure(ctx, result, state, err)
	}
	result.Execution = &state.execution

	e.updateLearning(ctx, state)
	result.Insights = state.insights

	result.Success = true
	result.Degraded = state.temporal.Degraded
	result.EndedAt = e.now()

	e.updateEvolution(ctx, state, result)
	e.recordResult(ctx, result)
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordSuccess(result.Degraded)
	}
	log.Printf("[cycle] %s completed: %d proposals, %d/%d actions, health %.2f",
		result.CycleID, len(result.Proposals), state.execution.Successful,
		state.execution.Successful+state.execution.Failed, state.assessment.HealthScore)
	return result
}

// finishFailure converts any phase error into a well-formed failed
// result. Recovery is attempted for every class except consensus
// rejection, where the rejection itself is the legitimate outcome.
func (e *Engine) finishFailure(ctx context.Context, result optimize.CycleResult, state *cycleState, err error) optimize.CycleResult {
	report := classify(err)
	if report.RecoveryAttempted {
		e.attemptRecovery(err)
	}
	if state != nil {
		result.Proposals = state.proposals
		if state.decision.Result.ProposalID != "" {
			result.Consensus = &state.decision.Result
		}
		result.Insights = state.insights
	}
	result.Failure = &report
	result.EndedAt = e.now()
	e.recordResult(ctx, result)
	if e.deps.Metrics != nil {
		e.deps.Metrics.RecordFailure(report.Class)
	}
	log.Printf("[cycle] %s failed (%s): %s", result.CycleID, report.Class, report.Message)
	return result
}

// attemptRecovery is best-effort cleanup before the next cycle: stale
// consensus results are dropped so a transient fault cannot echo into
// later rounds.
func (e *Engine) attemptRecovery(err error) {
	if e.deps.Consensus != nil {
		e.deps.Consensus.Purge()
	}
	log.Printf("[cycle] recovery attempted after: %v", err)
}

func (e *Engine) recordResult(ctx context.Context, result optimize.CycleResult) {
	e.mu.Lock()
	e.history = append(e.history, result)
	if len(e.history) > HistoryLimit {
		e.history = e.history[len(e.history)-HistoryLimit:]
	}
	e.mu.Unlock()

	if e.deps.History != nil {
		if err := e.deps.History.Append(ctx, result); err != nil {
			log.Printf("[cycle] persist history: %v", err)
		}
	}
}

// History returns a copy of the bounded in-memory cycle history, oldest
// first.
func (e *Engine) History() []optimize.CycleResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]optimize.CycleResult, len(e.history))
	copy(out, e.history)
	return out
}

// Recent returns up to n most recent cycle results, newest first.
func (e *Engine) Recent(n int) []optimize.CycleResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n > len(e.history) {
		n = len(e.history)
	}
	out := make([]optimize.CycleResult, 0, n)
	for i := len(e.history) - 1; i >= len(e.history)-n; i-- {
		out = append(out, e.history[i])
	}
	return out
}
