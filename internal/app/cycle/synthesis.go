package cycle

import (
	"context"
	"fmt"
	"sort"

	"soncore/internal/domain/optimize"

	"github.com/google/uuid"
)

type metaResult struct {
	Confidence float64
	Multiplier float64
	Bonus      []optimize.Proposal
}

// metaOptimize inspects recent strategy effectiveness and turns strong
// strategies into bonus proposals. Always non-fatal: with no usable
// history it returns a neutral no-op result.
func (e *Engine) metaOptimize(state *cycleState) {
	state.meta = metaResult{Multiplier: 1.0}

	recent := e.Recent(20)
	if len(recent) == 0 {
		return
	}

	wins := map[optimize.ProposalType]int{}
	runs := map[optimize.ProposalType]int{}
	for _, cycle := range recent {
		if cycle.Consensus == nil || len(cycle.Proposals) == 0 {
			continue
		}
		for _, p := range cycle.Proposals {
			if p.ID != cycle.Consensus.ProposalID {
				continue
			}
			runs[p.Type]++
			if cycle.Success {
				wins[p.Type]++
			}
		}
	}

	var bestType optimize.ProposalType
	bestEffectiveness := 0.0
	for proposalType, total := range runs {
		if total < 2 {
			continue
		}
		effectiveness := float64(wins[proposalType]) / float64(total)
		if effectiveness > bestEffectiveness {
			bestEffectiveness = effectiveness
			bestType = proposalType
		}
	}
	if bestType == "" {
		return
	}

	state.meta = metaResult{
		Confidence: bestEffectiveness,
		Multiplier: 1.05,
		Bonus: []optimize.Proposal{
			buildProposal(metricFor(bestType), "repeat proven strategy", 0.5, bestEffectiveness, 5, optimize.RiskLow, "cluster-a"),
		},
	}
}

// synthesizeDecision merges temporal- and pattern-derived proposals
// with any meta bonus, applies the meta adjustment when its confidence
// clears the floor, ranks by impact x confidence and keeps the top K.
func (e *Engine) synthesizeDecision(state *cycleState) {
	proposals := make([]optimize.Proposal, 0)
	proposals = append(proposals, proposalsFromTemporal(state.temporal)...)
	proposals = append(proposals, proposalsFromPatterns(state.cognitive)...)
	proposals = append(proposals, state.meta.Bonus...)

	if state.meta.Confidence > optimize.MetaConfidenceFloor {
		for i := range proposals {
			proposals[i].Confidence = capUnit(proposals[i].Confidence * state.meta.Multiplier)
			proposals[i].ExpectedImpact = capUnit(proposals[i].ExpectedImpact * state.meta.Multiplier)
		}
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].Score() > proposals[j].Score()
	})
	if len(proposals) > optimize.MaxProposalsPerCycle {
		proposals = proposals[:optimize.MaxProposalsPerCycle]
	}
	state.proposals = proposals
}

// buildConsensus hands the ranked proposals to the consensus builder.
// A rejection fails the cycle and is explicitly excluded from the
// recovery path: it is a valid outcome, not a transient fault.
func (e *Engine) buildConsensus(state *cycleState) error {
	decision, err := e.deps.Consensus.Decide(state.proposals)
	if err != nil {
		return fmt.Errorf("consensus building: %w", err)
	}
	state.decision = decision
	if !decision.Approved {
		return fmt.Errorf("%w: %s", ErrConsensusRejected, decision.Reason)
	}
	return nil
}

// executeActions runs the approved proposal's batch and reconciles the
// counts so successful+failed always equals the batch size.
func (e *Engine) executeActions(ctx context.Context, state *cycleState) error {
	actions := state.decision.Winning.Actions
	summary, err := e.deps.Executor.ExecuteBatch(ctx, actions)
	if err != nil {
		return fmt.Errorf("action execution: %w", err)
	}
	if summary.Successful+summary.Failed != len(actions) {
		failed := len(actions) - summary.Successful
		if failed < 0 {
			failed = 0
			summary.Successful = len(actions)
		}
		summary.Failed = failed
	}
	state.execution = summary
	return nil
}

func proposalsFromTemporal(analysis optimize.TemporalAnalysis) []optimize.Proposal {
	proposals := make([]optimize.Proposal, 0, len(analysis.Patterns))
	for _, pattern := range analysis.Patterns {
		impact := pattern.Impact
		if impact == 0 {
			impact = pattern.OptimizationPotential
		}
		priority := int(pattern.OptimizationPotential * optimize.MaxPriorityRank)
		proposals = append(proposals, buildProposal(
			pattern.Metric,
			pattern.Description,
			impact,
			analysis.Confidence,
			priority,
			riskFor(impact),
			pattern.Target,
		))
	}
	return proposals
}

func proposalsFromPatterns(patterns []optimize.Pattern) []optimize.Proposal {
	proposals := make([]optimize.Proposal, 0, len(patterns))
	for _, pattern := range patterns {
		confidence := pattern.Effectiveness
		if confidence == 0 {
			confidence = pattern.OptimizationPotential
		}
		priority := int(pattern.OptimizationPotential * optimize.MaxPriorityRank)
		proposals = append(proposals, buildProposal(
			pattern.Metric,
			pattern.Description,
			pattern.OptimizationPotential,
			confidence,
			priority,
			riskFor(pattern.OptimizationPotential),
			pattern.Target,
		))
	}
	return proposals
}

// buildProposal assembles a typed proposal with the action bundle that
// moves the given KPI.
func buildProposal(metric optimize.KPIKey, detail string, impact, confidence float64, priority int, risk optimize.RiskLevel, target string) optimize.Proposal {
	if target == "" {
		target = "cluster-a"
	}
	if priority < 1 {
		priority = 1
	}
	if priority > optimize.MaxPriorityRank {
		priority = optimize.MaxPriorityRank
	}

	var proposalType optimize.ProposalType
	var name string
	var actions []optimize.Action
	switch metric {
	case optimize.KPIEnergy:
		proposalType = optimize.ProposalEnergyOptimization
		name = "energy saver: " + detail
		actions = []optimize.Action{
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionCarrierShutdown,
				Target:            target,
				Params:            optimize.ActionParams{CarrierID: "carrier-2"},
				RollbackSupported: true,
			},
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionCellSleep,
				Target:            target,
				Params:            optimize.ActionParams{SleepMinutes: 45},
				RollbackSupported: true,
			},
		}
	case optimize.KPIMobility:
		proposalType = optimize.ProposalMobilityOptimization
		name = "mobility handover tuning: " + detail
		actions = []optimize.Action{
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionHandoverTuning,
				Target:            target,
				Params:            optimize.ActionParams{HysteresisDB: 2.0, TimeToTriggerMs: 320},
				RollbackSupported: true,
			},
		}
	case optimize.KPICoverage:
		proposalType = optimize.ProposalCoverageOptimization
		name = "coverage antenna tilt: " + detail
		actions = []optimize.Action{
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionAntennaTilt,
				Target:            target,
				Params:            optimize.ActionParams{TiltDegrees: -2},
				RollbackSupported: true,
			},
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionPowerAdjustment,
				Target:            target,
				Params:            optimize.ActionParams{PowerDeltaDB: 1.5},
				RollbackSupported: true,
			},
		}
	default:
		proposalType = optimize.ProposalCapacityOptimization
		name = "capacity load balance: " + detail
		actions = []optimize.Action{
			{
				ID:                uuid.New().String(),
				Type:              optimize.ActionLoadBalance,
				Target:            target,
				Params:            optimize.ActionParams{NeighborCellID: target + "-nb", TargetLoadPct: 65},
				RollbackSupported: false,
			},
		}
	}

	return optimize.Proposal{
		ID:             uuid.New().String(),
		Name:           name,
		Type:           proposalType,
		Actions:        actions,
		ExpectedImpact: capUnit(impact),
		Confidence:     capUnit(confidence),
		Priority:       priority,
		Risk:           risk,
	}
}

func metricFor(t optimize.ProposalType) optimize.KPIKey {
	switch t {
	case optimize.ProposalEnergyOptimization:
		return optimize.KPIEnergy
	case optimize.ProposalMobilityOptimization:
		return optimize.KPIMobility
	case optimize.ProposalCoverageOptimization:
		return optimize.KPICoverage
	default:
		return optimize.KPICapacity
	}
}

func riskFor(impact float64) optimize.RiskLevel {
	switch {
	case impact > 0.8:
		return optimize.RiskMedium
	default:
		return optimize.RiskLow
	}
}

func capUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
