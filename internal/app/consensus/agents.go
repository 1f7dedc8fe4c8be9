package consensus

import "soncore/internal/domain/optimize"

// DefaultPanel is the fixed panel of domain-specialist agents used when
// the caller supplies none.
func DefaultPanel() []optimize.VotingAgent {
	return []optimize.VotingAgent{
		{
			ID:           "energy-specialist",
			Specialty:    optimize.ProposalEnergyOptimization,
			Capabilities: []string{"energy", "power", "carrier", "sleep"},
			Weight:       1.2,
		},
		{
			ID:           "mobility-specialist",
			Specialty:    optimize.ProposalMobilityOptimization,
			Capabilities: []string{"mobility", "handover", "neighbor"},
			Weight:       1.0,
		},
		{
			ID:           "coverage-specialist",
			Specialty:    optimize.ProposalCoverageOptimization,
			Capabilities: []string{"coverage", "tilt", "antenna"},
			Weight:       1.1,
		},
		{
			ID:           "capacity-specialist",
			Specialty:    optimize.ProposalCapacityOptimization,
			Capabilities: []string{"capacity", "load", "balance"},
			Weight:       1.0,
		},
		{
			ID:           "reliability-specialist",
			Specialty:    "",
			Capabilities: []string{"optimization", "rollback", "stability"},
			Weight:       0.9,
		},
	}
}
