package optimize

// Single home for the numeric policy knobs of the optimization domain.
// Changing a value here changes behavior everywhere; nothing else
// hardcodes these numbers.

const (
	// Per-metric relative deviation tolerated before a KPI is flagged
	// anomalous.
	EnergyDeviationThreshold   = 0.15
	MobilityDeviationThreshold = 0.20
	CoverageDeviationThreshold = 0.10
	CapacityDeviationThreshold = 0.25

	// Deviations above this are severity=high regardless of metric.
	HighSeverityDeviation = 0.30

	// KPI ratio band considered healthy in the system-health score.
	HealthyRatioFloor   = 0.8
	HealthyRatioCeiling = 1.2

	// Quality-score risk penalties.
	HighRiskPenalty   = 0.2
	MediumRiskPenalty = 0.1

	// Single-proposal fast-path approval floor.
	AutoApproveQuality = 0.6

	// Vote derivation cutoffs over compatibility x quality.
	VoteApproveScore = 0.8
	VoteRejectScore  = 0.4

	// Proposal priority ranks run 1..MaxPriorityRank.
	MaxPriorityRank = 10

	// DecisionSynthesis keeps only the top K ranked proposals.
	MaxProposalsPerCycle = 10

	// Cognitive patterns below this optimization potential are ignored.
	MinPatternPotential = 0.7

	// Temporal analyses below this confidence are treated as failed.
	TemporalConfidenceFloor = 0.95

	// Degraded substitute analysis used when the fallback policy fires.
	DegradedExpansionFactor = 1.5
	DegradedConfidence      = 0.7

	// Meta-optimization adjustments apply only above this confidence.
	MetaConfidenceFloor = 0.8
)

func deviationThreshold(metric KPIKey) float64 {
	switch metric {
	case KPIEnergy:
		return EnergyDeviationThreshold
	case KPIMobility:
		return MobilityDeviationThreshold
	case KPICoverage:
		return CoverageDeviationThreshold
	case KPICapacity:
		return CapacityDeviationThreshold
	default:
		return MobilityDeviationThreshold
	}
}
