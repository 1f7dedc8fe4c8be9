package optimize

import "time"

// KPIKey names one network key-performance-indicator family.
type KPIKey string

const (
	KPIEnergy   KPIKey = "energy"
	KPIMobility KPIKey = "mobility"
	KPICoverage KPIKey = "coverage"
	KPICapacity KPIKey = "capacity"
)

// KPISet maps KPI keys to their current (or baseline) scalar values.
type KPISet map[KPIKey]float64

type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Anomaly records one KPI deviating from its baseline beyond the
// per-metric tolerance.
type Anomaly struct {
	Metric    KPIKey   `json:"metric"`
	Current   float64  `json:"current"`
	Baseline  float64  `json:"baseline"`
	Deviation float64  `json:"deviation"`
	Severity  Severity `json:"severity"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type ProposalType string

const (
	ProposalEnergyOptimization   ProposalType = "energy_optimization"
	ProposalMobilityOptimization ProposalType = "mobility_optimization"
	ProposalCoverageOptimization ProposalType = "coverage_optimization"
	ProposalCapacityOptimization ProposalType = "capacity_optimization"
)

type ActionType string

const (
	ActionPowerAdjustment ActionType = "power_adjustment"
	ActionAntennaTilt     ActionType = "antenna_tilt"
	ActionHandoverTuning  ActionType = "handover_tuning"
	ActionCarrierShutdown ActionType = "carrier_shutdown"
	ActionCellSleep       ActionType = "cell_sleep"
	ActionLoadBalance     ActionType = "load_balance"
)

// ActionParams carries the per-type parameters of an action. Only the
// fields relevant to the action's type are set.
type ActionParams struct {
	PowerDeltaDB    float64 `json:"power_delta_db,omitempty"`
	TiltDegrees     float64 `json:"tilt_degrees,omitempty"`
	HysteresisDB    float64 `json:"hysteresis_db,omitempty"`
	TimeToTriggerMs int     `json:"time_to_trigger_ms,omitempty"`
	CarrierID       string  `json:"carrier_id,omitempty"`
	SleepMinutes    int     `json:"sleep_minutes,omitempty"`
	TargetLoadPct   float64 `json:"target_load_pct,omitempty"`
	NeighborCellID  string  `json:"neighbor_cell_id,omitempty"`
}

// Action is an atomic unit of execution inside a proposal. Created by
// proposal synthesis, consumed exactly once by the executor, never
// mutated after creation.
type Action struct {
	ID                string       `json:"id"`
	Type              ActionType   `json:"type"`
	Target            string       `json:"target"`
	Params            ActionParams `json:"params"`
	RollbackSupported bool         `json:"rollback_supported"`
}

// Proposal is a candidate course of action for one cycle. Immutable
// once created.
type Proposal struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           ProposalType `json:"type"`
	Actions        []Action     `json:"actions"`
	ExpectedImpact float64      `json:"expected_impact"`
	Confidence     float64      `json:"confidence"`
	Priority       int          `json:"priority"`
	Risk           RiskLevel    `json:"risk"`
}

// Score is the ranking key used everywhere proposals are ordered.
func (p Proposal) Score() float64 {
	return p.ExpectedImpact * p.Confidence
}

type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
	VerdictAbstain Verdict = "abstain"
)

// Vote is one agent's judgment on one proposal. Votes are ephemeral:
// only the aggregate counts survive into the consensus result.
type Vote struct {
	ProposalID string    `json:"proposal_id"`
	AgentID    string    `json:"agent_id"`
	Verdict    Verdict   `json:"verdict"`
	Weight     float64   `json:"weight"`
	Confidence float64   `json:"confidence"`
	CastAt     time.Time `json:"cast_at"`
}

// VotingAgent is one member of the consensus panel.
type VotingAgent struct {
	ID           string       `json:"id"`
	Specialty    ProposalType `json:"specialty"`
	Capabilities []string     `json:"capabilities"`
	Weight       float64      `json:"weight"`
}

// ConsensusResult is the aggregate outcome of voting on one proposal.
type ConsensusResult struct {
	ProposalID         string  `json:"proposal_id"`
	TotalVotes         int     `json:"total_votes"`
	Approvals          int     `json:"approvals"`
	Rejections         int     `json:"rejections"`
	Abstentions        int     `json:"abstentions"`
	ApprovalPercentage float64 `json:"approval_percentage"`
	Threshold          float64 `json:"threshold"`
	ConsensusReached   bool    `json:"consensus_reached"`
}

// ResourceUsage samples cpu/memory/network utilization, each in [0,1].
type ResourceUsage struct {
	CPU     float64 `json:"cpu"`
	Memory  float64 `json:"memory"`
	Network float64 `json:"network"`
}

// ExecutionResult is the per-action outcome of one executor run.
type ExecutionResult struct {
	ActionID          string         `json:"action_id"`
	ActionType        ActionType     `json:"action_type"`
	Target            string         `json:"target"`
	Success           bool           `json:"success"`
	Attempts          int            `json:"attempts"`
	Elapsed           time.Duration  `json:"elapsed"`
	Payload           map[string]any `json:"payload,omitempty"`
	Error             string         `json:"error,omitempty"`
	RollbackAttempted bool           `json:"rollback_attempted"`
	RollbackSucceeded bool           `json:"rollback_succeeded"`
	Resources         ResourceUsage  `json:"resources"`
}

// ExecutionSummary aggregates one batch.
type ExecutionSummary struct {
	Successful   int               `json:"successful"`
	Failed       int               `json:"failed"`
	TotalElapsed time.Duration     `json:"total_elapsed"`
	Resources    ResourceUsage     `json:"resources"`
	Results      []ExecutionResult `json:"results"`
}

type PatternKind string

const (
	PatternLearning  PatternKind = "learning"
	PatternTemporal  PatternKind = "temporal"
	PatternRecursive PatternKind = "recursive"
)

// Pattern is an observation mined from past cycles: which kind of
// change moved which KPI, and how well it worked.
type Pattern struct {
	ID                    string      `json:"id"`
	Kind                  PatternKind `json:"kind"`
	Metric                KPIKey      `json:"metric"`
	Target                string      `json:"target,omitempty"`
	Description           string      `json:"description"`
	OptimizationPotential float64     `json:"optimization_potential"`
	Effectiveness         float64     `json:"effectiveness"`
	Impact                float64     `json:"impact"`
	ObservedAt            time.Time   `json:"observed_at"`
}

// Prediction is a forward-looking KPI estimate from temporal analysis.
type Prediction struct {
	Metric     KPIKey        `json:"metric"`
	Horizon    time.Duration `json:"horizon"`
	Value      float64       `json:"value"`
	Confidence float64       `json:"confidence"`
}

// Insight is a distilled learning produced by one cycle.
type Insight struct {
	Kind          string  `json:"kind"`
	Pattern       string  `json:"pattern"`
	Effectiveness float64 `json:"effectiveness"`
	Impact        float64 `json:"impact"`
	Detail        string  `json:"detail,omitempty"`
}

// Assessment is the StateAssessment phase output: the measured network
// state against its baseline.
type Assessment struct {
	Current         KPISet    `json:"current"`
	Baseline        KPISet    `json:"baseline"`
	SimilarPatterns []Pattern `json:"similar_patterns,omitempty"`
	Anomalies       []Anomaly `json:"anomalies,omitempty"`
	HealthScore     float64   `json:"health_score"`
}

// TemporalAnalysis is the temporal-reasoning collaborator's output,
// possibly a degraded substitute when the fallback policy kicked in.
type TemporalAnalysis struct {
	Accuracy        float64      `json:"accuracy"`
	Confidence      float64      `json:"confidence"`
	ExpansionFactor float64      `json:"expansion_factor"`
	Patterns        []Pattern    `json:"patterns,omitempty"`
	Insights        []Insight    `json:"insights,omitempty"`
	Predictions     []Prediction `json:"predictions,omitempty"`
	Degraded        bool         `json:"degraded"`
}

// FailureReport classifies a failed cycle for the audit trail.
type FailureReport struct {
	Message           string   `json:"message"`
	Class             string   `json:"class"`
	RootCause         string   `json:"root_cause"`
	Impact            string   `json:"impact"`
	Recommendations   []string `json:"recommendations,omitempty"`
	RecoveryAttempted bool     `json:"recovery_attempted"`
}

// CycleResult is the terminal record of one optimization cycle.
// Appended-only while the cycle runs, immutable once stored.
type CycleResult struct {
	CycleID   string            `json:"cycle_id"`
	Success   bool              `json:"success"`
	Degraded  bool              `json:"degraded"`
	StartedAt time.Time         `json:"started_at"`
	EndedAt   time.Time         `json:"ended_at"`
	Proposals []Proposal        `json:"proposals,omitempty"`
	Consensus *ConsensusResult  `json:"consensus,omitempty"`
	Execution *ExecutionSummary `json:"execution,omitempty"`
	Insights  []Insight         `json:"insights,omitempty"`
	Failure   *FailureReport    `json:"failure,omitempty"`
}

// Elapsed is the cycle wall-clock duration.
func (c CycleResult) Elapsed() time.Duration {
	return c.EndedAt.Sub(c.StartedAt)
}
