package cycle

import (
	"errors"

	"soncore/internal/app/consensus"
	"soncore/internal/app/execute"
	"soncore/internal/domain/optimize"
)

// Failure classes stamped on a failed CycleResult.
const (
	ClassInFlight          = "cycle_in_flight"
	ClassConsensusRejected = "consensus_rejected"
	ClassTemporalAccuracy  = "temporal_accuracy"
	ClassValidation        = "validation"
	ClassInfrastructure    = "infrastructure"
)

// classify maps a phase error onto the failure taxonomy: class name,
// root cause, qualitative impact and a fixed menu of recovery
// recommendations per class.
func classify(err error) optimize.FailureReport {
	report := optimize.FailureReport{
		Message:           err.Error(),
		RecoveryAttempted: true,
	}

	switch {
	case errors.Is(err, ErrCycleInFlight):
		report.Class = ClassInFlight
		report.RootCause = "another cycle was still running on this engine"
		report.Impact = "none: the running cycle is unaffected and no new cycle started"
		report.Recommendations = []string{
			"wait for the in-flight cycle to finish before starting another",
			"run overlapping cycles on separate engine instances",
		}
		report.RecoveryAttempted = false

	case errors.Is(err, ErrConsensusRejected):
		report.Class = ClassConsensusRejected
		report.RootCause = "the voting panel did not approve the top proposal"
		report.Impact = "none: rejection is a valid outcome, no change was applied"
		report.Recommendations = []string{
			"review the proposal quality inputs",
			"revisit the configured consensus threshold",
			"re-run the cycle after network conditions change",
		}
		report.RecoveryAttempted = false

	case errors.Is(err, ErrTemporalConfidence):
		report.Class = ClassTemporalAccuracy
		report.RootCause = "temporal reasoning returned a result below the confidence floor"
		report.Impact = "cycle aborted before any change was applied"
		report.Recommendations = []string{
			"enable the fallback policy to continue on degraded analyses",
			"lower the requested expansion factor",
			"check the temporal reasoning collaborator's health",
		}

	case errors.Is(err, consensus.ErrNoProposals),
		errors.Is(err, execute.ErrEmptyBatch),
		errors.Is(err, execute.ErrBatchTooLarge):
		report.Class = ClassValidation
		report.RootCause = "the request violated an input invariant"
		report.Impact = "cycle aborted before any change was applied"
		report.Recommendations = []string{
			"pre-shard action batches to the configured concurrency cap",
			"verify proposal synthesis produced candidates",
		}

	default:
		report.Class = ClassInfrastructure
		report.RootCause = "an external collaborator or the execution plane failed"
		report.Impact = "cycle aborted; the network keeps its previous configuration"
		report.Recommendations = []string{
			"check pattern store and telemetry connectivity",
			"inspect collaborator logs for the failing call",
			"retry on the next scheduled cycle",
		}
	}
	return report
}
