package ports

// CycleMetrics counts cycle outcomes for the ops KPI surface.
type CycleMetrics interface {
	RecordSuccess(degraded bool)
	RecordFailure(errorClass string)
}
