package ports

import (
	"context"

	"soncore/internal/domain/optimize"
)

// NetworkStateProvider samples the current KPI values of the managed
// network. Implementations sit in front of the real telemetry plane.
type NetworkStateProvider interface {
	CurrentKPIs(ctx context.Context) (optimize.KPISet, error)
}
