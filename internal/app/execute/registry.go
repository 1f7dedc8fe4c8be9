package execute

import (
	"context"
	"time"

	"soncore/internal/domain/optimize"
)

// Result is what a handler must hand back: a completion timestamp and
// an explicit success flag. A zero timestamp marks the result invalid
// and the attempt failed.
type Result struct {
	CompletedAt time.Time
	Success     bool
	Detail      map[string]any
}

// Handler performs one action against the managed infrastructure and,
// when asked, the compensating rollback for it.
type Handler interface {
	Execute(ctx context.Context, action optimize.Action) (Result, error)
	Rollback(ctx context.Context, action optimize.Action) error
}

func handlerRegistry() map[optimize.ActionType]Handler {
	return map[optimize.ActionType]Handler{
		optimize.ActionPowerAdjustment: powerAdjustmentHandler{},
		optimize.ActionAntennaTilt:     antennaTiltHandler{},
		optimize.ActionHandoverTuning:  handoverTuningHandler{},
		optimize.ActionCarrierShutdown: carrierShutdownHandler{},
		optimize.ActionCellSleep:       cellSleepHandler{},
		optimize.ActionLoadBalance:     loadBalanceHandler{},
	}
}
