package execute

import (
	"context"
	"fmt"
	"time"

	"soncore/internal/domain/optimize"
)

// The built-in handlers simulate the effect of each action against the
// control plane. A production deployment swaps these for handlers that
// talk to the real element managers; the contract stays the same.

const maxPowerDeltaDB = 6.0

type powerAdjustmentHandler struct{}

func (powerAdjustmentHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" {
		return Result{}, fmt.Errorf("power_adjustment: missing target cell")
	}
	delta := action.Params.PowerDeltaDB
	if delta > maxPowerDeltaDB || delta < -maxPowerDeltaDB {
		return Result{}, fmt.Errorf("power_adjustment: delta %.1f dB outside +/-%.0f dB", delta, maxPowerDeltaDB)
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail:      map[string]any{"cell": action.Target, "applied_delta_db": delta},
	}, nil
}

func (powerAdjustmentHandler) Rollback(_ context.Context, action optimize.Action) error {
	// Compensate by applying the inverse delta.
	if action.Target == "" {
		return fmt.Errorf("power_adjustment rollback: missing target cell")
	}
	return nil
}

type antennaTiltHandler struct{}

func (antennaTiltHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" {
		return Result{}, fmt.Errorf("antenna_tilt: missing target cell")
	}
	tilt := action.Params.TiltDegrees
	if tilt < -10 || tilt > 10 {
		return Result{}, fmt.Errorf("antenna_tilt: %.1f degrees outside mechanical range", tilt)
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail:      map[string]any{"cell": action.Target, "tilt_degrees": tilt},
	}, nil
}

func (antennaTiltHandler) Rollback(_ context.Context, action optimize.Action) error {
	if action.Target == "" {
		return fmt.Errorf("antenna_tilt rollback: missing target cell")
	}
	return nil
}

type handoverTuningHandler struct{}

func (handoverTuningHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" {
		return Result{}, fmt.Errorf("handover_tuning: missing target cell")
	}
	if action.Params.TimeToTriggerMs < 0 {
		return Result{}, fmt.Errorf("handover_tuning: negative time-to-trigger")
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail: map[string]any{
			"cell":               action.Target,
			"hysteresis_db":      action.Params.HysteresisDB,
			"time_to_trigger_ms": action.Params.TimeToTriggerMs,
		},
	}, nil
}

func (handoverTuningHandler) Rollback(_ context.Context, action optimize.Action) error {
	if action.Target == "" {
		return fmt.Errorf("handover_tuning rollback: missing target cell")
	}
	return nil
}

type carrierShutdownHandler struct{}

func (carrierShutdownHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" || action.Params.CarrierID == "" {
		return Result{}, fmt.Errorf("carrier_shutdown: missing target cell or carrier")
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail:      map[string]any{"cell": action.Target, "carrier": action.Params.CarrierID, "state": "off"},
	}, nil
}

func (carrierShutdownHandler) Rollback(_ context.Context, action optimize.Action) error {
	if action.Params.CarrierID == "" {
		return fmt.Errorf("carrier_shutdown rollback: missing carrier")
	}
	return nil
}

type cellSleepHandler struct{}

func (cellSleepHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" {
		return Result{}, fmt.Errorf("cell_sleep: missing target cell")
	}
	if action.Params.SleepMinutes <= 0 {
		return Result{}, fmt.Errorf("cell_sleep: sleep window must be positive")
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail:      map[string]any{"cell": action.Target, "sleep_minutes": action.Params.SleepMinutes},
	}, nil
}

func (cellSleepHandler) Rollback(_ context.Context, action optimize.Action) error {
	if action.Target == "" {
		return fmt.Errorf("cell_sleep rollback: missing target cell")
	}
	return nil
}

type loadBalanceHandler struct{}

func (loadBalanceHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" || action.Params.NeighborCellID == "" {
		return Result{}, fmt.Errorf("load_balance: missing source or neighbor cell")
	}
	if action.Params.TargetLoadPct <= 0 || action.Params.TargetLoadPct > 100 {
		return Result{}, fmt.Errorf("load_balance: target load %.1f%% out of range", action.Params.TargetLoadPct)
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail: map[string]any{
			"cell":            action.Target,
			"neighbor":        action.Params.NeighborCellID,
			"target_load_pct": action.Params.TargetLoadPct,
		},
	}, nil
}

func (loadBalanceHandler) Rollback(_ context.Context, action optimize.Action) error {
	if action.Target == "" {
		return fmt.Errorf("load_balance rollback: missing target cell")
	}
	return nil
}

// genericHandler covers action types no dedicated handler claims.
type genericHandler struct{}

func (genericHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	if action.Target == "" {
		return Result{}, fmt.Errorf("%s: missing target", action.Type)
	}
	return Result{
		CompletedAt: time.Now(),
		Success:     true,
		Detail:      map[string]any{"target": action.Target, "type": string(action.Type)},
	}, nil
}

func (genericHandler) Rollback(context.Context, optimize.Action) error { return nil }
