package optimize

// ActionCostProfile is the fixed resource footprint of one action type:
// a base cpu/memory/network cost scaled by a per-type complexity
// multiplier.
type ActionCostProfile struct {
	Base       ResourceUsage
	Complexity float64
}

func DefaultActionCostProfiles() map[ActionType]ActionCostProfile {
	return map[ActionType]ActionCostProfile{
		ActionPowerAdjustment: {
			Base:       ResourceUsage{CPU: 0.04, Memory: 0.02, Network: 0.03},
			Complexity: 1.0,
		},
		ActionAntennaTilt: {
			Base:       ResourceUsage{CPU: 0.05, Memory: 0.02, Network: 0.04},
			Complexity: 1.2,
		},
		ActionHandoverTuning: {
			Base:       ResourceUsage{CPU: 0.06, Memory: 0.03, Network: 0.05},
			Complexity: 1.4,
		},
		ActionCarrierShutdown: {
			Base:       ResourceUsage{CPU: 0.03, Memory: 0.02, Network: 0.02},
			Complexity: 0.8,
		},
		ActionCellSleep: {
			Base:       ResourceUsage{CPU: 0.02, Memory: 0.01, Network: 0.02},
			Complexity: 0.6,
		},
		ActionLoadBalance: {
			Base:       ResourceUsage{CPU: 0.08, Memory: 0.04, Network: 0.06},
			Complexity: 1.6,
		},
	}
}

// genericCostProfile covers action types without a dedicated profile.
var genericCostProfile = ActionCostProfile{
	Base:       ResourceUsage{CPU: 0.05, Memory: 0.03, Network: 0.03},
	Complexity: 1.0,
}

// CostOf returns the scaled resource cost of one action type.
func CostOf(t ActionType) ResourceUsage {
	profile, ok := DefaultActionCostProfiles()[t]
	if !ok {
		profile = genericCostProfile
	}
	return ResourceUsage{
		CPU:     profile.Base.CPU * profile.Complexity,
		Memory:  profile.Base.Memory * profile.Complexity,
		Network: profile.Base.Network * profile.Complexity,
	}
}

// Add sums two samples element-wise, capping each dimension at 1.0.
func (r ResourceUsage) Add(other ResourceUsage) ResourceUsage {
	return ResourceUsage{
		CPU:     capUnit(r.CPU + other.CPU),
		Memory:  capUnit(r.Memory + other.Memory),
		Network: capUnit(r.Network + other.Network),
	}
}

// Efficiency is the headroom left across dimensions, used as the
// resource-efficiency figure reported to the evolution tracker.
func (r ResourceUsage) Efficiency() float64 {
	used := (r.CPU + r.Memory + r.Network) / 3
	return capUnit(1 - used)
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
