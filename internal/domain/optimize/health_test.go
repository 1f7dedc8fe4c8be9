package optimize

import "testing"

func TestDetectAnomalies_PerMetricThresholds(t *testing.T) {
	baseline := KPISet{KPIEnergy: 100, KPIMobility: 100, KPICoverage: 100, KPICapacity: 100}
	current := KPISet{
		KPIEnergy:   118, // +18% > 15% tolerance
		KPIMobility: 115, // +15% within 20% tolerance
		KPICoverage: 89,  // -11% > 10% tolerance
		KPICapacity: 160, // +60% > 25% tolerance, high severity
	}

	anomalies := DetectAnomalies(current, baseline)
	if len(anomalies) != 3 {
		t.Fatalf("anomaly count = %d, want 3 (%+v)", len(anomalies), anomalies)
	}

	byMetric := map[KPIKey]Anomaly{}
	for _, a := range anomalies {
		byMetric[a.Metric] = a
	}
	if _, flagged := byMetric[KPIMobility]; flagged {
		t.Fatal("mobility within tolerance must not be flagged")
	}
	if got := byMetric[KPIEnergy].Severity; got != SeverityMedium {
		t.Fatalf("energy severity = %s, want medium", got)
	}
	if got := byMetric[KPICapacity].Severity; got != SeverityHigh {
		t.Fatalf("capacity severity = %s, want high", got)
	}
}

func TestDetectAnomalies_SkipsMetricsWithoutBaseline(t *testing.T) {
	current := KPISet{KPIEnergy: 118}
	if got := DetectAnomalies(current, KPISet{}); len(got) != 0 {
		t.Fatalf("anomalies without baseline = %+v, want none", got)
	}
}

func TestHealthScore_HealthyBand(t *testing.T) {
	baseline := KPISet{KPIEnergy: 100, KPICoverage: 100}
	current := KPISet{KPIEnergy: 100, KPICoverage: 110}
	if got := HealthScore(current, baseline); !almostEqual(got, 1.0) {
		t.Fatalf("health in band = %v, want 1.0", got)
	}
}

func TestHealthScore_PenalizesOutOfBandRatios(t *testing.T) {
	baseline := KPISet{KPIEnergy: 100, KPICoverage: 100}
	current := KPISet{KPIEnergy: 50, KPICoverage: 150}
	// energy ratio 0.5 -> 0.5; coverage ratio 1.5 -> 2-1.5 = 0.5
	if got := HealthScore(current, baseline); !almostEqual(got, 0.5) {
		t.Fatalf("health = %v, want 0.5", got)
	}
}

func TestHealthScore_FailsClosed(t *testing.T) {
	if got := HealthScore(nil, KPISet{KPIEnergy: 100}); got != 0 {
		t.Fatalf("health with no KPI data = %v, want 0", got)
	}
	if got := HealthScore(KPISet{KPIEnergy: 100}, nil); got != 0 {
		t.Fatalf("health with no baseline overlap = %v, want 0", got)
	}
}

func TestHealthScore_NeverNegative(t *testing.T) {
	baseline := KPISet{KPICapacity: 100}
	current := KPISet{KPICapacity: 300} // ratio 3.0 -> 2-3 = -1, clamped to 0
	if got := HealthScore(current, baseline); got != 0 {
		t.Fatalf("health = %v, want clamped 0", got)
	}
}

func TestResourceUsage_AddCapsPerDimension(t *testing.T) {
	a := ResourceUsage{CPU: 0.7, Memory: 0.4, Network: 0.9}
	b := ResourceUsage{CPU: 0.6, Memory: 0.3, Network: 0.3}
	sum := a.Add(b)
	if sum.CPU != 1.0 {
		t.Fatalf("cpu = %v, want capped 1.0", sum.CPU)
	}
	if !almostEqual(sum.Memory, 0.7) {
		t.Fatalf("memory = %v, want 0.7", sum.Memory)
	}
	if sum.Network != 1.0 {
		t.Fatalf("network = %v, want capped 1.0", sum.Network)
	}
}

func TestCostOf_UnknownTypeUsesGenericProfile(t *testing.T) {
	got := CostOf(ActionType("firmware_upgrade"))
	want := genericCostProfile.Base
	if !almostEqual(got.CPU, want.CPU*genericCostProfile.Complexity) {
		t.Fatalf("generic cpu cost = %v, want %v", got.CPU, want.CPU)
	}
}

func TestCostOf_ScalesByComplexity(t *testing.T) {
	profile := DefaultActionCostProfiles()[ActionLoadBalance]
	got := CostOf(ActionLoadBalance)
	if !almostEqual(got.CPU, profile.Base.CPU*profile.Complexity) {
		t.Fatalf("load_balance cpu = %v, want %v", got.CPU, profile.Base.CPU*profile.Complexity)
	}
}
