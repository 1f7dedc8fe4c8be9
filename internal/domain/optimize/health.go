package optimize

import "math"

// DetectAnomalies compares current KPI values against the baseline and
// returns one anomaly per metric whose relative deviation exceeds its
// tolerance. Metrics without a positive baseline are skipped.
func DetectAnomalies(current, baseline KPISet) []Anomaly {
	anomalies := make([]Anomaly, 0)
	for _, metric := range []KPIKey{KPIEnergy, KPIMobility, KPICoverage, KPICapacity} {
		value, ok := current[metric]
		if !ok {
			continue
		}
		base, ok := baseline[metric]
		if !ok || base <= 0 {
			continue
		}
		deviation := math.Abs(value-base) / base
		if deviation <= deviationThreshold(metric) {
			continue
		}
		severity := SeverityMedium
		if deviation > HighSeverityDeviation {
			severity = SeverityHigh
		}
		anomalies = append(anomalies, Anomaly{
			Metric:    metric,
			Current:   value,
			Baseline:  base,
			Deviation: deviation,
			Severity:  severity,
		})
	}
	return anomalies
}

// HealthScore condenses the KPI set into one scalar in [0,1]. Each KPI
// with a known baseline contributes a per-metric score: 1.0 inside the
// healthy ratio band, scaled down multiplicatively by the ratio below
// the band and by (2-ratio) above it. Scores average across metrics.
// No KPI data means health 0 (fails closed).
func HealthScore(current, baseline KPISet) float64 {
	if len(current) == 0 {
		return 0
	}
	sum := 0.0
	n := 0
	for metric, value := range current {
		base, ok := baseline[metric]
		if !ok || base <= 0 {
			continue
		}
		ratio := value / base
		score := 1.0
		if ratio < HealthyRatioFloor {
			score *= ratio
		} else if ratio > HealthyRatioCeiling {
			score *= 2 - ratio
		}
		if score < 0 {
			score = 0
		}
		sum += score
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
