package model

import "time"

// Pattern is the patterns table row. One row per mined observation.
type Pattern struct {
	ID                    string `gorm:"primaryKey"`
	Kind                  string `gorm:"index:idx_patterns_kind_metric"`
	Metric                string `gorm:"index:idx_patterns_kind_metric"`
	Target                string
	Description           string
	OptimizationPotential float64
	Effectiveness         float64
	Impact                float64
	ObservedAt            time.Time
}

func (Pattern) TableName() string { return "patterns" }

// KPIBaseline holds the rolling per-metric baseline values.
type KPIBaseline struct {
	Metric    string `gorm:"primaryKey"`
	Value     float64
	UpdatedAt time.Time
}

func (KPIBaseline) TableName() string { return "kpi_baselines" }

// CycleRecord is the cycle_results table row. The full result, votes
// and all, lives in the jsonb payload; the scalar columns exist so
// history queries never have to unmarshal it.
type CycleRecord struct {
	CycleID   string `gorm:"primaryKey"`
	Success   bool
	Degraded  bool
	StartedAt time.Time `gorm:"index"`
	EndedAt   time.Time
	Payload   []byte `gorm:"type:jsonb"`
}

func (CycleRecord) TableName() string { return "cycle_results" }
