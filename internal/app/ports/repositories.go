package ports

import (
	"context"

	"soncore/internal/domain/optimize"
)

// PatternQuery narrows pattern lookups. Zero values mean "no filter".
type PatternQuery struct {
	Kind       optimize.PatternKind
	Metric     optimize.KPIKey
	WindowDays int
	Limit      int
}

// PatternStore is the external store of historical optimization
// patterns and KPI baselines. The core only consumes this narrow
// surface; the storage engine behind it is an adapter concern.
type PatternStore interface {
	HistoricalBaseline(ctx context.Context, query PatternQuery) (optimize.KPISet, error)
	SimilarPatterns(ctx context.Context, query PatternQuery) ([]optimize.Pattern, error)
	LearningPatterns(ctx context.Context, query PatternQuery) ([]optimize.Pattern, error)
	StoreLearningPattern(ctx context.Context, pattern optimize.Pattern) error
	StoreTemporalPatterns(ctx context.Context, patterns []optimize.Pattern) error
	StoreRecursivePattern(ctx context.Context, pattern optimize.Pattern) error
}

// CycleHistoryRepository persists terminal cycle records for audit.
type CycleHistoryRepository interface {
	Append(ctx context.Context, result optimize.CycleResult) error
	ListRecent(ctx context.Context, limit int) ([]optimize.CycleResult, error)
	Latest(ctx context.Context) (optimize.CycleResult, error)
}
