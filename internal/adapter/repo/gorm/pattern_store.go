package gormrepo

import (
	"context"
	"time"

	"soncore/internal/adapter/repo/gorm/model"
	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"

	"gorm.io/gorm"
)

type PatternStore struct {
	db *gorm.DB
}

func NewPatternStore(db *gorm.DB) PatternStore {
	return PatternStore{db: db}
}

func (r PatternStore) HistoricalBaseline(ctx context.Context, query ports.PatternQuery) (optimize.KPISet, error) {
	db := getDBFromCtx(ctx, r.db)
	var rows []model.KPIBaseline
	q := db.WithContext(ctx)
	if query.WindowDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -query.WindowDays)
		q = q.Where("updated_at >= ?", cutoff)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make(optimize.KPISet, len(rows))
	for _, row := range rows {
		out[optimize.KPIKey(row.Metric)] = row.Value
	}
	return out, nil
}

func (r PatternStore) SimilarPatterns(ctx context.Context, query ports.PatternQuery) ([]optimize.Pattern, error) {
	if query.Kind == "" {
		query.Kind = optimize.PatternLearning
	}
	return r.find(ctx, query)
}

func (r PatternStore) LearningPatterns(ctx context.Context, query ports.PatternQuery) ([]optimize.Pattern, error) {
	query.Kind = optimize.PatternLearning
	return r.find(ctx, query)
}

func (r PatternStore) StoreLearningPattern(ctx context.Context, pattern optimize.Pattern) error {
	pattern.Kind = optimize.PatternLearning
	return r.save(ctx, pattern)
}

func (r PatternStore) StoreTemporalPatterns(ctx context.Context, patterns []optimize.Pattern) error {
	for _, p := range patterns {
		p.Kind = optimize.PatternTemporal
		if err := r.save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r PatternStore) StoreRecursivePattern(ctx context.Context, pattern optimize.Pattern) error {
	pattern.Kind = optimize.PatternRecursive
	return r.save(ctx, pattern)
}

func (r PatternStore) save(ctx context.Context, pattern optimize.Pattern) error {
	m := model.Pattern{
		ID:                    pattern.ID,
		Kind:                  string(pattern.Kind),
		Metric:                string(pattern.Metric),
		Target:                pattern.Target,
		Description:           pattern.Description,
		OptimizationPotential: pattern.OptimizationPotential,
		Effectiveness:         pattern.Effectiveness,
		Impact:                pattern.Impact,
		ObservedAt:            pattern.ObservedAt,
	}
	return getDBFromCtx(ctx, r.db).WithContext(ctx).Create(&m).Error
}

func (r PatternStore) find(ctx context.Context, query ports.PatternQuery) ([]optimize.Pattern, error) {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx).Order("observed_at DESC")
	if query.Kind != "" {
		db = db.Where("kind = ?", string(query.Kind))
	}
	if query.Metric != "" {
		db = db.Where("metric = ?", string(query.Metric))
	}
	if query.WindowDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -query.WindowDays)
		db = db.Where("observed_at >= ?", cutoff)
	}
	if query.Limit > 0 {
		db = db.Limit(query.Limit)
	}
	var rows []model.Pattern
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]optimize.Pattern, 0, len(rows))
	for _, m := range rows {
		out = append(out, optimize.Pattern{
			ID:                    m.ID,
			Kind:                  optimize.PatternKind(m.Kind),
			Metric:                optimize.KPIKey(m.Metric),
			Target:                m.Target,
			Description:           m.Description,
			OptimizationPotential: m.OptimizationPotential,
			Effectiveness:         m.Effectiveness,
			Impact:                m.Impact,
			ObservedAt:            m.ObservedAt,
		})
	}
	return out, nil
}
