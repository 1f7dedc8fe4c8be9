package memory

import (
	"context"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

type PatternStore struct {
	store *Store
}

func NewPatternStore(store *Store) PatternStore {
	return PatternStore{store: store}
}

func (r PatternStore) HistoricalBaseline(_ context.Context, _ ports.PatternQuery) (optimize.KPISet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if len(r.store.baseline) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make(optimize.KPISet, len(r.store.baseline))
	for k, v := range r.store.baseline {
		out[k] = v
	}
	return out, nil
}

func (r PatternStore) SimilarPatterns(_ context.Context, query ports.PatternQuery) ([]optimize.Pattern, error) {
	return r.filter(optimize.PatternLearning, query), nil
}

func (r PatternStore) LearningPatterns(_ context.Context, query ports.PatternQuery) ([]optimize.Pattern, error) {
	return r.filter(optimize.PatternLearning, query), nil
}

func (r PatternStore) StoreLearningPattern(_ context.Context, pattern optimize.Pattern) error {
	pattern.Kind = optimize.PatternLearning
	r.append(pattern)
	return nil
}

func (r PatternStore) StoreTemporalPatterns(_ context.Context, patterns []optimize.Pattern) error {
	for _, p := range patterns {
		p.Kind = optimize.PatternTemporal
		r.append(p)
	}
	return nil
}

func (r PatternStore) StoreRecursivePattern(_ context.Context, pattern optimize.Pattern) error {
	pattern.Kind = optimize.PatternRecursive
	r.append(pattern)
	return nil
}

func (r PatternStore) append(pattern optimize.Pattern) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.patterns[pattern.Kind] = append(r.store.patterns[pattern.Kind], pattern)
}

func (r PatternStore) filter(kind optimize.PatternKind, query ports.PatternQuery) []optimize.Pattern {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if query.Kind != "" {
		kind = query.Kind
	}
	var out []optimize.Pattern
	for _, p := range r.store.patterns[kind] {
		if query.Metric != "" && p.Metric != query.Metric {
			continue
		}
		out = append(out, p)
	}
	// Newest first, so a Limit keeps the most recent observations.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if query.Limit > 0 && len(out) > query.Limit {
		out = out[:query.Limit]
	}
	return out
}
