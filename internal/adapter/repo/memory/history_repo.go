package memory

import (
	"context"

	"soncore/internal/app/ports"
	"soncore/internal/domain/optimize"
)

type CycleHistoryRepo struct {
	store *Store
}

func NewCycleHistoryRepo(store *Store) CycleHistoryRepo {
	return CycleHistoryRepo{store: store}
}

func (r CycleHistoryRepo) Append(_ context.Context, result optimize.CycleResult) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.history = append(r.store.history, result)
	return nil
}

func (r CycleHistoryRepo) ListRecent(_ context.Context, limit int) ([]optimize.CycleResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	n := len(r.store.history)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]optimize.CycleResult, 0, n)
	for i := len(r.store.history) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.store.history[i])
	}
	return out, nil
}

func (r CycleHistoryRepo) Latest(_ context.Context) (optimize.CycleResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if len(r.store.history) == 0 {
		return optimize.CycleResult{}, ports.ErrNotFound
	}
	return r.store.history[len(r.store.history)-1], nil
}
