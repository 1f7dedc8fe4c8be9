package inmemory

import "sync"

type Snapshot struct {
	CycleTotal    uint64            `json:"cycle_total"`
	CycleSuccess  uint64            `json:"cycle_success"`
	CycleDegraded uint64            `json:"cycle_degraded"`
	CycleFailure  uint64            `json:"cycle_failure"`
	ByErrorClass  map[string]uint64 `json:"by_error_class"`
}

type Recorder struct {
	mu       sync.Mutex
	success  uint64
	degraded uint64
	failure  uint64
	byClass  map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byClass: map[string]uint64{},
	}
}

func (r *Recorder) RecordSuccess(degraded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success++
	if degraded {
		r.degraded++
	}
}

func (r *Recorder) RecordFailure(errorClass string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
	r.byClass[errorClass]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		CycleSuccess:  r.success,
		CycleDegraded: r.degraded,
		CycleFailure:  r.failure,
		CycleTotal:    r.success + r.failure,
		ByErrorClass:  make(map[string]uint64, len(r.byClass)),
	}
	for k, v := range r.byClass {
		out.ByErrorClass[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
