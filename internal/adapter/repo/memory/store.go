package memory

import (
	"sync"

	"soncore/internal/domain/optimize"
)

// Store is the shared in-memory backing for the pattern and history
// repos. Used in tests and when the server runs without a database.
type Store struct {
	mu       sync.RWMutex
	baseline optimize.KPISet
	patterns map[optimize.PatternKind][]optimize.Pattern
	history  []optimize.CycleResult
}

func NewStore() *Store {
	return &Store{
		baseline: make(optimize.KPISet),
		patterns: make(map[optimize.PatternKind][]optimize.Pattern),
	}
}

// SeedBaseline replaces the stored KPI baseline.
func (s *Store) SeedBaseline(baseline optimize.KPISet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseline = make(optimize.KPISet, len(baseline))
	for k, v := range baseline {
		s.baseline[k] = v
	}
}

// SeedPatterns appends patterns of any kind, typically fixture data.
func (s *Store) SeedPatterns(patterns ...optimize.Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range patterns {
		s.patterns[p.Kind] = append(s.patterns[p.Kind], p)
	}
}
