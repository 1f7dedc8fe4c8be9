package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"soncore/internal/app/cycle"
)

// Scheduler drives the optimization engine on a fixed interval. Call
// Start with a cancellable context for graceful shutdown; Wait blocks
// until the loop goroutine has drained.
type Scheduler struct {
	Engine   *cycle.Engine
	Interval time.Duration

	wg sync.WaitGroup
}

func New(engine *cycle.Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{Engine: engine, Interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("[scheduler] stopped")
			return
		case <-ticker.C:
			result := s.Engine.Run(ctx)
			if result.Success {
				log.Printf("[scheduler] cycle %s succeeded in %s (degraded=%v)",
					result.CycleID, result.Elapsed(), result.Degraded)
				continue
			}
			if result.Failure != nil {
				log.Printf("[scheduler] cycle %s failed (%s): %s",
					result.CycleID, result.Failure.Class, result.Failure.Message)
			}
		}
	}
}
