package execute

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"soncore/internal/domain/optimize"
)

var (
	ErrEmptyBatch           = errors.New("empty action batch")
	ErrBatchTooLarge        = errors.New("action batch exceeds concurrency cap")
	ErrInvalidHandlerResult = errors.New("handler returned invalid result")
)

type Config struct {
	MaxConcurrentActions int
	MaxRetries           int
	RetryDelay           time.Duration
	BackoffMultiplier    float64
	RollbackEnabled      bool
}

// Executor runs a bounded batch of heterogeneous actions concurrently
// with per-action retry, backoff and best-effort rollback. One action's
// failure never aborts its siblings.
type Executor struct {
	cfg      Config
	handlers map[optimize.ActionType]Handler
	generic  Handler
	now      func() time.Time
	sleep    func(time.Duration)

	mu        sync.Mutex
	observers []Observer
}

func NewExecutor(cfg Config) *Executor {
	if cfg.MaxConcurrentActions <= 0 {
		cfg.MaxConcurrentActions = 10
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 100 * time.Millisecond
	}
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = 2
	}
	return &Executor{
		cfg:      cfg,
		handlers: handlerRegistry(),
		generic:  genericHandler{},
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// RegisterHandler overrides or extends the dispatch table.
func (e *Executor) RegisterHandler(t optimize.ActionType, h Handler) {
	e.handlers[t] = h
}

func (e *Executor) handlerFor(t optimize.ActionType) Handler {
	if h, ok := e.handlers[t]; ok {
		return h
	}
	return e.generic
}

// ExecuteBatch fans the batch out, waits for every action to settle and
// returns the per-action results plus the aggregate. Validation errors
// (empty batch, oversized batch) are the only error returns; individual
// action failures are reported inside the summary.
func (e *Executor) ExecuteBatch(ctx context.Context, actions []optimize.Action) (optimize.ExecutionSummary, error) {
	if len(actions) == 0 {
		return optimize.ExecutionSummary{}, ErrEmptyBatch
	}
	if len(actions) > e.cfg.MaxConcurrentActions {
		return optimize.ExecutionSummary{}, fmt.Errorf("%w: %d actions, cap %d", ErrBatchTooLarge, len(actions), e.cfg.MaxConcurrentActions)
	}

	started := e.now()
	results := make([]optimize.ExecutionResult, len(actions))

	var wg sync.WaitGroup
	for i, action := range actions {
		wg.Add(1)
		go func(i int, action optimize.Action) {
			defer wg.Done()
			results[i] = e.runAction(ctx, action)
		}(i, action)
	}
	wg.Wait()

	summary := optimize.ExecutionSummary{
		TotalElapsed: e.now().Sub(started),
		Results:      results,
	}
	for _, r := range results {
		if r.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		summary.Resources = summary.Resources.Add(r.Resources)
	}
	return summary, nil
}

// runAction drives one action through its attempts, then rollback on
// final failure when the action supports it.
func (e *Executor) runAction(ctx context.Context, action optimize.Action) optimize.ExecutionResult {
	handler := e.handlerFor(action.Type)
	started := e.now()
	e.notify(Event{Kind: EventActionStarted, ActionID: action.ID, ActionType: action.Type, Target: action.Target, At: started})

	out := optimize.ExecutionResult{
		ActionID:   action.ID,
		ActionType: action.Type,
		Target:     action.Target,
		Resources:  optimize.CostOf(action.Type),
	}

	maxAttempts := e.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		out.Attempts = attempt
		result, err := safeExecute(ctx, handler, action)
		if err == nil {
			if result.CompletedAt.IsZero() {
				err = ErrInvalidHandlerResult
			} else if result.Success {
				out.Success = true
				out.Payload = result.Detail
				break
			} else {
				err = fmt.Errorf("handler reported failure for %s", action.ID)
			}
		}
		lastErr = err
		if attempt < maxAttempts {
			e.sleep(e.retryDelay(attempt))
		}
	}
	out.Elapsed = e.now().Sub(started)

	if out.Success {
		e.notify(Event{Kind: EventActionCompleted, ActionID: action.ID, ActionType: action.Type, Target: action.Target, At: e.now()})
		return out
	}

	if lastErr != nil {
		out.Error = lastErr.Error()
	}
	e.rollback(ctx, handler, action, &out)
	e.notify(Event{Kind: EventActionFailed, ActionID: action.ID, ActionType: action.Type, Target: action.Target, Err: out.Error, At: e.now()})
	return out
}

// rollback makes one compensating attempt; its failure is reported, not
// retried, and never escalates.
func (e *Executor) rollback(ctx context.Context, handler Handler, action optimize.Action, out *optimize.ExecutionResult) {
	if !action.RollbackSupported || !e.cfg.RollbackEnabled {
		return
	}
	out.RollbackAttempted = true
	e.notify(Event{Kind: EventRollbackStarted, ActionID: action.ID, ActionType: action.Type, Target: action.Target, At: e.now()})
	if err := safeRollback(ctx, handler, action); err != nil {
		e.notify(Event{Kind: EventRollbackFailed, ActionID: action.ID, ActionType: action.Type, Target: action.Target, Err: err.Error(), At: e.now()})
		return
	}
	out.RollbackSucceeded = true
	e.notify(Event{Kind: EventRollbackCompleted, ActionID: action.ID, ActionType: action.Type, Target: action.Target, At: e.now()})
}

func (e *Executor) retryDelay(attempt int) time.Duration {
	scale := math.Pow(e.cfg.BackoffMultiplier, float64(attempt-1))
	return time.Duration(float64(e.cfg.RetryDelay) * scale)
}

func safeExecute(ctx context.Context, handler Handler, action optimize.Action) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s: %v", action.ID, r)
		}
	}()
	return handler.Execute(ctx, action)
}

func safeRollback(ctx context.Context, handler Handler, action optimize.Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rollback panic on %s: %v", action.ID, r)
		}
	}()
	return handler.Rollback(ctx, action)
}
