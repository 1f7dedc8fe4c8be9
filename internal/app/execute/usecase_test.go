package execute

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"soncore/internal/domain/optimize"
)

type scriptedHandler struct {
	mu          sync.Mutex
	failUntil   int // attempts that fail before the first success; -1 means always fail
	calls       int
	rollbackErr error
	rollbacks   int
	panics      bool
	zeroResult  bool
}

func (h *scriptedHandler) Execute(_ context.Context, action optimize.Action) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	if h.panics {
		panic("scripted handler panic")
	}
	if h.zeroResult {
		return Result{Success: true}, nil
	}
	if h.failUntil < 0 || h.calls <= h.failUntil {
		return Result{}, errors.New("scripted failure")
	}
	return Result{CompletedAt: time.Now(), Success: true, Detail: map[string]any{"target": action.Target}}, nil
}

func (h *scriptedHandler) Rollback(context.Context, optimize.Action) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rollbacks++
	return h.rollbackErr
}

type eventLog struct {
	mu     sync.Mutex
	events []Event
}

func (l *eventLog) Notify(e Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]EventKind, 0, len(l.events))
	for _, e := range l.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func newTestExecutor(cfg Config) (*Executor, *[]time.Duration) {
	e := NewExecutor(cfg)
	slept := &[]time.Duration{}
	e.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return e, slept
}

func sleepAction(id string) optimize.Action {
	return optimize.Action{
		ID:     id,
		Type:   optimize.ActionCellSleep,
		Target: "cell-7",
		Params: optimize.ActionParams{SleepMinutes: 30},
	}
}

func TestExecuteBatch_EmptyBatchIsHardError(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 4})
	if _, err := e.ExecuteBatch(context.Background(), nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("err = %v, want ErrEmptyBatch", err)
	}
}

func TestExecuteBatch_OversizedBatchIsHardError(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2})
	batch := []optimize.Action{sleepAction("a-1"), sleepAction("a-2"), sleepAction("a-3")}
	_, err := e.ExecuteBatch(context.Background(), batch)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("err = %v, want ErrBatchTooLarge", err)
	}
}

func TestExecuteBatch_Conservation(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 8, MaxRetries: 0})
	failing := &scriptedHandler{failUntil: -1}
	e.RegisterHandler("doomed", failing)

	batch := []optimize.Action{
		sleepAction("a-1"),
		{ID: "a-2", Type: "doomed", Target: "cell-1"},
		sleepAction("a-3"),
		{ID: "a-4", Type: "doomed", Target: "cell-2"},
		sleepAction("a-5"),
	}
	summary, err := e.ExecuteBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if summary.Successful+summary.Failed != len(batch) {
		t.Fatalf("conservation broken: %d + %d != %d", summary.Successful, summary.Failed, len(batch))
	}
	if summary.Successful != 3 || summary.Failed != 2 {
		t.Fatalf("summary = %d/%d, want 3/2", summary.Successful, summary.Failed)
	}
	if len(summary.Results) != len(batch) {
		t.Fatalf("results = %d, want %d", len(summary.Results), len(batch))
	}
}

func TestExecuteBatch_RetryBoundAndBackoff(t *testing.T) {
	e, slept := newTestExecutor(Config{
		MaxConcurrentActions: 4,
		MaxRetries:           3,
		RetryDelay:           10 * time.Millisecond,
		BackoffMultiplier:    2,
	})
	failing := &scriptedHandler{failUntil: -1}
	e.RegisterHandler("doomed", failing)

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{{ID: "a-1", Type: "doomed", Target: "cell-1"}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if failing.calls != 4 {
		t.Fatalf("attempts = %d, want maxRetries+1 = 4", failing.calls)
	}
	if summary.Results[0].Attempts != 4 {
		t.Fatalf("recorded attempts = %d, want 4", summary.Results[0].Attempts)
	}
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *slept, want)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Fatalf("sleep[%d] = %v, want %v", i, (*slept)[i], d)
		}
	}
}

func TestExecuteBatch_RetrySucceedsMidway(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 4, MaxRetries: 3, RetryDelay: time.Millisecond})
	flaky := &scriptedHandler{failUntil: 2}
	e.RegisterHandler("flaky", flaky)

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{{ID: "a-1", Type: "flaky", Target: "cell-1"}})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if summary.Successful != 1 {
		t.Fatalf("summary = %+v, want success after retries", summary)
	}
	if summary.Results[0].Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", summary.Results[0].Attempts)
	}
}

func TestExecuteBatch_ResourceCapPerDimension(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 16})
	batch := make([]optimize.Action, 16)
	for i := range batch {
		batch[i] = optimize.Action{ID: "a", Type: optimize.ActionLoadBalance, Target: "cell-1",
			Params: optimize.ActionParams{NeighborCellID: "cell-2", TargetLoadPct: 60}}
	}
	summary, err := e.ExecuteBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	r := summary.Resources
	if r.CPU > 1 || r.Memory > 1 || r.Network > 1 {
		t.Fatalf("resource utilization exceeds cap: %+v", r)
	}
	// 16 load_balance actions at 0.128 cpu each would be 2.05 uncapped.
	if r.CPU != 1 {
		t.Fatalf("cpu = %v, want saturated 1.0", r.CPU)
	}
}

func TestExecuteBatch_UnknownTypeFallsBackToGenericHandler(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2})
	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "firmware_upgrade", Target: "node-3"},
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if summary.Successful != 1 {
		t.Fatalf("generic handler should succeed: %+v", summary.Results[0])
	}
	if summary.Results[0].Payload["type"] != "firmware_upgrade" {
		t.Fatalf("payload = %+v, want generic echo", summary.Results[0].Payload)
	}
}

func TestExecuteBatch_RollbackOnFinalFailure(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2, MaxRetries: 1, RetryDelay: time.Millisecond, RollbackEnabled: true})
	failing := &scriptedHandler{failUntil: -1}
	e.RegisterHandler("doomed", failing)
	log := &eventLog{}
	e.Subscribe(log)

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "doomed", Target: "cell-1", RollbackSupported: true},
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	result := summary.Results[0]
	if !result.RollbackAttempted || !result.RollbackSucceeded {
		t.Fatalf("rollback flags = %+v, want attempted and succeeded", result)
	}
	if failing.rollbacks != 1 {
		t.Fatalf("rollbacks = %d, want exactly 1 (never retried)", failing.rollbacks)
	}
	want := []EventKind{EventActionStarted, EventRollbackStarted, EventRollbackCompleted, EventActionFailed}
	got := log.kinds()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestExecuteBatch_RollbackFailureIsReportedNotEscalated(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2, MaxRetries: 0, RollbackEnabled: true})
	failing := &scriptedHandler{failUntil: -1, rollbackErr: errors.New("rollback broke")}
	e.RegisterHandler("doomed", failing)
	log := &eventLog{}
	e.Subscribe(log)

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "doomed", Target: "cell-1", RollbackSupported: true},
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	result := summary.Results[0]
	if !result.RollbackAttempted || result.RollbackSucceeded {
		t.Fatalf("rollback flags = %+v, want attempted and failed", result)
	}
	found := false
	for _, k := range log.kinds() {
		if k == EventRollbackFailed {
			found = true
		}
	}
	if !found {
		t.Fatalf("events = %v, want a rollbackFailed", log.kinds())
	}
}

func TestExecuteBatch_NoRollbackWhenDisabledOrUnsupported(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 4, MaxRetries: 0, RollbackEnabled: false})
	failing := &scriptedHandler{failUntil: -1}
	e.RegisterHandler("doomed", failing)

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "doomed", Target: "cell-1", RollbackSupported: true},
		{ID: "a-2", Type: "doomed", Target: "cell-2", RollbackSupported: false},
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	for _, r := range summary.Results {
		if r.RollbackAttempted {
			t.Fatalf("rollback attempted for %s despite being disabled", r.ActionID)
		}
	}
	if failing.rollbacks != 0 {
		t.Fatalf("rollbacks = %d, want 0", failing.rollbacks)
	}
}

func TestExecuteBatch_InvalidHandlerResultIsFailure(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2, MaxRetries: 0})
	e.RegisterHandler("hollow", &scriptedHandler{zeroResult: true})

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "hollow", Target: "cell-1"},
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	result := summary.Results[0]
	if result.Success {
		t.Fatal("result missing timestamp must be treated as invalid")
	}
	if !strings.Contains(result.Error, ErrInvalidHandlerResult.Error()) {
		t.Fatalf("error = %q, want invalid handler result", result.Error)
	}
}

func TestExecuteBatch_PanickingHandlerNeverAbortsSiblings(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 4, MaxRetries: 0})
	e.RegisterHandler("volatile", &scriptedHandler{panics: true})

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{
		{ID: "a-1", Type: "volatile", Target: "cell-1"},
		sleepAction("a-2"),
		sleepAction("a-3"),
	})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if summary.Successful != 2 || summary.Failed != 1 {
		t.Fatalf("summary = %d/%d, want 2/1", summary.Successful, summary.Failed)
	}
	var volatileResult optimize.ExecutionResult
	for _, r := range summary.Results {
		if r.ActionID == "a-1" {
			volatileResult = r
		}
	}
	if !strings.Contains(volatileResult.Error, "panic") {
		t.Fatalf("error = %q, want captured panic", volatileResult.Error)
	}
}

type panickyExecObserver struct{}

func (panickyExecObserver) Notify(Event) { panic("observer exploded") }

func TestExecuteBatch_ObserverPanicDoesNotAffectOutcome(t *testing.T) {
	e, _ := newTestExecutor(Config{MaxConcurrentActions: 2})
	e.Subscribe(panickyExecObserver{})

	summary, err := e.ExecuteBatch(context.Background(), []optimize.Action{sleepAction("a-1")})
	if err != nil {
		t.Fatalf("ExecuteBatch: %v", err)
	}
	if summary.Successful != 1 {
		t.Fatalf("summary = %+v, want success despite panicking observer", summary)
	}
}
