package main

import (
	"testing"

	"soncore/internal/config"
	"soncore/internal/domain/optimize"
)

func TestIntEnv(t *testing.T) {
	t.Setenv("SONCORE_TEST_INT", "42")
	if got := intEnv("SONCORE_TEST_INT", 7); got != 42 {
		t.Fatalf("intEnv=%d want 42", got)
	}
	t.Setenv("SONCORE_TEST_INT", "not-a-number")
	if got := intEnv("SONCORE_TEST_INT", 7); got != 7 {
		t.Fatalf("intEnv fallback=%d want 7", got)
	}
	if got := intEnv("SONCORE_TEST_INT_UNSET", 7); got != 7 {
		t.Fatalf("intEnv unset=%d want 7", got)
	}
}

func TestDriftEnv(t *testing.T) {
	t.Setenv("SONCORE_TEST_DRIFT", "energy=0.3, coverage=-0.1, bogus, =0.5, mobility=oops")
	got := driftEnv("SONCORE_TEST_DRIFT")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %+v", got)
	}
	if got[optimize.KPIKey("energy")] != 0.3 {
		t.Fatalf("unexpected energy drift: %f", got[optimize.KPIKey("energy")])
	}
	if got[optimize.KPIKey("coverage")] != -0.1 {
		t.Fatalf("unexpected coverage drift: %f", got[optimize.KPIKey("coverage")])
	}

	t.Setenv("SONCORE_TEST_DRIFT", "")
	if got := driftEnv("SONCORE_TEST_DRIFT"); got != nil {
		t.Fatalf("expected nil for empty env, got %+v", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SONCORE_DB_DSN", "postgres://db/soncore")
	t.Setenv("SONCORE_HTTP_ADDR", ":9191")
	t.Setenv("SONCORE_CYCLE_INTERVAL_SECONDS", "60")

	cfg := config.Default()
	applyEnvOverrides(&cfg)

	if cfg.Database.DSN != "postgres://db/soncore" {
		t.Fatalf("unexpected dsn: %s", cfg.Database.DSN)
	}
	if cfg.HTTP.Addr != ":9191" {
		t.Fatalf("unexpected addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Scheduler.IntervalSeconds != 60 {
		t.Fatalf("unexpected interval: %d", cfg.Scheduler.IntervalSeconds)
	}
}
