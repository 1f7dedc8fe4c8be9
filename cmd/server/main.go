package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	collabsim "soncore/internal/adapter/collab/simulated"
	httpadapter "soncore/internal/adapter/http"
	metricsinmem "soncore/internal/adapter/metrics/inmemory"
	gormrepo "soncore/internal/adapter/repo/gorm"
	memrepo "soncore/internal/adapter/repo/memory"
	"soncore/internal/adapter/scheduler"
	telemetrysim "soncore/internal/adapter/telemetry/simulated"
	"soncore/internal/app/consensus"
	"soncore/internal/app/cycle"
	"soncore/internal/app/execute"
	"soncore/internal/app/ports"
	"soncore/internal/config"
	"soncore/internal/domain/optimize"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("SONCORE_CONFIG")))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyEnvOverrides(&cfg)

	patterns, history, txManager := mustBuildRepos(cfg)
	network := buildTelemetryFromEnv()
	kpiRecorder := metricsinmem.NewRecorder()
	evolution := collabsim.NewEvolutionTracker()

	builder := consensus.NewBuilder(consensus.Config{
		Threshold: cfg.Consensus.Threshold,
		Mechanism: consensus.Mechanism(cfg.Consensus.Mechanism),
	}, nil)
	executor := execute.NewExecutor(execute.Config{
		MaxConcurrentActions: cfg.Execution.MaxConcurrentActions,
		MaxRetries:           cfg.Execution.MaxRetries,
		RetryDelay:           cfg.Execution.RetryDelay(),
		BackoffMultiplier:    cfg.Execution.BackoffMultiplier,
		RollbackEnabled:      cfg.Execution.RollbackEnabled,
	})

	engine := cycle.NewEngine(cycle.Config{
		ExpansionFactor: cfg.Cycle.ExpansionFactor,
		TemporalDepth:   cfg.Cycle.TemporalDepth,
		FallbackEnabled: cfg.Cycle.FallbackEnabled,
	}, cycle.Deps{
		Patterns:  patterns,
		Network:   network,
		Temporal:  collabsim.NewReasoner(collabsim.DefaultReasonerConfig()),
		Cognitive: collabsim.NewAnalyzer(),
		Evolution: evolution,
		Consensus: builder,
		Executor:  executor,
		History:   history,
		Tx:        txManager,
		Metrics:   kpiRecorder,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(engine, cfg.Scheduler.Interval())
		sched.Start(ctx)
		log.Printf("[scheduler] running every %s", cfg.Scheduler.Interval())
	}

	h := httpadapter.Handler{Engine: engine, Evolution: evolution, KPI: kpiRecorder}
	s := server.Default(server.WithHostPorts(cfg.HTTP.Addr))
	h.RegisterRoutes(s)

	log.Printf("soncore server listening on %s", cfg.HTTP.Addr)
	s.Spin()
}

func mustBuildRepos(cfg config.Config) (ports.PatternStore, ports.CycleHistoryRepository, ports.TxManager) {
	dsn := cfg.Database.DSN
	if dsn == "" {
		log.Println("[repo] no database configured, using in-memory store")
		store := memrepo.NewStore()
		store.SeedBaseline(telemetrysim.DefaultConfig().Nominal)
		return memrepo.NewPatternStore(store), memrepo.NewCycleHistoryRepo(store), memrepo.NewTxManager()
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if dir := cfg.Database.MigrationsDir; dir != "" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, dir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return gormrepo.NewPatternStore(db), gormrepo.NewCycleHistoryRepo(db), gormrepo.NewTxManager(db)
}

func buildTelemetryFromEnv() *telemetrysim.Provider {
	simCfg := telemetrysim.DefaultConfig()
	if drift := driftEnv("SONCORE_KPI_DRIFT"); len(drift) > 0 {
		simCfg.Drift = drift
	}
	simCfg.Seed = int64(intEnv("SONCORE_KPI_SEED", int(time.Now().Unix())))
	return telemetrysim.NewProvider(simCfg)
}

func applyEnvOverrides(cfg *config.Config) {
	if dsn := strings.TrimSpace(os.Getenv("SONCORE_DB_DSN")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if addr := strings.TrimSpace(os.Getenv("SONCORE_HTTP_ADDR")); addr != "" {
		cfg.HTTP.Addr = addr
	}
	cfg.Scheduler.IntervalSeconds = intEnv("SONCORE_CYCLE_INTERVAL_SECONDS", cfg.Scheduler.IntervalSeconds)
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// driftEnv parses "energy=0.3,coverage=-0.1" style drift overrides.
func driftEnv(key string) map[optimize.KPIKey]float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	out := map[optimize.KPIKey]float64{}
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(kv) != 2 {
			continue
		}
		name := strings.TrimSpace(kv[0])
		if name == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			continue
		}
		out[optimize.KPIKey(name)] = f
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
