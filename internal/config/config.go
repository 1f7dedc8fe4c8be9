package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models the server configuration file. Every field has a
// working default so the server boots with no file at all; env vars
// override the file for deployment knobs (see cmd/server).
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Cycle     CycleConfig     `yaml:"cycle"`
	Consensus ConsensusConfig `yaml:"consensus"`
	Execution ExecutionConfig `yaml:"execution"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrations_dir"`
}

type CycleConfig struct {
	ExpansionFactor float64 `yaml:"expansion_factor"`
	TemporalDepth   int     `yaml:"temporal_depth"`
	FallbackEnabled bool    `yaml:"fallback_enabled"`
}

type ConsensusConfig struct {
	Threshold float64 `yaml:"threshold"`
	Mechanism string  `yaml:"mechanism"`
}

type ExecutionConfig struct {
	MaxConcurrentActions int     `yaml:"max_concurrent_actions"`
	MaxRetries           int     `yaml:"max_retries"`
	RetryDelayMs         int     `yaml:"retry_delay_ms"`
	BackoffMultiplier    float64 `yaml:"backoff_multiplier"`
	RollbackEnabled      bool    `yaml:"rollback_enabled"`
}

// RetryDelay is the parsed form of RetryDelayMs.
func (c ExecutionConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

type SchedulerConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
}

// Interval is the parsed form of IntervalSeconds.
func (c SchedulerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{
			MigrationsDir: "./migrations",
		},
		Cycle: CycleConfig{
			ExpansionFactor: 3.0,
			TemporalDepth:   5,
			FallbackEnabled: true,
		},
		Consensus: ConsensusConfig{
			Threshold: 67,
			Mechanism: "weighted",
		},
		Execution: ExecutionConfig{
			MaxConcurrentActions: 10,
			MaxRetries:           3,
			RetryDelayMs:         1000,
			BackoffMultiplier:    2.0,
			RollbackEnabled:      true,
		},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			IntervalSeconds: 15 * 60,
		},
	}
}

// Load reads a yaml config file over the defaults. A missing path is
// not an error: the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Consensus.Threshold < 0 || c.Consensus.Threshold > 100 {
		return fmt.Errorf("consensus threshold %.1f out of range [0,100]", c.Consensus.Threshold)
	}
	switch c.Consensus.Mechanism {
	case "weighted", "simple", "unanimous":
	default:
		return fmt.Errorf("unknown consensus mechanism %q", c.Consensus.Mechanism)
	}
	if c.Execution.MaxConcurrentActions <= 0 {
		return fmt.Errorf("max_concurrent_actions must be positive")
	}
	if c.Execution.BackoffMultiplier < 1 {
		return fmt.Errorf("backoff_multiplier must be >= 1")
	}
	if c.Cycle.ExpansionFactor <= 0 {
		return fmt.Errorf("expansion_factor must be positive")
	}
	return nil
}
