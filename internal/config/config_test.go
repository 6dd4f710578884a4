package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Engine.MaxParallelConstraints != defaultMaxParallel {
		t.Fatalf("expected default max parallel %d, got %d", defaultMaxParallel, cfg.Engine.MaxParallelConstraints)
	}
	if !cfg.Engine.CacheEnabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.Scenario.MaxScenarios != defaultMaxScenarios {
		t.Fatalf("expected default max scenarios %d, got %d", defaultMaxScenarios, cfg.Scenario.MaxScenarios)
	}
	if cfg.Scenario.ComparisonThreshold != defaultComparisonThreshold {
		t.Fatalf("expected threshold %v, got %v", defaultComparisonThreshold, cfg.Scenario.ComparisonThreshold)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("expected metrics disabled by default")
	}
}

func TestLoadEngineOverrides(t *testing.T) {
	t.Setenv(envMaxParallel, "8")
	t.Setenv(envConstraintTimeout, "30s")
	t.Setenv(envCacheEnabled, "false")

	cfg := loadEngine()
	if cfg.MaxParallelConstraints != 8 {
		t.Fatalf("expected 8, got %d", cfg.MaxParallelConstraints)
	}
	if cfg.ConstraintTimeout != 30*time.Second {
		t.Fatalf("expected 30s, got %s", cfg.ConstraintTimeout)
	}
	if cfg.CacheEnabled {
		t.Fatal("expected cache disabled")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envMaxParallel, "-2")
	t.Setenv(envConstraintTimeout, "soon")
	t.Setenv(envComparisonThreshold, "nope")

	if got := loadEngine().MaxParallelConstraints; got != defaultMaxParallel {
		t.Fatalf("expected fallback %d, got %d", defaultMaxParallel, got)
	}
	if got := loadEngine().ConstraintTimeout; got != defaultConstraintTimeout {
		t.Fatalf("expected fallback %s, got %s", defaultConstraintTimeout, got)
	}
	if got := loadScenario().ComparisonThreshold; got != defaultComparisonThreshold {
		t.Fatalf("expected fallback %v, got %v", defaultComparisonThreshold, got)
	}
}
