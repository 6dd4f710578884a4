package config

// Config holds runtime configuration for the evaluation engine and CLI.
type Config struct {
	Engine   EngineConfig
	Scenario ScenarioConfig
	Collab   CollabConfig
	Metrics  MetricsConfig
}

// EngineConfig controls evaluation parallelism, timeouts, and caching.
type EngineConfig struct {
	MaxParallelConstraints int
	ConstraintTimeout      Duration
	CacheEnabled           bool
	CacheSize              int
	CacheTTL               Duration
}

// ScenarioConfig controls scenario generation and comparison.
type ScenarioConfig struct {
	MaxScenarios        int
	GenerationTimeout   Duration
	ComparisonThreshold float64 // percentage advantage before a dimension-specific recommendation fires
}

// CollabConfig controls external collaborator calls (travel, weather).
type CollabConfig struct {
	CallTimeout Duration
	MaxRetries  int
	RetryBase   Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Engine:   loadEngine(),
		Scenario: loadScenario(),
		Collab:   loadCollab(),
		Metrics:  loadMetrics(),
	}
}

func loadEngine() EngineConfig {
	return EngineConfig{
		MaxParallelConstraints: intEnvOrDefault(envMaxParallel, defaultMaxParallel),
		ConstraintTimeout:      durationEnvOrDefault(envConstraintTimeout, defaultConstraintTimeout),
		CacheEnabled:           boolEnvOrDefault(envCacheEnabled, true),
		CacheSize:              intEnvOrDefault(envCacheSize, defaultCacheSize),
		CacheTTL:               durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
	}
}

func loadScenario() ScenarioConfig {
	return ScenarioConfig{
		MaxScenarios:        intEnvOrDefault(envMaxScenarios, defaultMaxScenarios),
		GenerationTimeout:   durationEnvOrDefault(envScenarioTimeout, defaultScenarioTimeout),
		ComparisonThreshold: floatEnvOrDefault(envComparisonThreshold, defaultComparisonThreshold),
	}
}

func loadCollab() CollabConfig {
	return CollabConfig{
		CallTimeout: durationEnvOrDefault(envCollabTimeout, defaultCollabTimeout),
		MaxRetries:  intEnvOrDefault(envCollabRetries, defaultCollabRetries),
		RetryBase:   durationEnvOrDefault(envCollabRetryBase, defaultCollabRetryBase),
	}
}
