package config

import "time"

const (
	envMaxParallel         = "ENGINE_MAX_PARALLEL"
	envConstraintTimeout   = "ENGINE_CONSTRAINT_TIMEOUT"
	envCacheEnabled        = "ENGINE_CACHE_ENABLED"
	envCacheSize           = "ENGINE_CACHE_SIZE"
	envCacheTTL            = "ENGINE_CACHE_TTL"
	envMaxScenarios        = "SCENARIO_MAX_CONCURRENT"
	envScenarioTimeout     = "SCENARIO_TIMEOUT"
	envComparisonThreshold = "SCENARIO_COMPARISON_THRESHOLD"
	envCollabTimeout       = "COLLAB_TIMEOUT"
	envCollabRetries       = "COLLAB_MAX_RETRIES"
	envCollabRetryBase     = "COLLAB_RETRY_BASE"
	envMetricsPort         = "METRICS_PORT"
	envMetricsOn           = "METRICS_ENABLED"
	envOtelEndpoint        = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService         = "OTEL_SERVICE_NAME"
	envOtelInsecure        = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultMaxParallel       = 4
	defaultConstraintTimeout = 10 * Duration(time.Second)
	defaultCacheSize         = 512
	defaultCacheTTL          = 15 * Duration(time.Minute)
	defaultMaxScenarios      = 3
	defaultScenarioTimeout   = 2 * Duration(time.Minute)
	// A scenario must beat the field by this percentage on a single dimension
	// before it earns a dimension-specific recommendation.
	defaultComparisonThreshold = 10.0
	defaultCollabTimeout       = 5 * Duration(time.Second)
	defaultCollabRetries       = 3
	defaultCollabRetryBase     = 200 * Duration(time.Millisecond)
	defaultMetricsPort         = "9090"
)
