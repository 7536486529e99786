package config

import "time"

// Default values for configuration fields.
const (
	// DefaultPolicyQueueKey is the well-known queue key under which the
	// cluster-wide default policy configuration is stored. Resolution
	// falls back to this key when a queue has no configuration of its own.
	DefaultPolicyQueueKey = "*"

	// Federation defaults
	DefaultPolicyManager       = "UniformPolicyManager"
	DefaultPolicyManagerParams = ""

	// Store defaults
	DefaultStoreBackend       = "memory"
	DefaultSQLitePath         = "data/federation.db"
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultSQLiteMaxOpenConns = 10

	// Facade defaults
	DefaultFacadeCacheTTL        = 5 * time.Minute
	DefaultFacadeCacheMaxEntries = 1024

	// Resolver defaults
	DefaultResolverDebounceInterval = 200 * time.Millisecond

	// Audit defaults
	DefaultAuditSQLitePath = "data/audit.db"

	// Telemetry defaults
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "stratus"
	DefaultMetricsSubsystem = "federation"
	DefaultLogLevel         = "info"
)

// ApplyDefaults fills in default values for any unset configuration fields.
// It is called automatically by LoadConfig but can be used directly on a
// hand-constructed Config.
func ApplyDefaults(cfg *Config) {
	// Federation defaults are applied lazily through PolicyManagerType and
	// PolicyManagerParamsOrDefault so an explicitly empty params string and
	// an unset one behave identically, matching the lookup-with-default
	// semantics of resolution tier 3.

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = DefaultSQLitePath
	}
	if cfg.Store.SQLiteBusyTimeout == 0 {
		cfg.Store.SQLiteBusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.SQLiteMaxOpenConns == 0 {
		cfg.Store.SQLiteMaxOpenConns = DefaultSQLiteMaxOpenConns
	}

	if cfg.Facade.CacheTTL == 0 {
		cfg.Facade.CacheTTL = DefaultFacadeCacheTTL
	}
	if cfg.Facade.CacheMaxEntries == 0 {
		cfg.Facade.CacheMaxEntries = DefaultFacadeCacheMaxEntries
	}

	if cfg.Resolver.DebounceInterval == 0 {
		cfg.Resolver.DebounceInterval = DefaultResolverDebounceInterval
	}

	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}

	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.LogLevel == "" {
		cfg.Telemetry.LogLevel = DefaultLogLevel
	}
}

// DefaultConfig returns a fully-defaulted configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
