package config

import "time"

// Config is the root configuration structure for Stratus Federation.
// It contains configuration for the federation policy layer, the state
// store backends, the caching facade, the sub-cluster resolver, the
// resolution audit log, and telemetry.
type Config struct {
	// Federation contains policy-resolution configuration, including the
	// local fallback policy manager used when the state store has no
	// configuration for a queue.
	Federation FederationConfig `yaml:"federation"`

	// Store contains state store backend configuration.
	Store StoreConfig `yaml:"store"`

	// Facade contains configuration for the caching state store facade.
	Facade FacadeConfig `yaml:"facade"`

	// Resolver contains sub-cluster resolver configuration.
	Resolver ResolverConfig `yaml:"resolver"`

	// Audit contains configuration for the resolution audit log.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains observability configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// FederationConfig contains configuration for federation policy resolution.
type FederationConfig struct {
	// HomeSubCluster is the identifier of the sub-cluster this instance
	// considers home. Required for loading live routing policies.
	HomeSubCluster string `yaml:"home_subcluster"`

	// PolicyManager is the policy manager type used when neither the
	// requested queue nor the default queue has a configuration in the
	// state store.
	// Default: "UniformPolicyManager"
	PolicyManager string `yaml:"policy_manager"`

	// PolicyManagerParams is the parameter string handed to the fallback
	// policy manager, encoded as the opaque parameter payload.
	// Default: ""
	PolicyManagerParams string `yaml:"policy_manager_params"`
}

// PolicyManagerType returns the configured fallback policy manager type,
// or the built-in default when unset.
func (c *FederationConfig) PolicyManagerType() string {
	if c.PolicyManager == "" {
		return DefaultPolicyManager
	}
	return c.PolicyManager
}

// PolicyManagerParamsOrDefault returns the configured fallback parameter
// string, or the built-in default when unset.
func (c *FederationConfig) PolicyManagerParamsOrDefault() string {
	if c.PolicyManagerParams == "" {
		return DefaultPolicyManagerParams
	}
	return c.PolicyManagerParams
}

// StoreConfig contains state store backend configuration.
type StoreConfig struct {
	// Backend selects the state store implementation.
	// Values: "memory", "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/federation.db"
	SQLitePath string `yaml:"sqlite_path"`

	// SQLiteBusyTimeout is how long to wait for database locks.
	// Default: 5s
	SQLiteBusyTimeout time.Duration `yaml:"sqlite_busy_timeout"`

	// SQLiteMaxOpenConns is the maximum number of open connections.
	// Default: 10
	SQLiteMaxOpenConns int `yaml:"sqlite_max_open_conns"`
}

// FacadeConfig contains configuration for the caching state store facade.
type FacadeConfig struct {
	// CacheTTL is how long cached policy configurations remain valid.
	// Zero disables expiry.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// CacheMaxEntries bounds the policy configuration cache.
	// Zero means unlimited.
	// Default: 1024
	CacheMaxEntries int `yaml:"cache_max_entries"`

	// RefreshSchedule is an optional cron expression; when set, the
	// facade flushes its cache on this schedule so long-lived processes
	// pick up store-side policy changes even for hot queues.
	// Example: "*/5 * * * *" (every five minutes). Empty disables it.
	RefreshSchedule string `yaml:"refresh_schedule"`
}

// ResolverConfig contains sub-cluster resolver configuration.
type ResolverConfig struct {
	// MachineListPath is the path to the machine list file mapping nodes
	// and racks to sub-clusters. Lines have the form
	// "node,rack,subcluster".
	MachineListPath string `yaml:"machine_list_path"`

	// Watch enables fsnotify-based hot reload of the machine list file.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is how long to coalesce file change events before
	// reloading.
	// Default: 200ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// AuditConfig contains configuration for the resolution audit log.
type AuditConfig struct {
	// Enabled turns resolution audit recording on.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file path.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// LogLevel sets the slog level ("debug", "info", "warn", "error").
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metrics namespace.
	// Default: "stratus"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metrics subsystem.
	// Default: "federation"
	Subsystem string `yaml:"subsystem"`
}
