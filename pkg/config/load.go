package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention STRATUS_SECTION_FIELD (e.g., STRATUS_FEDERATION_POLICY_MANAGER)
// and always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies STRATUS_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("STRATUS_FEDERATION_HOME_SUBCLUSTER"); val != "" {
		cfg.Federation.HomeSubCluster = val
	}
	if val := os.Getenv("STRATUS_FEDERATION_POLICY_MANAGER"); val != "" {
		cfg.Federation.PolicyManager = val
	}
	if val := os.Getenv("STRATUS_FEDERATION_POLICY_MANAGER_PARAMS"); val != "" {
		cfg.Federation.PolicyManagerParams = val
	}

	if val := os.Getenv("STRATUS_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("STRATUS_STORE_SQLITE_PATH"); val != "" {
		cfg.Store.SQLitePath = val
	}

	if val := os.Getenv("STRATUS_FACADE_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Facade.CacheTTL = d
		}
	}
	if val := os.Getenv("STRATUS_FACADE_CACHE_MAX_ENTRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Facade.CacheMaxEntries = i
		}
	}
	if val := os.Getenv("STRATUS_FACADE_REFRESH_SCHEDULE"); val != "" {
		cfg.Facade.RefreshSchedule = val
	}

	if val := os.Getenv("STRATUS_RESOLVER_MACHINE_LIST_PATH"); val != "" {
		cfg.Resolver.MachineListPath = val
	}
	if val := os.Getenv("STRATUS_RESOLVER_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Resolver.Watch = b
		}
	}

	if val := os.Getenv("STRATUS_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("STRATUS_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}

	if val := os.Getenv("STRATUS_TELEMETRY_LOG_LEVEL"); val != "" {
		cfg.Telemetry.LogLevel = val
	}
}
