package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns the first problem encountered.
func Validate(cfg *Config) error {
	switch cfg.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend: unsupported backend %q (supported: memory, sqlite)", cfg.Store.Backend)
	}

	if cfg.Store.Backend == "sqlite" && cfg.Store.SQLitePath == "" {
		return fmt.Errorf("store.sqlite_path: required when backend is sqlite")
	}
	if cfg.Store.SQLiteMaxOpenConns < 0 {
		return fmt.Errorf("store.sqlite_max_open_conns: must not be negative")
	}

	if cfg.Facade.CacheTTL < 0 {
		return fmt.Errorf("facade.cache_ttl: must not be negative")
	}
	if cfg.Facade.CacheMaxEntries < 0 {
		return fmt.Errorf("facade.cache_max_entries: must not be negative")
	}
	if cfg.Facade.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Facade.RefreshSchedule); err != nil {
			return fmt.Errorf("facade.refresh_schedule: invalid cron expression %q: %w", cfg.Facade.RefreshSchedule, err)
		}
	}

	if cfg.Resolver.Watch && cfg.Resolver.MachineListPath == "" {
		return fmt.Errorf("resolver.machine_list_path: required when resolver.watch is enabled")
	}
	if cfg.Resolver.DebounceInterval < 0 {
		return fmt.Errorf("resolver.debounce_interval: must not be negative")
	}

	if cfg.Audit.Enabled && cfg.Audit.SQLitePath == "" {
		return fmt.Errorf("audit.sqlite_path: required when audit is enabled")
	}

	switch cfg.Telemetry.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.log_level: unsupported level %q (supported: debug, info, warn, error)", cfg.Telemetry.LogLevel)
	}

	return nil
}
