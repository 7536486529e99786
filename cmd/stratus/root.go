package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stratus-hq/federation/pkg/config"
	"stratus-hq/federation/pkg/federation/resolver"
	"stratus-hq/federation/pkg/federation/store"
	"stratus-hq/federation/pkg/federation/store/facade"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "stratus",
	Short: "Stratus - federated cluster policy resolution",
	Long: `Stratus resolves which routing policy governs a queue in a federated
cluster deployment.

Policy configurations live in a shared state store, keyed by queue.
Resolution falls back from the requested queue to the default queue entry,
and finally to local static configuration, so a routing policy is always
available even when the store is empty or unreachable.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration file (with environment overrides) and
// initializes logging from it. A missing file falls back to built-in
// defaults so read-only commands work out of the box.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg = config.DefaultConfig()
		} else {
			return nil, fmt.Errorf("failed to load config %q: %w", cfgFile, err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch cfg.Telemetry.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// buildStack assembles the state store, sub-cluster resolver, and caching
// facade from configuration. The returned cleanup closes everything in
// reverse order.
func buildStack(cfg *config.Config) (*facade.Facade, store.StateStore, func(), error) {
	var st store.StateStore
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(&store.SQLiteConfig{
			Path:         cfg.Store.SQLitePath,
			BusyTimeout:  cfg.Store.SQLiteBusyTimeout,
			MaxOpenConns: cfg.Store.SQLiteMaxOpenConns,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		st = s
	default:
		st = store.NewMemoryStore()
	}

	var scResolver resolver.SubClusterResolver
	var stopWatcher context.CancelFunc
	if cfg.Resolver.MachineListPath != "" {
		fileResolver := resolver.NewFileResolver(cfg.Resolver.MachineListPath)
		if err := fileResolver.Load(); err != nil {
			st.Close()
			return nil, nil, nil, fmt.Errorf("failed to load machine list: %w", err)
		}
		scResolver = fileResolver

		if cfg.Resolver.Watch {
			watcher := resolver.NewWatcher(fileResolver, cfg.Resolver.MachineListPath, cfg.Resolver.DebounceInterval)
			var ctx context.Context
			ctx, stopWatcher = context.WithCancel(context.Background())
			go func() {
				if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Default().Warn("machine list watcher stopped", "error", err)
				}
			}()
		}
	}

	f, err := facade.New(st, scResolver, facade.Config{
		CacheTTL:        cfg.Facade.CacheTTL,
		CacheMaxEntries: cfg.Facade.CacheMaxEntries,
		RefreshSchedule: cfg.Facade.RefreshSchedule,
	})
	if err != nil {
		if stopWatcher != nil {
			stopWatcher()
		}
		st.Close()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if stopWatcher != nil {
			stopWatcher()
		}
		f.Close()
		st.Close()
	}
	return f, st, cleanup, nil
}
