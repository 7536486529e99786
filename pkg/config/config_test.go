package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, DefaultStoreBackend)
	}
	if cfg.Store.SQLiteBusyTimeout != DefaultSQLiteBusyTimeout {
		t.Errorf("Store.SQLiteBusyTimeout = %v, want %v", cfg.Store.SQLiteBusyTimeout, DefaultSQLiteBusyTimeout)
	}
	if cfg.Facade.CacheTTL != DefaultFacadeCacheTTL {
		t.Errorf("Facade.CacheTTL = %v, want %v", cfg.Facade.CacheTTL, DefaultFacadeCacheTTL)
	}
	if cfg.Telemetry.LogLevel != DefaultLogLevel {
		t.Errorf("Telemetry.LogLevel = %q, want %q", cfg.Telemetry.LogLevel, DefaultLogLevel)
	}
}

func TestFederationConfigFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		cfg        FederationConfig
		wantType   string
		wantParams string
	}{
		{
			name:       "unset uses built-in defaults",
			cfg:        FederationConfig{},
			wantType:   DefaultPolicyManager,
			wantParams: DefaultPolicyManagerParams,
		},
		{
			name: "configured values win",
			cfg: FederationConfig{
				PolicyManager:       "WeightedPolicyManager",
				PolicyManagerParams: "weight=1",
			},
			wantType:   "WeightedPolicyManager",
			wantParams: "weight=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.PolicyManagerType(); got != tt.wantType {
				t.Errorf("PolicyManagerType() = %q, want %q", got, tt.wantType)
			}
			if got := tt.cfg.PolicyManagerParamsOrDefault(); got != tt.wantParams {
				t.Errorf("PolicyManagerParamsOrDefault() = %q, want %q", got, tt.wantParams)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown store backend",
			mutate:  func(cfg *Config) { cfg.Store.Backend = "etcd" },
			wantErr: true,
		},
		{
			name:    "bad refresh schedule",
			mutate:  func(cfg *Config) { cfg.Facade.RefreshSchedule = "not a cron" },
			wantErr: true,
		},
		{
			name:    "valid refresh schedule",
			mutate:  func(cfg *Config) { cfg.Facade.RefreshSchedule = "*/5 * * * *" },
			wantErr: false,
		},
		{
			name:    "watch without machine list",
			mutate:  func(cfg *Config) { cfg.Resolver.Watch = true },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(cfg *Config) { cfg.Telemetry.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
federation:
  home_subcluster: us-east-1
  policy_manager: WeightedPolicyManager
  policy_manager_params: '{"weights":{"us-east-1":1}}'
store:
  backend: sqlite
  sqlite_path: ` + filepath.Join(dir, "fed.db") + `
facade:
  cache_ttl: 30s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Federation.HomeSubCluster != "us-east-1" {
		t.Errorf("HomeSubCluster = %q, want us-east-1", cfg.Federation.HomeSubCluster)
	}
	if cfg.Federation.PolicyManagerType() != "WeightedPolicyManager" {
		t.Errorf("PolicyManagerType() = %q, want WeightedPolicyManager", cfg.Federation.PolicyManagerType())
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q, want sqlite", cfg.Store.Backend)
	}
	if cfg.Facade.CacheTTL != 30*time.Second {
		t.Errorf("Facade.CacheTTL = %v, want 30s", cfg.Facade.CacheTTL)
	}
	// Unset sections still pick up defaults.
	if cfg.Facade.CacheMaxEntries != DefaultFacadeCacheMaxEntries {
		t.Errorf("Facade.CacheMaxEntries = %d, want %d", cfg.Facade.CacheMaxEntries, DefaultFacadeCacheMaxEntries)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("LoadConfig() on a missing file should fail")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("federation:\n  policy_manager: UniformPolicyManager\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STRATUS_FEDERATION_POLICY_MANAGER", "PriorityPolicyManager")
	t.Setenv("STRATUS_FACADE_CACHE_TTL", "1m")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() error = %v", err)
	}
	if cfg.Federation.PolicyManager != "PriorityPolicyManager" {
		t.Errorf("PolicyManager = %q, want PriorityPolicyManager", cfg.Federation.PolicyManager)
	}
	if cfg.Facade.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.Facade.CacheTTL)
	}
}
