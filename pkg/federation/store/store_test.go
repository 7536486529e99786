package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// backends runs a test against every StateStore implementation.
func backends(t *testing.T) map[string]StateStore {
	t.Helper()

	sqlite, err := NewSQLiteStore(&SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "federation.db"),
		MaxOpenConns: 2,
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}

	stores := map[string]StateStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestPolicyConfigurationRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cfg := policies.NewPolicyConfiguration("root.default", "WeightedPolicyManager", []byte(`{"weights":{"sc1":1}}`))

			stored, err := s.SetPolicyConfiguration(ctx, cfg)
			if err != nil {
				t.Fatalf("SetPolicyConfiguration() error = %v", err)
			}
			if stored.Version == "" {
				t.Error("stored configuration should carry a version")
			}

			got, err := s.PolicyConfiguration(ctx, "root.default")
			if err != nil {
				t.Fatalf("PolicyConfiguration() error = %v", err)
			}
			if !got.Configuration.Equal(cfg) {
				t.Errorf("read back configuration differs: got %q/%q", got.Configuration.Queue(), got.Configuration.ManagerType())
			}
			if got.Version != stored.Version {
				t.Errorf("Version = %q, want %q", got.Version, stored.Version)
			}
		})
	}
}

func TestPolicyConfigurationNotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.PolicyConfiguration(context.Background(), "root.ghost")
			if !errors.Is(err, policies.ErrPolicyConfigurationNotFound) {
				t.Errorf("error = %v, want ErrPolicyConfigurationNotFound", err)
			}
		})
	}
}

func TestSetPolicyConfigurationAssignsNewVersion(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, err := s.SetPolicyConfiguration(ctx, policies.NewPolicyConfiguration("q", "UniformPolicyManager", nil))
			if err != nil {
				t.Fatal(err)
			}
			second, err := s.SetPolicyConfiguration(ctx, policies.NewPolicyConfiguration("q", "PriorityPolicyManager", nil))
			if err != nil {
				t.Fatal(err)
			}
			if first.Version == second.Version {
				t.Error("rewriting a queue should assign a new version")
			}

			got, err := s.PolicyConfiguration(ctx, "q")
			if err != nil {
				t.Fatal(err)
			}
			if got.Configuration.ManagerType() != "PriorityPolicyManager" {
				t.Errorf("ManagerType = %q, want PriorityPolicyManager", got.Configuration.ManagerType())
			}
		})
	}
}

func TestSetPolicyConfigurationRejectsEmptyType(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.SetPolicyConfiguration(context.Background(), policies.NewPolicyConfiguration("q", "", nil)); err == nil {
				t.Error("empty manager type should be rejected")
			}
		})
	}
}

func TestPolicyConfigurationsSorted(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, queue := range []string{"root.b", "root.a", "*"} {
				if _, err := s.SetPolicyConfiguration(ctx, policies.NewPolicyConfiguration(queue, "UniformPolicyManager", nil)); err != nil {
					t.Fatal(err)
				}
			}

			stored, err := s.PolicyConfigurations(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(stored) != 3 {
				t.Fatalf("got %d configurations, want 3", len(stored))
			}
			for i, want := range []string{"*", "root.a", "root.b"} {
				if got := stored[i].Configuration.Queue(); got != want {
					t.Errorf("stored[%d].Queue() = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestSubClusterLifecycle(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := s.RegisterSubCluster(ctx, subcluster.Info{
				ID:        "us-east-1",
				State:     subcluster.StateNew,
				RMAddress: "rm1:8032",
			})
			if err != nil {
				t.Fatalf("RegisterSubCluster() error = %v", err)
			}

			if err := s.Heartbeat(ctx, "us-east-1", subcluster.StateRunning); err != nil {
				t.Fatalf("Heartbeat() error = %v", err)
			}

			infos, err := s.SubClusters(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(infos) != 1 || infos[0].State != subcluster.StateRunning {
				t.Fatalf("SubClusters() = %v, want one running sub-cluster", infos)
			}
			if infos[0].LastHeartbeat.IsZero() {
				t.Error("heartbeat timestamp should be set")
			}

			if err := s.DeregisterSubCluster(ctx, "us-east-1"); err != nil {
				t.Fatalf("DeregisterSubCluster() error = %v", err)
			}
			infos, err = s.SubClusters(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if infos[0].State != subcluster.StateDeregistered {
				t.Errorf("state after deregister = %v, want StateDeregistered", infos[0].State)
			}
		})
	}
}

func TestHeartbeatUnknownSubCluster(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := s.Heartbeat(context.Background(), "ghost", subcluster.StateRunning)
			if !errors.Is(err, ErrSubClusterNotFound) {
				t.Errorf("error = %v, want ErrSubClusterNotFound", err)
			}
		})
	}
}

func TestMemoryStoreClosed(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PolicyConfiguration(context.Background(), "q"); !errors.Is(err, ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}
