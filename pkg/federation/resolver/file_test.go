package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"stratus-hq/federation/pkg/federation/subcluster"
)

func writeMachineList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machines.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileResolverLoad(t *testing.T) {
	path := writeMachineList(t, `
# node,rack,subcluster
node1,rack1,us-east-1
node2,rack1,us-east-1
node3,,us-west-2
`)

	r := NewFileResolver(path)
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		node string
		want subcluster.ID
	}{
		{"node1", "us-east-1"},
		{"node2", "us-east-1"},
		{"node3", "us-west-2"},
	}
	for _, tt := range tests {
		got, err := r.SubClusterForNode(tt.node)
		if err != nil {
			t.Errorf("SubClusterForNode(%q) error = %v", tt.node, err)
			continue
		}
		if got != tt.want {
			t.Errorf("SubClusterForNode(%q) = %q, want %q", tt.node, got, tt.want)
		}
	}

	if got, err := r.SubClusterForRack("rack1"); err != nil || got != "us-east-1" {
		t.Errorf("SubClusterForRack(rack1) = %q, %v, want us-east-1", got, err)
	}

	ids := r.SubClusters()
	if len(ids) != 2 || ids[0] != "us-east-1" || ids[1] != "us-west-2" {
		t.Errorf("SubClusters() = %v, want [us-east-1 us-west-2]", ids)
	}
}

func TestFileResolverMisses(t *testing.T) {
	path := writeMachineList(t, "node1,rack1,us-east-1\n")
	r := NewFileResolver(path)
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := r.SubClusterForNode("ghost"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("SubClusterForNode(ghost) error = %v, want ErrNodeNotFound", err)
	}
	if _, err := r.SubClusterForRack("ghost"); !errors.Is(err, ErrRackNotFound) {
		t.Errorf("SubClusterForRack(ghost) error = %v, want ErrRackNotFound", err)
	}
}

func TestFileResolverMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too few fields", "node1,us-east-1\n"},
		{"empty subcluster", "node1,rack1,\n"},
		{"empty node", ",rack1,us-east-1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewFileResolver(writeMachineList(t, tt.content))
			if err := r.Load(); err == nil {
				t.Error("Load() should fail on malformed input")
			}
		})
	}
}

func TestFileResolverLoadReplacesMapping(t *testing.T) {
	path := writeMachineList(t, "node1,rack1,us-east-1\n")
	r := NewFileResolver(path)
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("node1,rack1,eu-central-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := r.Load(); err != nil {
		t.Fatalf("Load() after rewrite error = %v", err)
	}

	got, err := r.SubClusterForNode("node1")
	if err != nil {
		t.Fatalf("SubClusterForNode() error = %v", err)
	}
	if got != "eu-central-1" {
		t.Errorf("SubClusterForNode(node1) = %q, want eu-central-1", got)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := writeMachineList(t, "node1,rack1,us-east-1\n")
	r := NewFileResolver(path)
	if err := r.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	w := NewWatcher(r, path, 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("node1,rack1,ap-south-1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got, err := r.SubClusterForNode("node1"); err == nil && got == "ap-south-1" {
			cancel()
			<-done
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("watcher did not reload the machine list in time")
}
