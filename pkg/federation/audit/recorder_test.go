package audit

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"stratus-hq/federation/pkg/federation/policies"
)

func newTestRecorder(t *testing.T) *Recorder {
	t.Helper()
	r, err := NewRecorder(Config{Path: filepath.Join(t.TempDir(), "audit.db")})
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func waitForRecords(t *testing.T, r *Recorder, want int) []LoadRecord {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		records, err := r.Recent(10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) >= want {
			return records
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("audit records not written in time (want %d)", want)
	return nil
}

func TestRecorderPersistsLoads(t *testing.T) {
	r := newTestRecorder(t)

	r.ObserveLoad(policies.LoadEvent{
		Resolution: policies.ResolutionEvent{
			RequestedQueue: "root.a",
			ResolvedQueue:  "*",
			ManagerType:    "UniformPolicyManager",
			Tier:           policies.TierLocalConfig,
			StoreMisses:    2,
		},
		Duration: 7 * time.Millisecond,
	})

	records := waitForRecords(t, r, 1)
	rec := records[0]
	if rec.RequestedQueue != "root.a" || rec.ResolvedQueue != "*" {
		t.Errorf("queues = %q/%q, want root.a/*", rec.RequestedQueue, rec.ResolvedQueue)
	}
	if rec.Tier != "local-config" {
		t.Errorf("Tier = %q, want local-config", rec.Tier)
	}
	if rec.Outcome != "success" || rec.Error != "" {
		t.Errorf("outcome = %q/%q, want success with no error", rec.Outcome, rec.Error)
	}
	if rec.StoreMisses != 2 {
		t.Errorf("StoreMisses = %d, want 2", rec.StoreMisses)
	}
	if rec.ID == "" {
		t.Error("record should carry an id")
	}
}

func TestRecorderPersistsFailures(t *testing.T) {
	r := newTestRecorder(t)

	r.ObserveLoad(policies.LoadEvent{
		Resolution: policies.ResolutionEvent{
			RequestedQueue: "root.b",
			ManagerType:    "GhostPolicyManager",
			Tier:           policies.TierQueue,
		},
		Err: errors.New("unknown policy manager type"),
	})

	records := waitForRecords(t, r, 1)
	if records[0].Outcome != "error" {
		t.Errorf("Outcome = %q, want error", records[0].Outcome)
	}
	if records[0].Error == "" {
		t.Error("failed load should record the error text")
	}
}

func TestRecorderCloseDrains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	r, err := NewRecorder(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		r.ObserveLoad(policies.LoadEvent{
			Resolution: policies.ResolutionEvent{RequestedQueue: "q", ManagerType: "UniformPolicyManager"},
		})
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewRecorder(Config{Path: path})
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 5 {
		t.Errorf("got %d records after close, want 5", len(records))
	}
}
