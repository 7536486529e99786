// Package audit records policy load outcomes to a local SQLite database.
// The audit trail answers "which policy governed this queue, and why" after
// the fact: each row captures the requested queue, the queue and manager
// type actually resolved, the fallback tier that supplied the
// configuration, and the store trouble encountered along the way.
package audit

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stratus-hq/federation/pkg/federation/policies"
)

// Config contains configuration for the audit recorder.
type Config struct {
	// Path is the audit database file path.
	Path string

	// Buffer is the size of the async write channel.
	// Default: 256
	Buffer int
}

// Recorder persists one row per policy load. It implements
// policies.Observer; resolution-only events are not recorded since every
// load row already embeds its resolution.
//
// Writes are asynchronous so recording never adds latency to the loading
// goroutine; a full buffer drops the row with a warning rather than
// blocking.
type Recorder struct {
	db      *sql.DB
	records chan record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger

	closeOnce sync.Once
}

type record struct {
	id             string
	requestedQueue string
	resolvedQueue  string
	managerType    string
	tier           string
	storeMisses    int
	storeFailures  int
	outcome        string
	errText        string
	durationMs     int64
	createdAt      int64
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS policy_loads (
	id              TEXT PRIMARY KEY,
	requested_queue TEXT NOT NULL,
	resolved_queue  TEXT NOT NULL,
	manager_type    TEXT NOT NULL,
	tier            TEXT NOT NULL,
	store_misses    INTEGER NOT NULL,
	store_failures  INTEGER NOT NULL,
	outcome         TEXT NOT NULL,
	error           TEXT NOT NULL DEFAULT '',
	duration_ms     INTEGER NOT NULL,
	created_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_policy_loads_queue ON policy_loads(requested_queue);
CREATE INDEX IF NOT EXISTS idx_policy_loads_created ON policy_loads(created_at);
`

// NewRecorder opens the audit database and starts the background writer.
func NewRecorder(cfg Config) (*Recorder, error) {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 256
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database %q: %w", cfg.Path, err)
	}
	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	r := &Recorder{
		db:      db,
		records: make(chan record, cfg.Buffer),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "federation.audit"),
	}

	r.wg.Add(1)
	go r.writeLoop()

	r.logger.Info("audit recorder started", "path", cfg.Path)
	return r, nil
}

// ObserveResolution is a no-op; load rows embed their resolution.
func (r *Recorder) ObserveResolution(event policies.ResolutionEvent) {}

// ObserveLoad queues a load outcome for persistence.
func (r *Recorder) ObserveLoad(event policies.LoadEvent) {
	rec := record{
		id:             uuid.NewString(),
		requestedQueue: event.Resolution.RequestedQueue,
		resolvedQueue:  event.Resolution.ResolvedQueue,
		managerType:    event.Resolution.ManagerType,
		tier:           event.Resolution.Tier.String(),
		storeMisses:    event.Resolution.StoreMisses,
		storeFailures:  event.Resolution.StoreFailures,
		outcome:        "success",
		durationMs:     event.Duration.Milliseconds(),
		createdAt:      time.Now().Unix(),
	}
	if event.Err != nil {
		rec.outcome = "error"
		rec.errText = event.Err.Error()
	}

	select {
	case r.records <- rec:
	default:
		r.logger.Warn("audit buffer full, dropping record", "queue", rec.requestedQueue)
	}
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()
	for {
		select {
		case rec := <-r.records:
			r.write(rec)
		case <-r.done:
			// Drain whatever is already buffered before exiting.
			for {
				select {
				case rec := <-r.records:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec record) {
	_, err := r.db.Exec(
		`INSERT INTO policy_loads
		 (id, requested_queue, resolved_queue, manager_type, tier, store_misses, store_failures, outcome, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.id, rec.requestedQueue, rec.resolvedQueue, rec.managerType, rec.tier,
		rec.storeMisses, rec.storeFailures, rec.outcome, rec.errText, rec.durationMs, rec.createdAt,
	)
	if err != nil {
		r.logger.Warn("failed to write audit record", "error", err)
	}
}

// LoadRecord is one persisted policy load, as returned by Recent.
type LoadRecord struct {
	ID             string
	RequestedQueue string
	ResolvedQueue  string
	ManagerType    string
	Tier           string
	StoreMisses    int
	StoreFailures  int
	Outcome        string
	Error          string
	Duration       time.Duration
	CreatedAt      time.Time
}

// Recent returns the most recent load records, newest first.
func (r *Recorder) Recent(limit int) ([]LoadRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(
		`SELECT id, requested_queue, resolved_queue, manager_type, tier, store_misses, store_failures, outcome, error, duration_ms, created_at
		 FROM policy_loads ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []LoadRecord
	for rows.Next() {
		var rec LoadRecord
		var durationMs, createdAt int64
		if err := rows.Scan(&rec.ID, &rec.RequestedQueue, &rec.ResolvedQueue, &rec.ManagerType, &rec.Tier,
			&rec.StoreMisses, &rec.StoreFailures, &rec.Outcome, &rec.Error, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.CreatedAt = time.Unix(createdAt, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close stops the background writer, drains buffered records, and closes
// the database.
func (r *Recorder) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		err = r.db.Close()
	})
	return err
}
