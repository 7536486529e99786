package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"stratus-hq/federation/pkg/federation/policies"
	"stratus-hq/federation/pkg/federation/subcluster"
)

// SQLiteConfig contains configuration for the SQLite state store backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is how long to wait for database locks.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/federation.db",
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 10,
	}
}

// SQLiteStore implements StateStore using SQLite. It enables write-ahead
// logging for concurrent readers and keeps the hot-path statements
// prepared.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	// prepared statements for the per-request paths
	getConfigStmt *sql.Stmt
	setConfigStmt *sql.Stmt

	closeOnce sync.Once
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS policy_configurations (
	queue        TEXT PRIMARY KEY,
	manager_type TEXT NOT NULL,
	params       BLOB NOT NULL,
	version      TEXT NOT NULL,
	updated_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS subclusters (
	id             TEXT PRIMARY KEY,
	state          TEXT NOT NULL,
	rm_address     TEXT NOT NULL DEFAULT '',
	capability     TEXT NOT NULL DEFAULT '',
	last_heartbeat INTEGER NOT NULL
);
`

// NewSQLiteStore opens a SQLite-backed state store, creating the schema if
// needed.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store database %q: %w", config.Path, err)
	}
	db.SetMaxOpenConns(config.MaxOpenConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: slog.Default().With("component", "federation.store.sqlite"),
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("failed to create state store schema: %w", err)
	}

	var err error
	s.getConfigStmt, err = s.db.Prepare(
		"SELECT manager_type, params, version, updated_at FROM policy_configurations WHERE queue = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare query: %w", err)
	}
	s.setConfigStmt, err = s.db.Prepare(
		`INSERT INTO policy_configurations (queue, manager_type, params, version, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(queue) DO UPDATE SET
		   manager_type = excluded.manager_type,
		   params = excluded.params,
		   version = excluded.version,
		   updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}

	s.logger.Info("state store opened", "path", s.config.Path)
	return nil
}

// PolicyConfiguration returns the stored configuration for a queue.
func (s *SQLiteStore) PolicyConfiguration(ctx context.Context, queue string) (*StoredPolicyConfiguration, error) {
	var (
		managerType string
		params      []byte
		version     string
		updatedAt   int64
	)
	err := s.getConfigStmt.QueryRowContext(ctx, queue).Scan(&managerType, &params, &version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("queue %q: %w", queue, policies.ErrPolicyConfigurationNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read policy configuration for queue %q: %w", queue, err)
	}

	return &StoredPolicyConfiguration{
		Configuration: policies.NewPolicyConfiguration(queue, managerType, params),
		Version:       version,
		UpdatedAt:     time.Unix(updatedAt, 0).UTC(),
	}, nil
}

// SetPolicyConfiguration writes a queue's policy configuration under a
// fresh version.
func (s *SQLiteStore) SetPolicyConfiguration(ctx context.Context, configuration *policies.PolicyConfiguration) (*StoredPolicyConfiguration, error) {
	if configuration == nil {
		return nil, fmt.Errorf("configuration must not be nil")
	}
	if configuration.ManagerType() == "" {
		return nil, fmt.Errorf("configuration manager type must not be empty")
	}

	stored := &StoredPolicyConfiguration{
		Configuration: configuration,
		Version:       uuid.NewString(),
		UpdatedAt:     time.Now().UTC(),
	}

	_, err := s.setConfigStmt.ExecContext(ctx,
		configuration.Queue(),
		configuration.ManagerType(),
		configuration.Params(),
		stored.Version,
		stored.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to write policy configuration for queue %q: %w", configuration.Queue(), err)
	}
	return stored, nil
}

// PolicyConfigurations lists all stored configurations sorted by queue.
func (s *SQLiteStore) PolicyConfigurations(ctx context.Context) ([]*StoredPolicyConfiguration, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT queue, manager_type, params, version, updated_at FROM policy_configurations ORDER BY queue")
	if err != nil {
		return nil, fmt.Errorf("failed to list policy configurations: %w", err)
	}
	defer rows.Close()

	var stored []*StoredPolicyConfiguration
	for rows.Next() {
		var (
			queue       string
			managerType string
			params      []byte
			version     string
			updatedAt   int64
		)
		if err := rows.Scan(&queue, &managerType, &params, &version, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan policy configuration: %w", err)
		}
		stored = append(stored, &StoredPolicyConfiguration{
			Configuration: policies.NewPolicyConfiguration(queue, managerType, params),
			Version:       version,
			UpdatedAt:     time.Unix(updatedAt, 0).UTC(),
		})
	}
	return stored, rows.Err()
}

// RegisterSubCluster adds or replaces a sub-cluster membership record.
func (s *SQLiteStore) RegisterSubCluster(ctx context.Context, info subcluster.Info) error {
	if info.ID.IsEmpty() {
		return fmt.Errorf("sub-cluster id must not be empty")
	}
	if info.LastHeartbeat.IsZero() {
		info.LastHeartbeat = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subclusters (id, state, rm_address, capability, last_heartbeat)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   state = excluded.state,
		   rm_address = excluded.rm_address,
		   capability = excluded.capability,
		   last_heartbeat = excluded.last_heartbeat`,
		info.ID.String(), info.State.String(), info.RMAddress, info.Capability, info.LastHeartbeat.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to register sub-cluster %q: %w", info.ID, err)
	}
	return nil
}

// Heartbeat updates a sub-cluster's state and heartbeat timestamp.
func (s *SQLiteStore) Heartbeat(ctx context.Context, id subcluster.ID, state subcluster.State) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE subclusters SET state = ?, last_heartbeat = ? WHERE id = ?",
		state.String(), time.Now().UTC().Unix(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to heartbeat sub-cluster %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("sub-cluster %q: %w", id, ErrSubClusterNotFound)
	}
	return nil
}

// SubClusters lists all registered sub-clusters sorted by identifier.
func (s *SQLiteStore) SubClusters(ctx context.Context) ([]subcluster.Info, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, state, rm_address, capability, last_heartbeat FROM subclusters ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-clusters: %w", err)
	}
	defer rows.Close()

	var infos []subcluster.Info
	for rows.Next() {
		var (
			id            string
			state         string
			rmAddress     string
			capability    string
			lastHeartbeat int64
		)
		if err := rows.Scan(&id, &state, &rmAddress, &capability, &lastHeartbeat); err != nil {
			return nil, fmt.Errorf("failed to scan sub-cluster: %w", err)
		}
		infos = append(infos, subcluster.Info{
			ID:            subcluster.ID(id),
			State:         subcluster.ParseState(state),
			RMAddress:     rmAddress,
			Capability:    capability,
			LastHeartbeat: time.Unix(lastHeartbeat, 0).UTC(),
		})
	}
	return infos, rows.Err()
}

// DeregisterSubCluster marks a sub-cluster as deregistered.
func (s *SQLiteStore) DeregisterSubCluster(ctx context.Context, id subcluster.ID) error {
	return s.Heartbeat(ctx, id, subcluster.StateDeregistered)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.getConfigStmt != nil {
			s.getConfigStmt.Close()
		}
		if s.setConfigStmt != nil {
			s.setConfigStmt.Close()
		}
		err = s.db.Close()
	})
	return err
}
