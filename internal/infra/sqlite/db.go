// Package sqlite provides the persistent learning store for Hivemind.
// Uses WAL mode for concurrent reads and crash-safe writes. The four tables
// here are owned exclusively by this package; other components only read or
// request insertion.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db       *sql.DB
	inMemory bool
}

// Open creates or opens the SQLite database at dir/learning.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "learning.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	return open(dsn, false)
}

// memCounter distinguishes in-memory databases within one process.
var memCounter atomic.Int64

// OpenMemory opens an in-memory database. Used by tests and as the
// degraded-mode fallback when the on-disk store cannot be opened.
// Each call gets its own database: a plain ":memory:?cache=shared" DSN
// would alias every in-memory store in the process onto one database.
func OpenMemory() (*DB, error) {
	dsn := fmt.Sprintf("file:hivemind_mem_%d?mode=memory&cache=shared", memCounter.Add(1))
	return open(dsn, true)
}

func open(dsn string, inMemory bool) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// SQLite is single-writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	d := &DB{db: db, inMemory: inMemory}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// InMemory reports whether this store is running without a backing file.
func (d *DB) InMemory() bool {
	return d.inMemory
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// One row per ingested observation. Append-only.
		`CREATE TABLE IF NOT EXISTS learning_records (
			id           TEXT PRIMARY KEY,
			agent_id     TEXT NOT NULL,
			pass_rate    REAL NOT NULL,
			tier         INTEGER NOT NULL,
			capabilities TEXT NOT NULL DEFAULT '[]',
			insights     TEXT NOT NULL DEFAULT '[]',
			created_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_agent ON learning_records(agent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created ON learning_records(created_at)`,

		// Running mastery per (capability, agent).
		// mastery_level == success_count / test_count at all times.
		`CREATE TABLE IF NOT EXISTS capability_nodes (
			capability      TEXT NOT NULL,
			agent_id        TEXT NOT NULL,
			mastery_level   REAL NOT NULL DEFAULT 0,
			test_count      INTEGER NOT NULL DEFAULT 0,
			success_count   INTEGER NOT NULL DEFAULT 0,
			evolution_trend REAL NOT NULL DEFAULT 0,
			updated_at      INTEGER NOT NULL,
			PRIMARY KEY (capability, agent_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cap_agent ON capability_nodes(agent_id)`,

		// Running synergy mean per normalized agent pair (agent1 < agent2).
		// The pattern label is derived from synergy_score on read, never stored.
		`CREATE TABLE IF NOT EXISTS collaboration_patterns (
			agent1_id       TEXT NOT NULL,
			agent2_id       TEXT NOT NULL,
			synergy_score   REAL NOT NULL DEFAULT 0,
			discovery_count INTEGER NOT NULL DEFAULT 0,
			updated_at      INTEGER NOT NULL,
			PRIMARY KEY (agent1_id, agent2_id)
		)`,

		// Point-in-time collective health. Append-only.
		`CREATE TABLE IF NOT EXISTS evolution_snapshots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			collective_health REAL NOT NULL,
			tier_health       TEXT NOT NULL DEFAULT '{}',
			velocity          REAL NOT NULL DEFAULT 0,
			created_at        INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON evolution_snapshots(created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func unixTime(ts int64) time.Time {
	return time.Unix(ts, 0).UTC()
}
