package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hivemind-network/hivemind/internal/domain"
)

// ─── Evolution Snapshots ────────────────────────────────────────────────────

// InsertSnapshot appends an evolution snapshot. Velocity is computed here as
// the delta against the immediately preceding snapshot's collective health
// (0 for the first snapshot). Snapshots are never mutated after insertion.
func (d *DB) InsertSnapshot(collectiveHealth float64, tierHealth map[int]float64) (domain.EvolutionSnapshot, error) {
	var zero domain.EvolutionSnapshot

	tierJSON, err := marshalTierHealth(tierHealth)
	if err != nil {
		return zero, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	velocity := 0.0
	var prev float64
	err = tx.QueryRow(
		`SELECT collective_health FROM evolution_snapshots ORDER BY id DESC LIMIT 1`,
	).Scan(&prev)
	switch err {
	case nil:
		velocity = collectiveHealth - prev
	case sql.ErrNoRows:
		// First snapshot
	default:
		return zero, fmt.Errorf("load previous snapshot: %w", err)
	}

	now := time.Now()
	res, err := tx.Exec(
		`INSERT INTO evolution_snapshots (collective_health, tier_health, velocity, created_at)
		 VALUES (?, ?, ?, ?)`,
		collectiveHealth, tierJSON, velocity, now.Unix(),
	)
	if err != nil {
		return zero, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return zero, fmt.Errorf("snapshot id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit: %w", err)
	}

	return domain.EvolutionSnapshot{
		ID:               id,
		CollectiveHealth: collectiveHealth,
		TierHealth:       tierHealth,
		Velocity:         velocity,
		CreatedAt:        now,
	}, nil
}

// LatestSnapshot returns the most recent snapshot, or ErrNoSnapshot.
func (d *DB) LatestSnapshot() (domain.EvolutionSnapshot, error) {
	row := d.db.QueryRow(
		`SELECT id, collective_health, tier_health, velocity, created_at
		 FROM evolution_snapshots ORDER BY id DESC LIMIT 1`,
	)
	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return domain.EvolutionSnapshot{}, domain.ErrNoSnapshot
	}
	return snap, err
}

// ListSnapshots returns the most recent snapshots, newest first.
func (d *DB) ListSnapshots(limit int) ([]domain.EvolutionSnapshot, error) {
	rows, err := d.db.Query(
		`SELECT id, collective_health, tier_health, velocity, created_at
		 FROM evolution_snapshots ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.EvolutionSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func scanSnapshot(s scanner) (domain.EvolutionSnapshot, error) {
	var snap domain.EvolutionSnapshot
	var tierJSON string
	var createdAt int64

	err := s.Scan(&snap.ID, &snap.CollectiveHealth, &tierJSON, &snap.Velocity, &createdAt)
	if err != nil {
		return snap, err
	}
	snap.TierHealth, err = unmarshalTierHealth(tierJSON)
	if err != nil {
		return snap, err
	}
	snap.CreatedAt = unixTime(createdAt)
	return snap, nil
}

// JSON object keys must be strings, so the tier map round-trips through a
// map[string]float64.
func marshalTierHealth(m map[int]float64) (string, error) {
	byName := make(map[string]float64, len(m))
	for tier, health := range m {
		byName[strconv.Itoa(tier)] = health
	}
	b, err := json.Marshal(byName)
	if err != nil {
		return "", fmt.Errorf("marshal tier health: %w", err)
	}
	return string(b), nil
}

func unmarshalTierHealth(s string) (map[int]float64, error) {
	var byName map[string]float64
	if err := json.Unmarshal([]byte(s), &byName); err != nil {
		return nil, fmt.Errorf("unmarshal tier health: %w", err)
	}
	m := make(map[int]float64, len(byName))
	for name, health := range byName {
		tier, err := strconv.Atoi(name)
		if err != nil {
			return nil, fmt.Errorf("unmarshal tier health: bad tier key %q", name)
		}
		m[tier] = health
	}
	return m, nil
}
