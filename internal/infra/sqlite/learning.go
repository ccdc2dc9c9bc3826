package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/stats"
)

// ─── Learning Records ───────────────────────────────────────────────────────

// RecordLearning inserts a learning record and folds its pass rate into the
// mastery state of every capability it names, all in one transaction.
// Returns the updated capability nodes.
func (d *DB) RecordLearning(rec domain.LearningRecord) ([]domain.CapabilityNode, error) {
	if err := stats.CheckObservation(rec.PassRate); err != nil {
		return nil, err
	}
	if !domain.IsKnownAgent(rec.AgentID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgent, rec.AgentID)
	}

	caps, err := json.Marshal(rec.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("marshal capabilities: %w", err)
	}
	insights, err := json.Marshal(rec.Insights)
	if err != nil {
		return nil, fmt.Errorf("marshal insights: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = tx.Exec(
		`INSERT INTO learning_records (id, agent_id, pass_rate, tier, capabilities, insights, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.AgentID, rec.PassRate, rec.Tier, string(caps), string(insights), createdAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	updated := make([]domain.CapabilityNode, 0, len(rec.Capabilities))
	for _, capability := range rec.Capabilities {
		node, err := observeCapabilityTx(tx, capability, rec.AgentID, rec.PassRate, createdAt)
		if err != nil {
			return nil, err
		}
		updated = append(updated, node)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return updated, nil
}

// observeCapabilityTx folds one observation into a capability node inside an
// open transaction.
func observeCapabilityTx(tx *sql.Tx, capability, agentID string, passRate float64, now time.Time) (domain.CapabilityNode, error) {
	var m stats.Mastery
	err := tx.QueryRow(
		`SELECT test_count, success_count, mastery_level, evolution_trend
		 FROM capability_nodes WHERE capability = ? AND agent_id = ?`,
		capability, agentID,
	).Scan(&m.TestCount, &m.SuccessCount, &m.Level, &m.Trend)
	if err != nil && err != sql.ErrNoRows {
		return domain.CapabilityNode{}, fmt.Errorf("load capability node: %w", err)
	}

	m, err = m.Observe(passRate)
	if err != nil {
		return domain.CapabilityNode{}, err
	}

	_, err = tx.Exec(
		`INSERT INTO capability_nodes (capability, agent_id, mastery_level, test_count, success_count, evolution_trend, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(capability, agent_id) DO UPDATE SET
			mastery_level=excluded.mastery_level,
			test_count=excluded.test_count,
			success_count=excluded.success_count,
			evolution_trend=excluded.evolution_trend,
			updated_at=excluded.updated_at`,
		capability, agentID, m.Level, m.TestCount, m.SuccessCount, m.Trend, now.Unix(),
	)
	if err != nil {
		return domain.CapabilityNode{}, fmt.Errorf("upsert capability node: %w", err)
	}

	return domain.CapabilityNode{
		Capability:   capability,
		AgentID:      agentID,
		Mastery:      m.Level,
		TestCount:    m.TestCount,
		SuccessCount: m.SuccessCount,
		Trend:        m.Trend,
		UpdatedAt:    now,
	}, nil
}

// CountRecords returns the total number of learning records.
func (d *DB) CountRecords() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM learning_records`).Scan(&n)
	return n, err
}

// ListRecordsByAgent returns the most recent records for one agent.
func (d *DB) ListRecordsByAgent(agentID string, limit int) ([]domain.LearningRecord, error) {
	rows, err := d.db.Query(
		`SELECT id, agent_id, pass_rate, tier, capabilities, insights, created_at
		 FROM learning_records WHERE agent_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		agentID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.LearningRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(s scanner) (domain.LearningRecord, error) {
	var rec domain.LearningRecord
	var caps, insights string
	var createdAt int64

	err := s.Scan(&rec.ID, &rec.AgentID, &rec.PassRate, &rec.Tier, &caps, &insights, &createdAt)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal([]byte(caps), &rec.Capabilities); err != nil {
		return rec, fmt.Errorf("unmarshal capabilities: %w", err)
	}
	if err := json.Unmarshal([]byte(insights), &rec.Insights); err != nil {
		return rec, fmt.Errorf("unmarshal insights: %w", err)
	}
	rec.CreatedAt = unixTime(createdAt)
	return rec, nil
}

// ─── Capability Nodes ───────────────────────────────────────────────────────

// GetCapability returns one capability node, or nil if never observed.
func (d *DB) GetCapability(capability, agentID string) (*domain.CapabilityNode, error) {
	row := d.db.QueryRow(
		`SELECT capability, agent_id, mastery_level, test_count, success_count, evolution_trend, updated_at
		 FROM capability_nodes WHERE capability = ? AND agent_id = ?`,
		capability, agentID,
	)
	node, err := scanCapability(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// ListCapabilities returns all capability nodes ordered by mastery descending.
func (d *DB) ListCapabilities() ([]domain.CapabilityNode, error) {
	return d.queryCapabilities(
		`SELECT capability, agent_id, mastery_level, test_count, success_count, evolution_trend, updated_at
		 FROM capability_nodes ORDER BY mastery_level DESC, capability`,
	)
}

// ListCapabilitiesByAgent returns one agent's capability nodes, best first.
func (d *DB) ListCapabilitiesByAgent(agentID string) ([]domain.CapabilityNode, error) {
	return d.queryCapabilities(
		`SELECT capability, agent_id, mastery_level, test_count, success_count, evolution_trend, updated_at
		 FROM capability_nodes WHERE agent_id = ?
		 ORDER BY mastery_level DESC, capability`,
		agentID,
	)
}

func (d *DB) queryCapabilities(query string, args ...any) ([]domain.CapabilityNode, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []domain.CapabilityNode
	for rows.Next() {
		node, err := scanCapability(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

func scanCapability(s scanner) (domain.CapabilityNode, error) {
	var node domain.CapabilityNode
	var updatedAt int64
	err := s.Scan(&node.Capability, &node.AgentID, &node.Mastery,
		&node.TestCount, &node.SuccessCount, &node.Trend, &updatedAt)
	if err != nil {
		return node, err
	}
	node.UpdatedAt = unixTime(updatedAt)
	return node, nil
}

// ─── Collaboration Patterns ─────────────────────────────────────────────────

// ObserveCollaboration folds one synergy observation into the running mean
// for an agent pair and returns the updated pattern. The pair is normalized
// so agent1 < agent2 lexicographically.
func (d *DB) ObserveCollaboration(agentA, agentB string, score float64) (domain.CollaborationPattern, error) {
	var zero domain.CollaborationPattern

	if err := stats.CheckObservation(score); err != nil {
		return zero, err
	}
	if agentA == agentB {
		return zero, fmt.Errorf("%w: %q", domain.ErrSelfPairing, agentA)
	}
	for _, id := range []string{agentA, agentB} {
		if !domain.IsKnownAgent(id) {
			return zero, fmt.Errorf("%w: %q", domain.ErrUnknownAgent, id)
		}
	}
	if agentA > agentB {
		agentA, agentB = agentB, agentA
	}

	tx, err := d.db.Begin()
	if err != nil {
		return zero, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var mean float64
	var count int
	err = tx.QueryRow(
		`SELECT synergy_score, discovery_count FROM collaboration_patterns
		 WHERE agent1_id = ? AND agent2_id = ?`,
		agentA, agentB,
	).Scan(&mean, &count)
	if err != nil && err != sql.ErrNoRows {
		return zero, fmt.Errorf("load collaboration: %w", err)
	}

	mean, err = stats.RunningMean(mean, count, score)
	if err != nil {
		return zero, err
	}
	count++
	now := time.Now()

	_, err = tx.Exec(
		`INSERT INTO collaboration_patterns (agent1_id, agent2_id, synergy_score, discovery_count, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(agent1_id, agent2_id) DO UPDATE SET
			synergy_score=excluded.synergy_score,
			discovery_count=excluded.discovery_count,
			updated_at=excluded.updated_at`,
		agentA, agentB, mean, count, now.Unix(),
	)
	if err != nil {
		return zero, fmt.Errorf("upsert collaboration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("commit: %w", err)
	}

	return domain.CollaborationPattern{
		Agent1:         agentA,
		Agent2:         agentB,
		Synergy:        mean,
		PatternType:    stats.Classify(mean),
		DiscoveryCount: count,
		UpdatedAt:      now,
	}, nil
}

// GetCollaboration returns the pattern for an agent pair (order-insensitive),
// or nil if the pair was never observed. PatternType is derived from the
// stored score.
func (d *DB) GetCollaboration(agentA, agentB string) (*domain.CollaborationPattern, error) {
	if agentA > agentB {
		agentA, agentB = agentB, agentA
	}
	row := d.db.QueryRow(
		`SELECT agent1_id, agent2_id, synergy_score, discovery_count, updated_at
		 FROM collaboration_patterns WHERE agent1_id = ? AND agent2_id = ?`,
		agentA, agentB,
	)
	p, err := scanCollaboration(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCollaborations returns all collaboration patterns, strongest first.
func (d *DB) ListCollaborations() ([]domain.CollaborationPattern, error) {
	rows, err := d.db.Query(
		`SELECT agent1_id, agent2_id, synergy_score, discovery_count, updated_at
		 FROM collaboration_patterns ORDER BY synergy_score DESC, agent1_id, agent2_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []domain.CollaborationPattern
	for rows.Next() {
		p, err := scanCollaboration(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func scanCollaboration(s scanner) (domain.CollaborationPattern, error) {
	var p domain.CollaborationPattern
	var updatedAt int64
	err := s.Scan(&p.Agent1, &p.Agent2, &p.Synergy, &p.DiscoveryCount, &updatedAt)
	if err != nil {
		return p, err
	}
	p.PatternType = stats.Classify(p.Synergy)
	p.UpdatedAt = unixTime(updatedAt)
	return p, nil
}
