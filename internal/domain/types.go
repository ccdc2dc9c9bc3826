// Package domain holds the core types and fixed registries of the Hivemind
// collective. Types here are pure data — no I/O, no infrastructure imports.
package domain

import "time"

// ─── Learning ───────────────────────────────────────────────────────────────

// LearningRecord is one ingested observation for a single agent.
// Immutable once stored.
type LearningRecord struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agent_id"`
	PassRate     float64   `json:"pass_rate"` // 0.0 - 1.0
	Tier         int       `json:"tier"`
	Capabilities []string  `json:"capabilities"`
	Insights     []string  `json:"insights,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CapabilityNode tracks running mastery of one capability for one agent.
// Invariant: Mastery == SuccessCount / TestCount after every update.
type CapabilityNode struct {
	Capability   string    `json:"capability"`
	AgentID      string    `json:"agent_id"`
	Mastery      float64   `json:"mastery_level"` // 0.0 - 1.0
	TestCount    int       `json:"test_count"`
	SuccessCount int       `json:"success_count"`
	Trend        float64   `json:"evolution_trend"` // Last mastery delta
	UpdatedAt    time.Time `json:"updated_at"`
}

// CollaborationPattern tracks the running synergy mean for an agent pair.
// Agent1 < Agent2 lexicographically. PatternType is derived from the score
// at read time and never stored.
type CollaborationPattern struct {
	Agent1         string    `json:"agent1_id"`
	Agent2         string    `json:"agent2_id"`
	Synergy        float64   `json:"synergy_score"` // Running mean, 0.0 - 1.0
	PatternType    string    `json:"pattern_type"`
	DiscoveryCount int       `json:"discovery_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EvolutionSnapshot is an append-only point-in-time record of collective
// health. Velocity is the delta vs the immediately preceding snapshot.
type EvolutionSnapshot struct {
	ID               int64           `json:"id"`
	CollectiveHealth float64         `json:"collective_health"`
	TierHealth       map[int]float64 `json:"tier_health"`
	Velocity         float64         `json:"velocity"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ─── Scenario ───────────────────────────────────────────────────────────────

// ComplexityLevel bounds the participant count of a generated scenario.
type ComplexityLevel struct {
	Level           int    `json:"level"`
	Name            string `json:"name"`
	MinParticipants int    `json:"min_participants"`
	MaxParticipants int    `json:"max_participants"`
}

// ChaosEvent is one entry from the fixed disruption table. Each event is
// independently included in a scenario via a Bernoulli trial.
type ChaosEvent struct {
	Name            string  `json:"name"`
	BaseProbability float64 `json:"base_probability"`
	Severity        string  `json:"severity"`
}

// Scenario is a procedurally generated training exercise for a subset of
// the collective.
type Scenario struct {
	Complexity   ComplexityLevel `json:"complexity"`
	Challenge    string          `json:"challenge"`
	Participants []string        `json:"participants"`
	ChaosEvents  []ChaosEvent    `json:"chaos_events"`
	Description  string          `json:"description"`
}

// ─── Recommendations ────────────────────────────────────────────────────────

// Priority labels for recommendations. Ordering is defined by an explicit
// rank map in the stats package, never lexically.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Recommendation is one priority-ordered suggestion derived from the
// collective's current statistics.
type Recommendation struct {
	Priority string  `json:"priority"` // high | medium | low
	Urgency  float64 `json:"urgency"`  // Tie-break within a priority band
	Category string  `json:"category"` // e.g. "capability", "collaboration"
	Subject  string  `json:"subject"`  // What the recommendation is about
	Action   string  `json:"action"`   // Suggested next step
}

// ─── Export ─────────────────────────────────────────────────────────────────

// ExportBundle is the full nested view of the collective's state, serialized
// as a single JSON document for external consumption.
type ExportBundle struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Capabilities    []CapabilityNode       `json:"capability_graph"`
	Collaborations  []CollaborationPattern `json:"collaboration_network"`
	Snapshot        *EvolutionSnapshot     `json:"latest_snapshot,omitempty"`
	Recommendations []Recommendation       `json:"recommendations"`
}
