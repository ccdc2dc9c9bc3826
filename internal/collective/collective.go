// Package collective computes aggregate views over the learning store:
// per-tier summaries, capability rankings, priority-ordered recommendations,
// and the full JSON export bundle.
//
// Everything here is read-only aggregation — the store owns all mutation.
package collective

import (
	"fmt"
	"time"

	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/infra/sqlite"
	"github.com/hivemind-network/hivemind/internal/stats"
)

// Thresholds for recommendation triggers.
const (
	weakMasteryThreshold  = 0.4
	plateauTrendEpsilon   = 0.01
	plateauMinTests       = 5
	weakMinTests          = 3
	antiPatternMinReports = 2
)

// Intelligence aggregates collective statistics from the store.
type Intelligence struct {
	store *sqlite.DB
}

// New creates an Intelligence over the given store.
func New(store *sqlite.DB) *Intelligence {
	return &Intelligence{store: store}
}

// ─── Tier Summaries ─────────────────────────────────────────────────────────

// TierSummary describes the mastery distribution of one tier.
type TierSummary struct {
	Tier     int     `json:"tier"`
	Name     string  `json:"name"`
	Agents   int     `json:"agents_observed"`
	Mean     float64 `json:"mean_mastery"`
	Min      float64 `json:"min_mastery"`
	Max      float64 `json:"max_mastery"`
	Variance float64 `json:"mastery_variance"`
}

// TierSummaries computes mastery statistics per tier over all observed
// capability nodes. Tiers with no observations get a zero-valued summary.
func (c *Intelligence) TierSummaries() ([]TierSummary, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}

	byTier := make(map[int][]float64)
	agentsByTier := make(map[int]map[string]bool)
	for _, node := range nodes {
		tier, err := domain.TierOf(node.AgentID)
		if err != nil {
			continue // Rows from retired roster entries are skipped, not fatal
		}
		byTier[tier] = append(byTier[tier], node.Mastery)
		if agentsByTier[tier] == nil {
			agentsByTier[tier] = make(map[string]bool)
		}
		agentsByTier[tier][node.AgentID] = true
	}

	summaries := make([]TierSummary, domain.TierCount)
	for tier := 1; tier <= domain.TierCount; tier++ {
		masteries := byTier[tier]
		summaries[tier-1] = TierSummary{
			Tier:     tier,
			Name:     domain.TierName(tier),
			Agents:   len(agentsByTier[tier]),
			Mean:     stats.Mean(masteries),
			Min:      stats.Min(masteries),
			Max:      stats.Max(masteries),
			Variance: stats.Variance(masteries),
		}
	}
	return summaries, nil
}

// ─── Health ─────────────────────────────────────────────────────────────────

// Health computes the collective health (mean of per-agent mean masteries)
// and the per-tier health map. Agents with no observations are excluded;
// with no data at all, health is 0.
func (c *Intelligence) Health() (float64, map[int]float64, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return 0, nil, fmt.Errorf("list capabilities: %w", err)
	}

	byAgent := make(map[string][]float64)
	for _, node := range nodes {
		byAgent[node.AgentID] = append(byAgent[node.AgentID], node.Mastery)
	}

	agentMeans := make([]float64, 0, len(byAgent))
	tierMeans := make(map[int][]float64)
	for agentID, masteries := range byAgent {
		mean := stats.Mean(masteries)
		agentMeans = append(agentMeans, mean)
		if tier, err := domain.TierOf(agentID); err == nil {
			tierMeans[tier] = append(tierMeans[tier], mean)
		}
	}

	tierHealth := make(map[int]float64, len(tierMeans))
	for tier, means := range tierMeans {
		tierHealth[tier] = stats.Mean(means)
	}
	return stats.Mean(agentMeans), tierHealth, nil
}

// ─── Rankings ───────────────────────────────────────────────────────────────

// TopCapabilities returns the n best-mastered capability nodes.
func (c *Intelligence) TopCapabilities(n int) ([]domain.CapabilityNode, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return nil, err
	}
	if len(nodes) > n {
		nodes = nodes[:n]
	}
	return nodes, nil
}

// WeakCapabilities returns the n weakest capability nodes.
func (c *Intelligence) WeakCapabilities(n int) ([]domain.CapabilityNode, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return nil, err
	}
	// ListCapabilities is ordered best-first; take from the tail, weakest first.
	out := make([]domain.CapabilityNode, 0, n)
	for i := len(nodes) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, nodes[i])
	}
	return out, nil
}

// ─── Recommendations ────────────────────────────────────────────────────────

// Recommendations derives priority-ordered suggestions from the current
// statistics: weak capabilities and anti-pattern pairs rank high, plateaued
// capabilities medium, roster coverage gaps low.
func (c *Intelligence) Recommendations() ([]domain.Recommendation, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}
	patterns, err := c.store.ListCollaborations()
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}

	var recs []domain.Recommendation
	observed := make(map[string]bool)

	for _, node := range nodes {
		observed[node.AgentID] = true

		switch {
		case node.TestCount >= weakMinTests && node.Mastery < weakMasteryThreshold:
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityHigh,
				Urgency:  1 - node.Mastery,
				Category: "capability",
				Subject:  fmt.Sprintf("%s/%s", node.AgentID, node.Capability),
				Action:   fmt.Sprintf("schedule focused drills: mastery %.2f after %d tests", node.Mastery, node.TestCount),
			})
		case node.TestCount >= plateauMinTests && node.Mastery < 0.9 &&
			node.Trend < plateauTrendEpsilon && node.Trend > -plateauTrendEpsilon:
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityMedium,
				Urgency:  0.5 * (1 - node.Mastery),
				Category: "capability",
				Subject:  fmt.Sprintf("%s/%s", node.AgentID, node.Capability),
				Action:   fmt.Sprintf("vary scenario difficulty: mastery plateaued at %.2f", node.Mastery),
			})
		}
	}

	for _, p := range patterns {
		if p.DiscoveryCount >= antiPatternMinReports && stats.Classify(p.Synergy) == stats.PatternAntiPattern {
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityHigh,
				Urgency:  1 - p.Synergy,
				Category: "collaboration",
				Subject:  fmt.Sprintf("%s+%s", p.Agent1, p.Agent2),
				Action:   fmt.Sprintf("avoid pairing: synergy %.2f over %d observations", p.Synergy, p.DiscoveryCount),
			})
		}
	}

	for _, agentID := range domain.AgentIDs() {
		if !observed[agentID] {
			tier, _ := domain.TierOf(agentID)
			recs = append(recs, domain.Recommendation{
				Priority: domain.PriorityLow,
				Urgency:  0.25,
				Category: "coverage",
				Subject:  agentID,
				Action:   fmt.Sprintf("no observations yet: include in a %s-tier scenario", domain.TierName(tier)),
			})
		}
	}

	return stats.RankRecommendations(recs), nil
}

// ─── Export ─────────────────────────────────────────────────────────────────

// Export assembles the full nested view of the collective: the capability
// graph, the collaboration network, the latest snapshot (if any), and the
// current recommendations.
func (c *Intelligence) Export() (*domain.ExportBundle, error) {
	nodes, err := c.store.ListCapabilities()
	if err != nil {
		return nil, fmt.Errorf("list capabilities: %w", err)
	}
	patterns, err := c.store.ListCollaborations()
	if err != nil {
		return nil, fmt.Errorf("list collaborations: %w", err)
	}
	recs, err := c.Recommendations()
	if err != nil {
		return nil, err
	}

	bundle := &domain.ExportBundle{
		GeneratedAt:     time.Now(),
		Capabilities:    nodes,
		Collaborations:  patterns,
		Recommendations: recs,
	}

	snap, err := c.store.LatestSnapshot()
	switch err {
	case nil:
		bundle.Snapshot = &snap
	case domain.ErrNoSnapshot:
		// Export is still valid without one
	default:
		return nil, fmt.Errorf("latest snapshot: %w", err)
	}

	return bundle, nil
}
