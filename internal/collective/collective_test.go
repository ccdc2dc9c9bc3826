package collective

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/infra/sqlite"
)

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ingest(t *testing.T, db *sqlite.DB, agentID string, passRate float64, capabilities ...string) {
	t.Helper()
	tier, err := domain.TierOf(agentID)
	if err != nil {
		t.Fatalf("TierOf(%q) error: %v", agentID, err)
	}
	_, err = db.RecordLearning(domain.LearningRecord{
		ID:           uuid.New().String(),
		AgentID:      agentID,
		PassRate:     passRate,
		Tier:         tier,
		Capabilities: capabilities,
	})
	if err != nil {
		t.Fatalf("RecordLearning() error: %v", err)
	}
}

// ─── Health ─────────────────────────────────────────────────────────────────

func TestHealth_Empty(t *testing.T) {
	c := New(newTestStore(t))

	health, tiers, err := c.Health()
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if health != 0.0 {
		t.Errorf("health = %v, want 0.0 with no data", health)
	}
	if len(tiers) != 0 {
		t.Errorf("tier health = %v, want empty", tiers)
	}
}

func TestHealth_MeanOfAgentMeans(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	// CIPHER-02 (tier 1): two capabilities at mastery 1.0 and 0.0 → mean 0.5.
	ingest(t, db, "CIPHER-02", 0.9, "algorithms")
	ingest(t, db, "CIPHER-02", 0.1, "data_structures")
	// QUANTUM-06 (tier 2): one capability at mastery 1.0.
	ingest(t, db, "QUANTUM-06", 0.95, "architecture")

	health, tiers, err := c.Health()
	if err != nil {
		t.Fatalf("Health() error: %v", err)
	}
	if math.Abs(health-0.75) > 1e-12 {
		t.Errorf("health = %v, want 0.75", health)
	}
	if math.Abs(tiers[1]-0.5) > 1e-12 {
		t.Errorf("tier 1 health = %v, want 0.5", tiers[1])
	}
	if math.Abs(tiers[2]-1.0) > 1e-12 {
		t.Errorf("tier 2 health = %v, want 1.0", tiers[2])
	}
}

// ─── Tier Summaries ─────────────────────────────────────────────────────────

func TestTierSummaries(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	ingest(t, db, "CIPHER-02", 0.9, "algorithms")
	ingest(t, db, "AXIOM-03", 0.1, "algorithms")

	summaries, err := c.TierSummaries()
	if err != nil {
		t.Fatalf("TierSummaries() error: %v", err)
	}
	if len(summaries) != domain.TierCount {
		t.Fatalf("got %d summaries, want %d", len(summaries), domain.TierCount)
	}

	t1 := summaries[0]
	if t1.Tier != 1 || t1.Name != "Foundation" {
		t.Errorf("summary[0] = tier %d %q, want tier 1 Foundation", t1.Tier, t1.Name)
	}
	if t1.Agents != 2 {
		t.Errorf("tier 1 agents = %d, want 2", t1.Agents)
	}
	if math.Abs(t1.Mean-0.5) > 1e-12 {
		t.Errorf("tier 1 mean = %v, want 0.5", t1.Mean)
	}
	if t1.Min != 0.0 || t1.Max != 1.0 {
		t.Errorf("tier 1 min/max = %v/%v, want 0/1", t1.Min, t1.Max)
	}
	if math.Abs(t1.Variance-0.25) > 1e-12 {
		t.Errorf("tier 1 variance = %v, want 0.25 (population)", t1.Variance)
	}

	// An unobserved tier is total, not an error.
	t8 := summaries[7]
	if t8.Agents != 0 || t8.Variance != 0.0 {
		t.Errorf("empty tier summary = %+v, want zero values", t8)
	}
}

// ─── Recommendations ────────────────────────────────────────────────────────

func TestRecommendations_WeakCapabilityRanksHigh(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	// Three failures → mastery 0, test count 3: a weak-capability trigger.
	for i := 0; i < 3; i++ {
		ingest(t, db, "CIPHER-02", 0.2, "algorithms")
	}

	recs, err := c.Recommendations()
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected at least one recommendation")
	}
	first := recs[0]
	if first.Priority != domain.PriorityHigh {
		t.Errorf("first priority = %q, want high", first.Priority)
	}
	if first.Subject != "CIPHER-02/algorithms" {
		t.Errorf("first subject = %q, want CIPHER-02/algorithms", first.Subject)
	}
}

func TestRecommendations_AntiPatternPair(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	for i := 0; i < 2; i++ {
		if _, err := db.ObserveCollaboration("CIPHER-02", "QUANTUM-06", 0.1); err != nil {
			t.Fatalf("ObserveCollaboration() error: %v", err)
		}
	}

	recs, err := c.Recommendations()
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}

	found := false
	for _, r := range recs {
		if r.Category == "collaboration" && r.Subject == "CIPHER-02+QUANTUM-06" {
			found = true
			if r.Priority != domain.PriorityHigh {
				t.Errorf("anti-pattern priority = %q, want high", r.Priority)
			}
		}
	}
	if !found {
		t.Error("expected an anti-pattern collaboration recommendation")
	}
}

func TestRecommendations_CoverageGapsRankLow(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	recs, err := c.Recommendations()
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}
	// With an empty store, every roster member is a coverage gap.
	if len(recs) != domain.RosterSize() {
		t.Fatalf("got %d recommendations, want %d coverage gaps", len(recs), domain.RosterSize())
	}
	for _, r := range recs {
		if r.Priority != domain.PriorityLow || r.Category != "coverage" {
			t.Fatalf("unexpected recommendation %+v", r)
		}
	}
}

func TestRecommendations_PriorityOrdering(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	// One high trigger plus 39 remaining coverage gaps.
	for i := 0; i < 3; i++ {
		ingest(t, db, "ZENITH-40", 0.1, "research")
	}

	recs, err := c.Recommendations()
	if err != nil {
		t.Fatalf("Recommendations() error: %v", err)
	}
	if recs[0].Priority != domain.PriorityHigh {
		t.Errorf("first priority = %q, want high", recs[0].Priority)
	}
	rank := map[string]int{domain.PriorityHigh: 0, domain.PriorityMedium: 1, domain.PriorityLow: 2}
	for i := 1; i < len(recs); i++ {
		if rank[recs[i].Priority] < rank[recs[i-1].Priority] {
			t.Fatalf("recommendations out of order at %d: %q after %q",
				i, recs[i].Priority, recs[i-1].Priority)
		}
	}
}

// ─── Export ─────────────────────────────────────────────────────────────────

func TestExport(t *testing.T) {
	db := newTestStore(t)
	c := New(db)

	ingest(t, db, "SYNAPSE-13", 0.9, "rest_api")
	if _, err := db.ObserveCollaboration("SYNAPSE-13", "CORTEX-12", 0.8); err != nil {
		t.Fatalf("ObserveCollaboration() error: %v", err)
	}
	if _, err := db.InsertSnapshot(0.9, map[int]float64{3: 0.9}); err != nil {
		t.Fatalf("InsertSnapshot() error: %v", err)
	}

	bundle, err := c.Export()
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if len(bundle.Capabilities) != 1 {
		t.Errorf("capabilities = %d, want 1", len(bundle.Capabilities))
	}
	if len(bundle.Collaborations) != 1 {
		t.Errorf("collaborations = %d, want 1", len(bundle.Collaborations))
	}
	if bundle.Snapshot == nil || bundle.Snapshot.CollectiveHealth != 0.9 {
		t.Errorf("snapshot = %+v, want health 0.9", bundle.Snapshot)
	}
	if len(bundle.Recommendations) == 0 {
		t.Error("expected recommendations in export")
	}
}

func TestExport_NoSnapshotIsStillValid(t *testing.T) {
	c := New(newTestStore(t))

	bundle, err := c.Export()
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	if bundle.Snapshot != nil {
		t.Error("snapshot should be nil when none recorded")
	}
}
