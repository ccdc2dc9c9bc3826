package domain

import "testing"

// ─── Roster ─────────────────────────────────────────────────────────────────

func TestRoster_Shape(t *testing.T) {
	ids := AgentIDs()
	if len(ids) != 40 {
		t.Fatalf("roster size = %d, want 40", len(ids))
	}
	if RosterSize() != 40 {
		t.Errorf("RosterSize() = %d, want 40", RosterSize())
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate roster entry %q", id)
		}
		seen[id] = true
	}
}

func TestTierOf(t *testing.T) {
	cases := []struct {
		agent string
		tier  int
	}{
		{"VECTOR-01", 1},
		{"CIPHER-02", 1},
		{"QUANTUM-06", 2},
		{"SYNAPSE-13", 3},
		{"SENTRY-21", 5},
		{"ZENITH-40", 8},
	}
	for _, c := range cases {
		got, err := TierOf(c.agent)
		if err != nil {
			t.Errorf("TierOf(%q) error: %v", c.agent, err)
			continue
		}
		if got != c.tier {
			t.Errorf("TierOf(%q) = %d, want %d", c.agent, got, c.tier)
		}
	}

	if _, err := TierOf("GHOST-99"); err != ErrUnknownAgent {
		t.Errorf("TierOf(unknown) error = %v, want ErrUnknownAgent", err)
	}
}

func TestAgentsInTier(t *testing.T) {
	for tier := 1; tier <= TierCount; tier++ {
		agents := AgentsInTier(tier)
		if len(agents) != AgentsPerTier {
			t.Errorf("tier %d has %d agents, want %d", tier, len(agents), AgentsPerTier)
		}
		for _, id := range agents {
			got, err := TierOf(id)
			if err != nil || got != tier {
				t.Errorf("TierOf(%q) = (%d, %v), want (%d, nil)", id, got, err, tier)
			}
		}
	}

	if AgentsInTier(0) != nil || AgentsInTier(9) != nil {
		t.Error("out-of-range tiers should return nil")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	ids := AgentIDs()
	ids[0] = "TAMPERED"
	if AgentIDs()[0] != "VECTOR-01" {
		t.Error("AgentIDs() must not expose the backing array")
	}

	affinities := TierAffinities(1)
	if len(affinities) == 0 {
		t.Fatal("tier 1 should have affinities")
	}
	affinities[0] = "tampered"
	if TierAffinities(1)[0] == "tampered" {
		t.Error("TierAffinities() must not expose the backing slice")
	}
}

// ─── Scenario Tables ────────────────────────────────────────────────────────

func TestComplexityByLevel(t *testing.T) {
	for level := 1; level <= ComplexityCount(); level++ {
		c, err := ComplexityByLevel(level)
		if err != nil {
			t.Fatalf("ComplexityByLevel(%d) error: %v", level, err)
		}
		if c.Level != level {
			t.Errorf("level field = %d, want %d", c.Level, level)
		}
		if c.MinParticipants < 1 || c.MaxParticipants < c.MinParticipants {
			t.Errorf("level %d has bad participant bounds [%d, %d]",
				level, c.MinParticipants, c.MaxParticipants)
		}
		if c.MaxParticipants > RosterSize() {
			t.Errorf("level %d max participants %d exceeds roster", level, c.MaxParticipants)
		}
	}

	if _, err := ComplexityByLevel(0); err != ErrUnknownComplexity {
		t.Errorf("level 0 error = %v, want ErrUnknownComplexity", err)
	}
	if _, err := ComplexityByLevel(6); err != ErrUnknownComplexity {
		t.Errorf("level 6 error = %v, want ErrUnknownComplexity", err)
	}
}

func TestChaosTable_ValidProbabilities(t *testing.T) {
	events := ChaosTable()
	if len(events) == 0 {
		t.Fatal("chaos table should not be empty")
	}
	for _, ev := range events {
		if ev.BaseProbability <= 0 || ev.BaseProbability > 1 {
			t.Errorf("%s: base probability %v outside (0, 1]", ev.Name, ev.BaseProbability)
		}
		if ev.Severity == "" {
			t.Errorf("%s: missing severity", ev.Name)
		}
	}
}

func TestIsKnownChallenge(t *testing.T) {
	for _, c := range ChallengeTypes() {
		if !IsKnownChallenge(c) {
			t.Errorf("challenge %q should be known", c)
		}
	}
	if IsKnownChallenge("pie_eating") {
		t.Error("unknown challenge reported as known")
	}
}
