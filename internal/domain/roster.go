package domain

// ─── Fixed Registries ───────────────────────────────────────────────────────
// The roster, tier map, and affinity tables are immutable package-level data.
// Nothing mutates them at runtime; accessors return copies.

// TierCount is the number of fixed tiers in the collective.
const TierCount = 8

// AgentsPerTier is the fixed tier size. Roster position p (1-based) belongs
// to tier (p-1)/AgentsPerTier + 1.
const AgentsPerTier = 5

// roster lists all 40 agent identifiers in roster order. The numeric suffix
// encodes the roster position.
var roster = [...]string{
	// Tier 1 — Foundation
	"VECTOR-01", "CIPHER-02", "AXIOM-03", "KERNEL-04", "LATTICE-05",
	// Tier 2 — Structure
	"QUANTUM-06", "TENSOR-07", "MATRIX-08", "VERTEX-09", "SCALAR-10",
	// Tier 3 — Integration
	"NEURON-11", "CORTEX-12", "SYNAPSE-13", "DENDRITE-14", "GANGLION-15",
	// Tier 4 — Interface
	"PRISM-16", "SPECTRUM-17", "PHOTON-18", "LUMEN-19", "HALO-20",
	// Tier 5 — Quality
	"SENTRY-21", "WARDEN-22", "AEGIS-23", "BASTION-24", "CITADEL-25",
	// Tier 6 — Operations
	"RELAY-26", "CONDUIT-27", "CIRCUIT-28", "DYNAMO-29", "TURBINE-30",
	// Tier 7 — Intelligence
	"ORACLE-31", "AUGUR-32", "SIBYL-33", "DELPHI-34", "OMEN-35",
	// Tier 8 — Frontier
	"NOVA-36", "PULSAR-37", "QUASAR-38", "NEBULA-39", "ZENITH-40",
}

// tierNames labels the 8 tiers, indexed by tier-1.
var tierNames = [TierCount]string{
	"Foundation", "Structure", "Integration", "Interface",
	"Quality", "Operations", "Intelligence", "Frontier",
}

// tierAffinities maps each tier to the capability domains its agents lean
// toward. Used for scenario descriptions and coverage-gap recommendations.
var tierAffinities = [TierCount][]string{
	{"algorithms", "data_structures"},
	{"architecture", "api_design"},
	{"integration", "rest_api"},
	{"frontend", "ux_flows"},
	{"testing", "code_review"},
	{"deployment", "observability"},
	{"analysis", "planning"},
	{"research", "prototyping"},
}

// tierIndex maps agent ID to tier for O(1) lookup. Built once at init.
var tierIndex = func() map[string]int {
	m := make(map[string]int, len(roster))
	for i, id := range roster {
		m[id] = i/AgentsPerTier + 1
	}
	return m
}()

// RosterSize returns the number of agents in the collective.
func RosterSize() int { return len(roster) }

// AgentIDs returns a copy of the full roster in roster order.
func AgentIDs() []string {
	out := make([]string, len(roster))
	copy(out, roster[:])
	return out
}

// IsKnownAgent reports whether id is in the roster.
func IsKnownAgent(id string) bool {
	_, ok := tierIndex[id]
	return ok
}

// TierOf returns the tier (1-8) of an agent, or ErrUnknownAgent.
func TierOf(id string) (int, error) {
	t, ok := tierIndex[id]
	if !ok {
		return 0, ErrUnknownAgent
	}
	return t, nil
}

// TierName returns the label for a tier, or "" for an invalid tier.
func TierName(tier int) string {
	if tier < 1 || tier > TierCount {
		return ""
	}
	return tierNames[tier-1]
}

// AgentsInTier returns the agent IDs of one tier, or nil for an invalid tier.
func AgentsInTier(tier int) []string {
	if tier < 1 || tier > TierCount {
		return nil
	}
	start := (tier - 1) * AgentsPerTier
	out := make([]string, AgentsPerTier)
	copy(out, roster[start:start+AgentsPerTier])
	return out
}

// TierAffinities returns the capability domains associated with a tier.
func TierAffinities(tier int) []string {
	if tier < 1 || tier > TierCount {
		return nil
	}
	out := make([]string, len(tierAffinities[tier-1]))
	copy(out, tierAffinities[tier-1])
	return out
}
