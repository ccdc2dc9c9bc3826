package domain

// Fixed tables for scenario generation. Like the roster, these are immutable
// registries; accessors return copies.

// complexityLevels defines the 5 difficulty bands with participant bounds.
var complexityLevels = [...]ComplexityLevel{
	{Level: 1, Name: "routine", MinParticipants: 2, MaxParticipants: 3},
	{Level: 2, Name: "standard", MinParticipants: 3, MaxParticipants: 5},
	{Level: 3, Name: "elevated", MinParticipants: 4, MaxParticipants: 8},
	{Level: 4, Name: "severe", MinParticipants: 6, MaxParticipants: 12},
	{Level: 5, Name: "critical", MinParticipants: 8, MaxParticipants: 16},
}

// challengeTypes lists the scenario challenge categories.
var challengeTypes = [...]string{
	"integration_gauntlet",
	"refactor_storm",
	"incident_response",
	"greenfield_sprint",
	"migration_marathon",
	"performance_hunt",
}

// chaosTable is the fixed disruption table: each entry is independently
// included in a scenario with probability
// base × multiplier × (1 + 0.1×(level−1)), clamped to [0,1].
var chaosTable = [...]ChaosEvent{
	{Name: "requirements_shift", BaseProbability: 0.30, Severity: "major"},
	{Name: "dependency_break", BaseProbability: 0.25, Severity: "moderate"},
	{Name: "flaky_infrastructure", BaseProbability: 0.20, Severity: "moderate"},
	{Name: "scope_creep", BaseProbability: 0.35, Severity: "minor"},
	{Name: "data_corruption", BaseProbability: 0.10, Severity: "critical"},
	{Name: "agent_dropout", BaseProbability: 0.15, Severity: "major"},
	{Name: "deadline_compression", BaseProbability: 0.25, Severity: "major"},
	{Name: "spec_ambiguity", BaseProbability: 0.40, Severity: "minor"},
}

// ComplexityCount returns the number of defined complexity levels.
func ComplexityCount() int { return len(complexityLevels) }

// ComplexityByLevel returns the complexity band for level 1-5.
func ComplexityByLevel(level int) (ComplexityLevel, error) {
	if level < 1 || level > len(complexityLevels) {
		return ComplexityLevel{}, ErrUnknownComplexity
	}
	return complexityLevels[level-1], nil
}

// ChallengeTypes returns a copy of the challenge type list.
func ChallengeTypes() []string {
	out := make([]string, len(challengeTypes))
	copy(out, challengeTypes[:])
	return out
}

// IsKnownChallenge reports whether name is a defined challenge type.
func IsKnownChallenge(name string) bool {
	for _, c := range challengeTypes {
		if c == name {
			return true
		}
	}
	return false
}

// ChaosTable returns a copy of the fixed chaos event table.
func ChaosTable() []ChaosEvent {
	out := make([]ChaosEvent, len(chaosTable))
	copy(out, chaosTable[:])
	return out
}
