// Package scenario procedurally generates training scenarios for the
// collective: a complexity band, a challenge type, a participant subset of
// the roster, and zero or more probabilistically triggered chaos events.
//
// All randomness flows through a single seeded source per generation, so a
// given seed and parameter set always reproduces the identical scenario.
package scenario

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/hivemind-network/hivemind/internal/domain"
)

// Options controls one generation. The zero value means: random complexity,
// random challenge, chaos multiplier 1.0, time-seeded randomness.
type Options struct {
	// Seed makes the generation fully reproducible when non-nil.
	Seed *int64

	// Complexity pins the complexity level (1-5); 0 picks randomly.
	Complexity int

	// Challenge pins the challenge type; "" picks randomly.
	Challenge string

	// Participants pins the participant count; 0 draws from the complexity
	// band's range.
	Participants int

	// ChaosProbability scales every chaos event's base probability.
	// Must be in [0,1]. Negative means "use the default of 1.0".
	ChaosProbability float64
}

// Engine generates scenarios over a fixed roster.
type Engine struct {
	roster []string
}

// NewEngine creates a scenario engine over the full collective roster.
func NewEngine() *Engine {
	return &Engine{roster: domain.AgentIDs()}
}

// Generate produces one scenario. Draw order is fixed — complexity,
// challenge, participant count, participant sample, chaos trials,
// description fragments — so seeded runs are byte-for-byte reproducible.
func (e *Engine) Generate(opts Options) (domain.Scenario, error) {
	var zero domain.Scenario

	multiplier := opts.ChaosProbability
	if multiplier < 0 {
		multiplier = 1.0
	}
	if multiplier > 1 {
		return zero, fmt.Errorf("%w: chaos probability %g outside [0,1]",
			domain.ErrInvalidObservation, multiplier)
	}

	seed := time.Now().UnixNano()
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	// Draw 1: complexity
	level := opts.Complexity
	if level == 0 {
		level = rng.Intn(domain.ComplexityCount()) + 1
	}
	complexity, err := domain.ComplexityByLevel(level)
	if err != nil {
		return zero, err
	}

	// Draw 2: challenge
	challenge := opts.Challenge
	if challenge == "" {
		types := domain.ChallengeTypes()
		challenge = types[rng.Intn(len(types))]
	} else if !domain.IsKnownChallenge(challenge) {
		return zero, fmt.Errorf("%w: %q", domain.ErrUnknownChallenge, challenge)
	}

	// Draw 3: participant count
	count := opts.Participants
	if count == 0 {
		count = complexity.MinParticipants
		if spread := complexity.MaxParticipants - complexity.MinParticipants; spread > 0 {
			count += rng.Intn(spread + 1)
		}
	}
	if count < 1 || count > len(e.roster) {
		return zero, fmt.Errorf("%w: requested %d of %d agents",
			domain.ErrOutOfRangeSelection, count, len(e.roster))
	}

	// Draw 4: participant sample, without replacement
	participants := e.sample(rng, count)

	// Draw 5: chaos Bernoulli trials, in table order
	var chaos []domain.ChaosEvent
	for _, event := range domain.ChaosTable() {
		p := chaosProbability(event.BaseProbability, multiplier, complexity.Level)
		if rng.Float64() < p {
			chaos = append(chaos, event)
		}
	}

	// Draw 6: description fragments
	description := describe(rng, complexity, challenge, participants, chaos)

	return domain.Scenario{
		Complexity:   complexity,
		Challenge:    challenge,
		Participants: participants,
		ChaosEvents:  chaos,
		Description:  description,
	}, nil
}

// sample draws n roster members without replacement, in permutation order.
func (e *Engine) sample(rng *rand.Rand, n int) []string {
	perm := rng.Perm(len(e.roster))
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = e.roster[perm[i]]
	}
	return out
}

// chaosProbability scales a base probability by the multiplier and the
// complexity bonus (1 + 0.1×(level−1)), clamped to [0,1].
func chaosProbability(base, multiplier float64, level int) float64 {
	p := base * multiplier * (1 + 0.1*float64(level-1))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ─── Description Templates ──────────────────────────────────────────────────

var objectiveFragments = [...]string{
	"ship a working increment under review",
	"stabilize the shared integration branch",
	"close out the backlog of open defects",
	"deliver the milestone ahead of the checkpoint",
	"recover the pipeline to green",
}

var constraintFragments = [...]string{
	"with no access to prior solutions",
	"while rotating the lead role hourly",
	"under a strict review-before-merge rule",
	"with half the usual tooling available",
	"while documenting every decision",
}

func describe(rng *rand.Rand, c domain.ComplexityLevel, challenge string, participants []string, chaos []domain.ChaosEvent) string {
	objective := objectiveFragments[rng.Intn(len(objectiveFragments))]
	constraint := constraintFragments[rng.Intn(len(constraintFragments))]

	var b strings.Builder
	fmt.Fprintf(&b, "A %s %s for %d agents: %s, %s.",
		c.Name, strings.ReplaceAll(challenge, "_", " "), len(participants), objective, constraint)

	if len(chaos) > 0 {
		names := make([]string, len(chaos))
		for i, ev := range chaos {
			names[i] = strings.ReplaceAll(ev.Name, "_", " ")
		}
		fmt.Fprintf(&b, " Disruptions in play: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
