package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Observation errors
	ErrInvalidObservation = errors.New("invalid observation: value must be a finite number in [0,1]")

	// Roster errors
	ErrUnknownAgent = errors.New("agent not in roster")
	ErrSelfPairing  = errors.New("collaboration pair must name two distinct agents")

	// Scenario errors
	ErrOutOfRangeSelection = errors.New("requested more unique participants than the roster contains")
	ErrUnknownComplexity   = errors.New("unknown complexity level")
	ErrUnknownChallenge    = errors.New("unknown challenge type")

	// Snapshot errors
	ErrNoSnapshot = errors.New("no evolution snapshot recorded yet")
)
