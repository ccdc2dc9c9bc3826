// Package stats implements the running statistics that drive the collective:
// incremental mastery ratios, running synergy means, pattern classification,
// and the descriptive/ranking helpers used by aggregation and reporting.
//
// Everything here is a pure numeric transform — deterministic for the same
// observation sequence, no I/O, no shared state.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/hivemind-network/hivemind/internal/domain"
)

// ─── Constants ──────────────────────────────────────────────────────────────

const (
	// SuccessThreshold: a pass rate above this counts as a mastery success.
	SuccessThreshold = 0.8

	// SynergyThreshold: a running synergy mean above this is a "synergy" pair.
	SynergyThreshold = 0.7

	// AntiPatternThreshold: a running synergy mean below this is an anti-pattern.
	AntiPatternThreshold = 0.3
)

// Pattern labels returned by Classify.
const (
	PatternSynergy     = "synergy"
	PatternAntiPattern = "anti_pattern"
	PatternNeutral     = "neutral"
)

// ─── Observation Validation ─────────────────────────────────────────────────

// CheckObservation validates that v is a finite number in [0,1].
// Returns domain.ErrInvalidObservation otherwise.
func CheckObservation(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: got non-finite value", domain.ErrInvalidObservation)
	}
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: got %g", domain.ErrInvalidObservation, v)
	}
	return nil
}

// ─── Mastery (running success ratio) ────────────────────────────────────────

// Mastery is the running success-ratio state for one (agent, capability).
// The zero value is the empty state (no observations).
type Mastery struct {
	TestCount    int     `json:"test_count"`
	SuccessCount int     `json:"success_count"`
	Level        float64 `json:"mastery_level"`   // SuccessCount / TestCount
	Trend        float64 `json:"evolution_trend"` // Last delta in Level
}

// Observe folds one pass-rate observation into the state and returns the
// updated state. A pass rate above SuccessThreshold counts as a success.
// Trend is the mastery delta caused by this observation; the first
// observation's trend is measured against 0.
func (m Mastery) Observe(passRate float64) (Mastery, error) {
	if err := CheckObservation(passRate); err != nil {
		return m, err
	}

	prev := m.Level
	m.TestCount++
	if passRate > SuccessThreshold {
		m.SuccessCount++
	}
	m.Level = float64(m.SuccessCount) / float64(m.TestCount)
	m.Trend = m.Level - prev
	return m, nil
}

// ─── Synergy (running mean) ─────────────────────────────────────────────────

// RunningMean folds observation v into a mean over n prior observations and
// returns the new mean: (mean×n + v) / (n+1). For inputs in [0,1] the result
// is a convex combination and stays in [0,1].
func RunningMean(mean float64, n int, v float64) (float64, error) {
	if err := CheckObservation(v); err != nil {
		return mean, err
	}
	if n < 0 {
		return mean, fmt.Errorf("%w: negative observation count %d", domain.ErrInvalidObservation, n)
	}
	return (mean*float64(n) + v) / float64(n+1), nil
}

// Classify maps a synergy score to its pattern label. Pure function —
// callers re-derive on every read rather than storing the label, so it can
// never drift from the score.
func Classify(score float64) string {
	switch {
	case score > SynergyThreshold:
		return PatternSynergy
	case score < AntiPatternThreshold:
		return PatternAntiPattern
	default:
		return PatternNeutral
	}
}

// ─── Descriptive Statistics ─────────────────────────────────────────────────

// Mean returns the arithmetic mean, or 0.0 for an empty input.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Min returns the smallest value, or 0.0 for an empty input.
func Min(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

// Max returns the largest value, or 0.0 for an empty input.
func Max(xs []float64) float64 {
	if len(xs) == 0 {
		return 0.0
	}
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// Variance returns the population variance. By convention the variance of an
// empty or single-element input is exactly 0.0 (never NaN) so downstream
// consumers stay total.
func Variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0.0
	}
	mean := Mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

// ─── Welford's Online Mean/Variance ─────────────────────────────────────────

// Welford accumulates a running mean and population variance without storing
// the observation history. Numerically stable for long streams.
type Welford struct {
	Count int
	Mean  float64
	m2    float64
}

// Add folds one observation into the accumulator.
func (w *Welford) Add(v float64) {
	w.Count++
	delta := v - w.Mean
	w.Mean += delta / float64(w.Count)
	w.m2 += delta * (v - w.Mean)
}

// Variance returns the population variance, 0.0 for fewer than 2 samples.
func (w *Welford) Variance() float64 {
	if w.Count < 2 {
		return 0.0
	}
	return w.m2 / float64(w.Count)
}

// Stddev returns the population standard deviation.
func (w *Welford) Stddev() float64 {
	return math.Sqrt(w.Variance())
}

// ─── Priority Ranking ───────────────────────────────────────────────────────

// priorityRank defines the recommendation ordering explicitly.
// Never rely on lexical order of the labels.
var priorityRank = map[string]int{
	domain.PriorityHigh:   0,
	domain.PriorityMedium: 1,
	domain.PriorityLow:    2,
}

// RankRecommendations sorts recommendations by priority band (high before
// medium before low), then by descending urgency within a band. The sort is
// stable so equal entries keep their insertion order.
func RankRecommendations(recs []domain.Recommendation) []domain.Recommendation {
	out := make([]domain.Recommendation, len(recs))
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iOK := priorityRank[out[i].Priority]
		rj, jOK := priorityRank[out[j].Priority]
		// Unknown labels sink to the end.
		if !iOK {
			ri = len(priorityRank)
		}
		if !jOK {
			rj = len(priorityRank)
		}
		if ri != rj {
			return ri < rj
		}
		return out[i].Urgency > out[j].Urgency
	})
	return out
}
