package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/hivemind-network/hivemind/internal/domain"
)

// ─── Mastery Updates ────────────────────────────────────────────────────────

func TestMastery_FirstObservation(t *testing.T) {
	var m Mastery

	got, err := m.Observe(0.9)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if got.Level != 1.0 {
		t.Errorf("Level = %v, want 1.0", got.Level)
	}
	if got.Trend != 1.0 {
		t.Errorf("Trend = %v, want 1.0 (measured against 0)", got.Trend)
	}
	if got.TestCount != 1 || got.SuccessCount != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", got.TestCount, got.SuccessCount)
	}
}

func TestMastery_FirstObservationFailure(t *testing.T) {
	var m Mastery

	got, err := m.Observe(0.5)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if got.Level != 0.0 {
		t.Errorf("Level = %v, want 0.0", got.Level)
	}
	if got.Trend != 0.0 {
		t.Errorf("Trend = %v, want 0.0", got.Trend)
	}
}

// The worked sequence: pass rates [0.9, 0.95, 0.7] produce mastery
// [1.0, 1.0, 2/3] and trends [+1.0, 0.0, -1/3].
func TestMastery_Sequence(t *testing.T) {
	var m Mastery
	passRates := []float64{0.9, 0.95, 0.7}
	wantLevel := []float64{1.0, 1.0, 2.0 / 3.0}
	wantTrend := []float64{1.0, 0.0, 2.0/3.0 - 1.0}

	for i, pr := range passRates {
		var err error
		m, err = m.Observe(pr)
		if err != nil {
			t.Fatalf("Observe(%v) error: %v", pr, err)
		}
		// The runtime subtraction Level-prev can land one ulp away from the
		// folded constant, so compare within tolerance rather than exactly.
		if math.Abs(m.Level-wantLevel[i]) > 1e-12 {
			t.Errorf("step %d: Level = %v, want %v", i, m.Level, wantLevel[i])
		}
		if math.Abs(m.Trend-wantTrend[i]) > 1e-12 {
			t.Errorf("step %d: Trend = %v, want %v", i, m.Trend, wantTrend[i])
		}
	}
}

// Mastery after n updates must equal successes/n exactly — the ratio
// invariant, not an approximation.
func TestMastery_RatioInvariant(t *testing.T) {
	seq := []float64{0.9, 0.1, 0.85, 0.79, 0.81, 1.0, 0.0, 0.8, 0.95, 0.3}

	var m Mastery
	successes := 0
	for i, pr := range seq {
		var err error
		m, err = m.Observe(pr)
		if err != nil {
			t.Fatalf("Observe(%v) error: %v", pr, err)
		}
		if pr > SuccessThreshold {
			successes++
		}
		want := float64(successes) / float64(i+1)
		if m.Level != want {
			t.Errorf("after %d obs: Level = %v, want %v", i+1, m.Level, want)
		}
	}
}

// Exactly 0.8 is not a success: the threshold is strict.
func TestMastery_ThresholdIsStrict(t *testing.T) {
	var m Mastery
	m, err := m.Observe(0.8)
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}
	if m.SuccessCount != 0 {
		t.Errorf("SuccessCount = %d, want 0 for pass rate exactly 0.8", m.SuccessCount)
	}
}

func TestMastery_InvalidObservation(t *testing.T) {
	cases := []float64{math.NaN(), math.Inf(1), math.Inf(-1), -0.1, 1.1}
	for _, v := range cases {
		var m Mastery
		if _, err := m.Observe(v); !errors.Is(err, domain.ErrInvalidObservation) {
			t.Errorf("Observe(%v) error = %v, want ErrInvalidObservation", v, err)
		}
	}
}

func TestMastery_ErrorLeavesStateUntouched(t *testing.T) {
	var m Mastery
	m, _ = m.Observe(0.9)

	got, err := m.Observe(math.NaN())
	if err == nil {
		t.Fatal("expected error for NaN observation")
	}
	if got != m {
		t.Errorf("state changed on error: got %+v, want %+v", got, m)
	}
}

// ─── Running Mean (Synergy) ─────────────────────────────────────────────────

// Synergy observations [0.9, 0.9, 0.1] produce running means
// [0.9, 0.9, 1.9/3] and labels synergy → synergy → neutral.
func TestRunningMean_Sequence(t *testing.T) {
	obs := []float64{0.9, 0.9, 0.1}
	wantMean := []float64{0.9, 0.9, 1.9 / 3.0}
	wantLabel := []string{PatternSynergy, PatternSynergy, PatternNeutral}

	mean := 0.0
	for i, v := range obs {
		var err error
		mean, err = RunningMean(mean, i, v)
		if err != nil {
			t.Fatalf("RunningMean() error: %v", err)
		}
		if math.Abs(mean-wantMean[i]) > 1e-12 {
			t.Errorf("step %d: mean = %v, want %v", i, mean, wantMean[i])
		}
		if got := Classify(mean); got != wantLabel[i] {
			t.Errorf("step %d: Classify(%v) = %q, want %q", i, mean, got, wantLabel[i])
		}
	}
}

// Convexity: the running mean always stays within [min(obs), max(obs)].
func TestRunningMean_ConvexityBound(t *testing.T) {
	obs := []float64{0.2, 0.95, 0.5, 0.0, 1.0, 0.33, 0.7}

	mean := 0.0
	lo, hi := obs[0], obs[0]
	for i, v := range obs {
		var err error
		mean, err = RunningMean(mean, i, v)
		if err != nil {
			t.Fatalf("RunningMean() error: %v", err)
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		if mean < lo-1e-12 || mean > hi+1e-12 {
			t.Errorf("after %d obs: mean %v outside [%v, %v]", i+1, mean, lo, hi)
		}
	}
}

func TestRunningMean_Invalid(t *testing.T) {
	if _, err := RunningMean(0.5, 3, math.NaN()); !errors.Is(err, domain.ErrInvalidObservation) {
		t.Errorf("NaN: error = %v, want ErrInvalidObservation", err)
	}
	if _, err := RunningMean(0.5, -1, 0.5); !errors.Is(err, domain.ErrInvalidObservation) {
		t.Errorf("negative count: error = %v, want ErrInvalidObservation", err)
	}
}

// ─── Classification ─────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.71, PatternSynergy},
		{0.9, PatternSynergy},
		{0.7, PatternNeutral}, // Boundary is exclusive
		{0.5, PatternNeutral},
		{0.3, PatternNeutral}, // Boundary is exclusive
		{0.29, PatternAntiPattern},
		{0.0, PatternAntiPattern},
	}
	for _, c := range cases {
		if got := Classify(c.score); got != c.want {
			t.Errorf("Classify(%v) = %q, want %q", c.score, got, c.want)
		}
		// Idempotent: same input, same label, every time.
		if got := Classify(c.score); got != c.want {
			t.Errorf("Classify(%v) second call = %q, want %q", c.score, got, c.want)
		}
	}
}

// ─── Descriptive Statistics ─────────────────────────────────────────────────

func TestVariance_EmptyAndSingle(t *testing.T) {
	if v := Variance(nil); v != 0.0 {
		t.Errorf("Variance(nil) = %v, want exactly 0.0", v)
	}
	if v := Variance([]float64{0.42}); v != 0.0 {
		t.Errorf("Variance(single) = %v, want exactly 0.0", v)
	}
}

func TestVariance_Population(t *testing.T) {
	// Population variance of [1,2,3,4] is 1.25 (not the sample 5/3).
	got := Variance([]float64{1, 2, 3, 4})
	if math.Abs(got-1.25) > 1e-12 {
		t.Errorf("Variance = %v, want 1.25", got)
	}
}

func TestMeanMinMax(t *testing.T) {
	xs := []float64{0.3, 0.9, 0.6}
	if got := Mean(xs); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("Mean = %v, want 0.6", got)
	}
	if got := Min(xs); got != 0.3 {
		t.Errorf("Min = %v, want 0.3", got)
	}
	if got := Max(xs); got != 0.9 {
		t.Errorf("Max = %v, want 0.9", got)
	}
	if got := Mean(nil); got != 0.0 {
		t.Errorf("Mean(nil) = %v, want 0.0", got)
	}
}

// ─── Welford ────────────────────────────────────────────────────────────────

func TestWelford_MatchesDirectComputation(t *testing.T) {
	xs := []float64{0.1, 0.5, 0.9, 0.3, 0.7}

	var w Welford
	for _, x := range xs {
		w.Add(x)
	}

	if math.Abs(w.Mean-Mean(xs)) > 1e-12 {
		t.Errorf("Welford mean = %v, want %v", w.Mean, Mean(xs))
	}
	if math.Abs(w.Variance()-Variance(xs)) > 1e-12 {
		t.Errorf("Welford variance = %v, want %v", w.Variance(), Variance(xs))
	}
}

func TestWelford_FewSamples(t *testing.T) {
	var w Welford
	if w.Variance() != 0.0 {
		t.Error("empty Welford variance should be 0.0")
	}
	w.Add(1.0)
	if w.Variance() != 0.0 {
		t.Error("single-sample Welford variance should be 0.0")
	}
}

// ─── Ranking ────────────────────────────────────────────────────────────────

func TestRankRecommendations(t *testing.T) {
	recs := []domain.Recommendation{
		{Priority: domain.PriorityLow, Urgency: 0.9, Subject: "a"},
		{Priority: domain.PriorityHigh, Urgency: 0.2, Subject: "b"},
		{Priority: domain.PriorityMedium, Urgency: 0.5, Subject: "c"},
		{Priority: domain.PriorityHigh, Urgency: 0.8, Subject: "d"},
	}

	got := RankRecommendations(recs)

	wantOrder := []string{"d", "b", "c", "a"}
	for i, subject := range wantOrder {
		if got[i].Subject != subject {
			t.Errorf("position %d: got %q, want %q", i, got[i].Subject, subject)
		}
	}

	// Input must not be reordered in place.
	if recs[0].Subject != "a" {
		t.Error("RankRecommendations mutated its input")
	}
}

func TestRankRecommendations_UnknownLabelSinks(t *testing.T) {
	recs := []domain.Recommendation{
		{Priority: "bogus", Urgency: 1.0, Subject: "x"},
		{Priority: domain.PriorityLow, Urgency: 0.0, Subject: "y"},
	}
	got := RankRecommendations(recs)
	if got[len(got)-1].Subject != "x" {
		t.Error("unknown priority label should sort last")
	}
}
