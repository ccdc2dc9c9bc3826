// Package evolution tracks the collective's health over time. It snapshots
// aggregate mastery into the store, keeps a bounded in-memory history backed
// by a best-effort JSON state file, and renders Markdown reports.
package evolution

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hivemind-network/hivemind/internal/collective"
	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/infra/metrics"
	"github.com/hivemind-network/hivemind/internal/infra/sqlite"
)

// MaxHistory bounds the in-memory snapshot ring and the state file.
const MaxHistory = 1000

// StateFileName is the on-disk snapshot cache, read best-effort on startup.
const StateFileName = "evolution_state.json"

// CapabilitySnapshot is one point in the tracked history.
type CapabilitySnapshot struct {
	TakenAt          time.Time       `json:"taken_at"`
	CollectiveHealth float64         `json:"collective_health"`
	TierHealth       map[int]float64 `json:"tier_health"`
	Velocity         float64         `json:"velocity"`
}

// Tracker snapshots collective health and maintains the bounded history.
type Tracker struct {
	mu        sync.Mutex
	store     *sqlite.DB
	intel     *collective.Intelligence
	statePath string // "" disables the file cache
	history   []CapabilitySnapshot

	// Injectable clock for testing.
	now func() time.Time
}

// NewTracker creates a tracker. If stateDir is non-empty, prior history is
// loaded from stateDir/evolution_state.json; a missing or corrupt file means
// start fresh, never an error.
func NewTracker(store *sqlite.DB, stateDir string) *Tracker {
	t := &Tracker{
		store: store,
		intel: collective.New(store),
		now:   time.Now,
	}
	if stateDir != "" {
		t.statePath = filepath.Join(stateDir, StateFileName)
		t.loadState()
	}
	return t
}

// TakeSnapshot computes current collective and tier health, appends a
// snapshot to the store (which derives velocity), and records it in the
// bounded history.
func (t *Tracker) TakeSnapshot() (domain.EvolutionSnapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	health, tierHealth, err := t.intel.Health()
	if err != nil {
		return domain.EvolutionSnapshot{}, fmt.Errorf("compute health: %w", err)
	}

	snap, err := t.store.InsertSnapshot(health, tierHealth)
	if err != nil {
		return domain.EvolutionSnapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}

	t.history = append(t.history, CapabilitySnapshot{
		TakenAt:          t.now(),
		CollectiveHealth: snap.CollectiveHealth,
		TierHealth:       snap.TierHealth,
		Velocity:         snap.Velocity,
	})
	if len(t.history) > MaxHistory {
		t.history = t.history[len(t.history)-MaxHistory:]
	}
	t.saveState()

	metrics.SnapshotsTaken.Inc()
	metrics.CollectiveHealth.Set(snap.CollectiveHealth)
	return snap, nil
}

// History returns a copy of the tracked snapshots, oldest first.
func (t *Tracker) History() []CapabilitySnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]CapabilitySnapshot, len(t.history))
	copy(out, t.history)
	return out
}

// ─── State File Cache ───────────────────────────────────────────────────────

// loadState reads the history cache. Best-effort: any failure is logged and
// treated as "start fresh".
func (t *Tracker) loadState() {
	data, err := os.ReadFile(t.statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[evolution] state file unreadable, starting fresh: %v", err)
		}
		return
	}

	var history []CapabilitySnapshot
	if err := json.Unmarshal(data, &history); err != nil {
		log.Printf("[evolution] state file corrupt, starting fresh: %v", err)
		return
	}
	if len(history) > MaxHistory {
		history = history[len(history)-MaxHistory:]
	}
	t.history = history
}

// saveState writes the history cache. Best-effort: failure is logged, never
// propagated. Caller holds t.mu.
func (t *Tracker) saveState() {
	if t.statePath == "" {
		return
	}

	data, err := json.MarshalIndent(t.history, "", "  ")
	if err != nil {
		log.Printf("[evolution] marshal state: %v", err)
		return
	}

	tmp := t.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		log.Printf("[evolution] write state: %v", err)
		return
	}
	if err := os.Rename(tmp, t.statePath); err != nil {
		log.Printf("[evolution] replace state: %v", err)
	}
}
