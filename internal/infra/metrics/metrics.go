// Package metrics provides Prometheus metrics for Hivemind: counters for
// ingestion and generation throughput plus the collective health gauge.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ingestion ──────────────────────────────────────────────────────────────

// RecordsIngested tracks learning records accepted into the store.
var RecordsIngested = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hivemind",
	Name:      "records_ingested_total",
	Help:      "Total learning records ingested.",
})

// RecordsRejected tracks records rejected by validation, by reason.
var RecordsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hivemind",
	Name:      "records_rejected_total",
	Help:      "Total learning records rejected.",
}, []string{"reason"})

// CollaborationsObserved tracks synergy observations folded into the store.
var CollaborationsObserved = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hivemind",
	Name:      "collaborations_observed_total",
	Help:      "Total collaboration observations recorded.",
})

// ─── Scenarios ──────────────────────────────────────────────────────────────

// ScenariosGenerated tracks generated scenarios by complexity band.
var ScenariosGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hivemind",
	Name:      "scenarios_generated_total",
	Help:      "Total scenarios generated.",
}, []string{"complexity"})

// ─── Evolution ──────────────────────────────────────────────────────────────

// SnapshotsTaken tracks evolution snapshots appended to the store.
var SnapshotsTaken = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hivemind",
	Name:      "snapshots_taken_total",
	Help:      "Total evolution snapshots taken.",
})

// CollectiveHealth is the most recently computed collective health score.
var CollectiveHealth = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hivemind",
	Name:      "collective_health",
	Help:      "Latest collective health score (mean agent mastery, 0-1).",
})

// StorageDegraded is 1 when the store fell back to in-memory mode.
var StorageDegraded = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hivemind",
	Name:      "storage_degraded",
	Help:      "1 when running on the in-memory fallback store.",
})
