package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hivemind-network/hivemind/internal/domain"
	"github.com/hivemind-network/hivemind/internal/infra/metrics"
	"github.com/hivemind-network/hivemind/internal/scenario"
)

// ─── Status / Roster ────────────────────────────────────────────────────────

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.CountRecords()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "running",
		"roster_size":      domain.RosterSize(),
		"tiers":            domain.TierCount,
		"learning_records": records,
		"storage_degraded": s.store.InMemory(),
	})
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	type agentInfo struct {
		ID       string `json:"id"`
		Tier     int    `json:"tier"`
		TierName string `json:"tier_name"`
	}
	agents := make([]agentInfo, 0, domain.RosterSize())
	for _, id := range domain.AgentIDs() {
		tier, _ := domain.TierOf(id)
		agents = append(agents, agentInfo{ID: id, Tier: tier, TierName: domain.TierName(tier)})
	}
	writeJSON(w, http.StatusOK, agents)
}

func (s *Server) handleAgentCapabilities(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "id")
	if !domain.IsKnownAgent(agentID) {
		writeError(w, http.StatusNotFound, domain.ErrUnknownAgent.Error())
		return
	}
	nodes, err := s.store.ListCapabilitiesByAgent(agentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if nodes == nil {
		nodes = []domain.CapabilityNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

// ─── Ingestion ──────────────────────────────────────────────────────────────

type ingestRequest struct {
	AgentID      string   `json:"agent_id"`
	PassRate     float64  `json:"pass_rate"`
	Capabilities []string `json:"capabilities"`
	Insights     []string `json:"insights"`
}

func (s *Server) handleIngestRecord(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tier, err := domain.TierOf(req.AgentID)
	if err != nil {
		metrics.RecordsRejected.WithLabelValues("unknown_agent").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec := domain.LearningRecord{
		ID:           uuid.New().String(),
		AgentID:      req.AgentID,
		PassRate:     req.PassRate,
		Tier:         tier,
		Capabilities: req.Capabilities,
		Insights:     req.Insights,
	}

	updated, err := s.store.RecordLearning(rec)
	if err != nil {
		status := http.StatusInternalServerError
		reason := "storage"
		if errors.Is(err, domain.ErrInvalidObservation) {
			status = http.StatusBadRequest
			reason = "invalid_observation"
		}
		metrics.RecordsRejected.WithLabelValues(reason).Inc()
		writeError(w, status, err.Error())
		return
	}

	metrics.RecordsIngested.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"record_id": rec.ID,
		"updated":   updated,
	})
}

// ─── Capabilities / Collaborations ──────────────────────────────────────────

func (s *Server) handleCapabilities(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.store.ListCapabilities()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if nodes == nil {
		nodes = []domain.CapabilityNode{}
	}
	writeJSON(w, http.StatusOK, nodes)
}

func (s *Server) handleCollaborations(w http.ResponseWriter, r *http.Request) {
	patterns, err := s.store.ListCollaborations()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if patterns == nil {
		patterns = []domain.CollaborationPattern{}
	}
	writeJSON(w, http.StatusOK, patterns)
}

type collaborationRequest struct {
	Agent1 string  `json:"agent1_id"`
	Agent2 string  `json:"agent2_id"`
	Score  float64 `json:"score"`
}

func (s *Server) handleObserveCollaboration(w http.ResponseWriter, r *http.Request) {
	var req collaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	pattern, err := s.store.ObserveCollaboration(req.Agent1, req.Agent2, req.Score)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidObservation) ||
			errors.Is(err, domain.ErrUnknownAgent) ||
			errors.Is(err, domain.ErrSelfPairing) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	metrics.CollaborationsObserved.Inc()
	writeJSON(w, http.StatusCreated, pattern)
}

// ─── Snapshots / Aggregates ─────────────────────────────────────────────────

func (s *Server) handleLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.LatestSnapshot()
	if errors.Is(err, domain.ErrNoSnapshot) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTakeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.tracker.TakeSnapshot()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.intel.TierSummaries()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := s.intel.Recommendations()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []domain.Recommendation{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	bundle, err := s.intel.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// ─── Scenarios ──────────────────────────────────────────────────────────────

type scenarioRequest struct {
	Seed             *int64   `json:"seed,omitempty"`
	Complexity       int      `json:"complexity,omitempty"`
	Challenge        string   `json:"challenge,omitempty"`
	Participants     int      `json:"participants,omitempty"`
	ChaosProbability *float64 `json:"chaos_probability,omitempty"`
}

func (s *Server) handleGenerateScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	opts := scenario.Options{
		Seed:             req.Seed,
		Complexity:       req.Complexity,
		Challenge:        req.Challenge,
		Participants:     req.Participants,
		ChaosProbability: -1, // Default multiplier
	}
	if req.ChaosProbability != nil {
		opts.ChaosProbability = *req.ChaosProbability
	}

	sc, err := s.engine.Generate(opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrOutOfRangeSelection) ||
			errors.Is(err, domain.ErrUnknownComplexity) ||
			errors.Is(err, domain.ErrUnknownChallenge) ||
			errors.Is(err, domain.ErrInvalidObservation) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	metrics.ScenariosGenerated.WithLabelValues(strconv.Itoa(sc.Complexity.Level)).Inc()
	writeJSON(w, http.StatusOK, sc)
}
