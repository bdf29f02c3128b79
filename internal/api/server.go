// Package api serves the floor state over HTTP. All endpoints are GET and
// read-only observation; the simulation is never mutated from here.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/talgya/tradefloor/internal/pipeline"
	"github.com/talgya/tradefloor/internal/risk"
	"github.com/talgya/tradefloor/internal/sim"
	"github.com/talgya/tradefloor/internal/staff"
	"github.com/talgya/tradefloor/internal/telemetry"
)

// Server serves the simulation state.
type Server struct {
	Sim       *sim.Simulation
	Telemetry *telemetry.Metrics
	Port      int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/proposals", s.handleProposals)
	mux.HandleFunc("/api/v1/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/v1/staff", s.handleStaff)
	mux.HandleFunc("/api/v1/risk", s.handleRisk)
	mux.HandleFunc("/api/v1/sizing", s.handleSizing)
	if s.Telemetry != nil {
		mux.Handle("/metrics", s.Telemetry.Handler())
	}

	addr := fmt.Sprintf(":%d", s.Port)
	go func() {
		slog.Info("api server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("api server stopped", "error", err)
		}
	}()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts := make(map[pipeline.Status]int)
	for _, p := range s.Sim.Proposals.All() {
		counts[p.Status]++
	}

	writeJSON(w, map[string]any{
		"tick":            s.Sim.CurrentTick(),
		"cash":            s.Sim.Holdings.Cash,
		"total_value":     s.Sim.TotalValue(),
		"pipeline_bonus":  s.Sim.PipelineBonus(),
		"proposal_counts": counts,
	})
}

func (s *Server) handleProposals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := pipeline.Status(r.URL.Query().Get("status"))
	var out []*pipeline.Proposal
	for _, p := range s.Sim.Proposals.All() {
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, out)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.Sim.Holdings)
}

func (s *Server) handleStaff(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type view struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		Role         string  `json:"role"`
		Stress       float64 `json:"stress"`
		Satisfaction float64 `json:"satisfaction"`
		Seat         int     `json:"seat"`
		Skills       any     `json:"skills"`
		Badges       int     `json:"badges"`
		Unlocked     int     `json:"unlocked_skills"`
	}
	var out []view
	for _, m := range s.Sim.Staff.Members {
		out = append(out, view{
			ID:           m.ID,
			Name:         m.Name,
			Role:         staff.RoleName(m.Role),
			Stress:       m.Stress,
			Satisfaction: m.Satisfaction,
			Seat:         m.Seat,
			Skills:       staff.EffectiveSkills(m),
			Badges:       len(m.Badges),
			Unlocked:     len(m.UnlockedSkills),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, risk.AssessPortfolio(s.Sim.Holdings, s.Sim.TotalValue()))
}

// handleSizing reports the recommended trade size for one staff member at
// a hypothetical confidence, marked against the current book.
func (s *Server) handleSizing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	m := s.Sim.Staff.ByID(r.URL.Query().Get("staff"))
	if m == nil {
		http.Error(w, "unknown staff id", http.StatusNotFound)
		return
	}
	confidence, err := strconv.ParseFloat(r.URL.Query().Get("confidence"), 64)
	if err != nil || confidence < 0 || confidence > 100 {
		http.Error(w, "confidence must be a number in 0-100", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"staff_id":         m.ID,
		"confidence":       confidence,
		"recommended_size": risk.PositionSize(m, confidence, s.Sim.Holdings, s.Sim.TotalValue()),
	})
}
