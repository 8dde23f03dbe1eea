package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/scoring"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondError maps business errors onto HTTP status codes so handlers
// never inspect engine internals.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, match.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, match.ErrInvalidDelivery),
		errors.Is(err, match.ErrIllegalTransition),
		errors.Is(err, match.ErrNothingToUndo):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error("Unhandled error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) CreateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoring.CreateMatchRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.TeamA == "" || req.TeamB == "" {
			http.Error(w, "team_a_name and team_b_name are required", http.StatusBadRequest)
			return
		}
		if req.TotalOvers <= 0 {
			http.Error(w, "total_overs must be positive", http.StatusBadRequest)
			return
		}
		m, err := s.Scoring.CreateMatch(req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, m)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Scoring.ListMatches()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Scoring.GetMatch(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Scoring.DeleteMatch(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SetTossHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoring.TossRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Decision != "bat" && req.Decision != "bowl" {
			http.Error(w, "toss_decision must be 'bat' or 'bowl'", http.StatusBadRequest)
			return
		}
		m, err := s.Scoring.SetToss(r.PathValue("id"), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) StartInningsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoring.StartInningsRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Striker == "" || req.NonStriker == "" || req.Bowler == "" {
			http.Error(w, "striker_name, non_striker_name and bowler_name are required", http.StatusBadRequest)
			return
		}
		inn, err := s.Scoring.StartInnings(r.PathValue("id"), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, inn)
	}
}

func (s *Server) RecordBallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoring.BallRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.ExtraType == "" {
			req.ExtraType = match.ExtraNone
		}
		out, err := s.Scoring.RecordBall(r.PathValue("id"), req, isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
	}
}

func (s *Server) UndoBallHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inn, err := s.Scoring.UndoLastBall(r.PathValue("id"), isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inn)
	}
}

func (s *Server) ChangeBowlerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Bowler string `json:"bowler_name"`
		}
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Bowler == "" {
			http.Error(w, "bowler_name is required", http.StatusBadRequest)
			return
		}
		inn, err := s.Scoring.ChangeBowler(r.PathValue("id"), req.Bowler)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inn)
	}
}

func (s *Server) SwapStrikeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inn, err := s.Scoring.SwapStrike(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, inn)
	}
}

func (s *Server) EndInningsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Scoring.EndInnings(r.PathValue("id"), isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) AbandonMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := s.Scoring.AbandonMatch(r.PathValue("id"), isDryRunFromContext(r))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, m)
	}
}

func (s *Server) ScorecardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card, err := s.Scoring.Scorecard(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, card)
	}
}
