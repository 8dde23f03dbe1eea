package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/finance"
	"github.com/clubcricket/scorebook/internal/pubsub"
	"github.com/clubcricket/scorebook/internal/upcoming"
	"github.com/google/uuid"
)

// Upcoming fixtures and availability polling.

func (s *Server) ListFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtures, err := s.Fixtures.List()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, fixtures)
	}
}

func (s *Server) GetFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fx, err := s.Fixtures.Get(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		type fixtureResponse struct {
			*upcoming.Fixture
			Summary upcoming.AvailabilitySummary `json:"availability_summary"`
		}
		respondJSON(w, http.StatusOK, fixtureResponse{Fixture: fx, Summary: fx.Summary()})
	}
}

func (s *Server) CreateFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fx upcoming.Fixture
		if err := decodeBody(r, &fx); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if fx.OpponentName == "" || fx.MatchDate == 0 {
			http.Error(w, "opponent_name and match_date are required", http.StatusBadRequest)
			return
		}
		fx.ID = uuid.NewString()
		fx.CreatedAt = time.Now().Unix()
		isDryRun := isDryRunFromContext(r)

		if !isDryRun {
			if err := s.Fixtures.Create(&fx); err != nil {
				respondError(w, err)
				return
			}
			if err := s.pubsub.SendMessage(pubsub.EventFixtureCreated, &fx); err != nil {
				log.Error("Failed to publish fixture event", "error", err, "fixtureID", fx.ID)
			}
		}
		if err := s.Notifier.SendFixtureNotification(&fx, isDryRun); err != nil {
			log.Error("Failed to send fixture notification", "error", err, "fixtureID", fx.ID)
		}
		respondJSON(w, http.StatusCreated, &fx)
	}
}

func (s *Server) UpdateFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fx, err := s.Fixtures.Get(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		if err := decodeBody(r, fx); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fx.ID = r.PathValue("id")
		if err := s.Fixtures.Update(fx); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, fx)
	}
}

func (s *Server) DeleteFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Fixtures.Delete(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) SubmitAvailabilityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var av upcoming.PlayerAvailability
		if err := decodeBody(r, &av); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if av.PlayerName == "" || av.DeviceFingerprint == "" {
			http.Error(w, "player_name and device_fingerprint are required", http.StatusBadRequest)
			return
		}
		switch av.Status {
		case upcoming.Available, upcoming.NotAvailable, upcoming.Maybe:
		default:
			http.Error(w, "status must be available, not_available or maybe", http.StatusBadRequest)
			return
		}
		// Make sure the fixture exists before accepting a response for it.
		if _, err := s.Fixtures.Get(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		av.ID = uuid.NewString()
		av.FixtureID = r.PathValue("id")
		av.UpdatedAt = time.Now().Unix()
		if err := s.Fixtures.SubmitAvailability(&av); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, &av)
	}
}

// Club finances: monthly periods with income/expense entries.

func (s *Server) ListPeriodsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periods, err := s.Ledger.ListPeriods()
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, periods)
	}
}

func (s *Server) GetPeriodHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Ledger.GetPeriod(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		type periodResponse struct {
			*finance.Period
			Summary finance.Summary `json:"summary"`
		}
		respondJSON(w, http.StatusOK, periodResponse{Period: p, Summary: p.Summarize()})
	}
}

func (s *Server) CreatePeriodHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p finance.Period
		if err := decodeBody(r, &p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if p.Year == 0 || p.Month < 1 || p.Month > 12 {
			http.Error(w, "year and month (1-12) are required", http.StatusBadRequest)
			return
		}
		p.ID = uuid.NewString()
		p.CreatedAt = time.Now().Unix()
		if err := s.Ledger.CreatePeriod(&p); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, &p)
	}
}

func (s *Server) DeletePeriodHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ledger.DeletePeriod(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) AddEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var e finance.Entry
		if err := decodeBody(r, &e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if e.EntryType != finance.Income && e.EntryType != finance.Expense {
			http.Error(w, "entry_type must be income or expense", http.StatusBadRequest)
			return
		}
		if e.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if _, err := s.Ledger.GetPeriod(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		e.ID = uuid.NewString()
		e.PeriodID = r.PathValue("id")
		e.CreatedAt = time.Now().Unix()
		if err := s.Ledger.AddEntry(&e); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, &e)
	}
}

func (s *Server) UpdateEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := s.Ledger.GetEntry(r.PathValue("id"))
		if err != nil {
			respondError(w, err)
			return
		}
		if err := decodeBody(r, e); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.ID = r.PathValue("id")
		if err := s.Ledger.UpdateEntry(e); err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, e)
	}
}

func (s *Server) DeleteEntryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ledger.DeleteEntry(r.PathValue("id")); err != nil {
			respondError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) FinanceSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		periods, err := s.Ledger.ListPeriods()
		if err != nil {
			respondError(w, err)
			return
		}
		overall := finance.OverallSummary{Periods: periods}
		for _, p := range periods {
			ps := p.Summarize()
			overall.TotalIncome += ps.TotalIncome
			overall.TotalExpense += ps.TotalExpense
		}
		overall.RemainingBalance = overall.TotalIncome - overall.TotalExpense
		respondJSON(w, http.StatusOK, overall)
	}
}
