package http

import (
	"net/http"

	"github.com/clubcricket/scorebook/internal/config"
	"github.com/clubcricket/scorebook/internal/finance"
	"github.com/clubcricket/scorebook/internal/metrics"
	"github.com/clubcricket/scorebook/internal/notifier"
	"github.com/clubcricket/scorebook/internal/pubsub"
	"github.com/clubcricket/scorebook/internal/scoring"
	"github.com/clubcricket/scorebook/internal/upcoming"
)

func NewServer(scoringSvc *scoring.Service, fixtures upcoming.FixtureStore, ledger finance.LedgerStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Scoring:        scoringSvc,
		Fixtures:       fixtures,
		Ledger:         ledger,
		Notifier:       notifier,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Mutating scoring endpoints additionally require the scorer PIN,
	// administrative ones the manager PIN.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.CreateMatchHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("GET /matches/{id}", Chain(s.GetMatchHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /matches/{id}", Chain(s.DeleteMatchHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("GET /matches/{id}/scorecard", Chain(s.ScorecardHandler(), paramsMiddleware))

	s.Router.Handle("POST /matches/{id}/toss", Chain(s.SetTossHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/innings", Chain(s.StartInningsHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/ball", Chain(s.RecordBallHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/undo", Chain(s.UndoBallHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/bowler", Chain(s.ChangeBowlerHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/swap-strike", Chain(s.SwapStrikeHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/end-innings", Chain(s.EndInningsHandler(), paramsMiddleware, s.scorerPinMiddleware))
	s.Router.Handle("POST /matches/{id}/abandon", Chain(s.AbandonMatchHandler(), paramsMiddleware, s.managerPinMiddleware))

	s.Router.Handle("GET /upcoming", Chain(s.ListFixturesHandler(), paramsMiddleware))
	s.Router.Handle("POST /upcoming", Chain(s.CreateFixtureHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("GET /upcoming/{id}", Chain(s.GetFixtureHandler(), paramsMiddleware))
	s.Router.Handle("PUT /upcoming/{id}", Chain(s.UpdateFixtureHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("DELETE /upcoming/{id}", Chain(s.DeleteFixtureHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("POST /upcoming/{id}/availability", Chain(s.SubmitAvailabilityHandler(), paramsMiddleware))

	s.Router.Handle("GET /finance/periods", Chain(s.ListPeriodsHandler(), paramsMiddleware))
	s.Router.Handle("POST /finance/periods", Chain(s.CreatePeriodHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("GET /finance/periods/{id}", Chain(s.GetPeriodHandler(), paramsMiddleware))
	s.Router.Handle("DELETE /finance/periods/{id}", Chain(s.DeletePeriodHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("POST /finance/periods/{id}/entries", Chain(s.AddEntryHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("PUT /finance/entries/{id}", Chain(s.UpdateEntryHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("DELETE /finance/entries/{id}", Chain(s.DeleteEntryHandler(), paramsMiddleware, s.managerPinMiddleware))
	s.Router.Handle("GET /finance/summary", Chain(s.FinanceSummaryHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
