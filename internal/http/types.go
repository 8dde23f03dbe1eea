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

type Server struct {
	Scoring        *scoring.Service
	Fixtures       upcoming.FixtureStore
	Ledger         finance.LedgerStore
	Notifier       notifier.Notifier
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
