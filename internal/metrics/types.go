package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds the Prometheus collectors for the application.
type Service struct {
	BallsRecorded      prometheus.Counter
	BallsUndone        prometheus.Counter
	MatchesCompleted   prometheus.Counter
	ScoringDuration    prometheus.Histogram
	SlackNotifSent     prometheus.Counter
	SlackNotifFailed   prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
