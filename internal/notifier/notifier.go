package notifier

import (
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/upcoming"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For a completed first innings
	SendInningsBreak(m *match.Match, inn *match.Innings, dryRun bool) error
	// For a completed or abandoned match
	SendResultNotification(m *match.Match, dryRun bool) error
	// For new or changed upcoming fixtures
	SendFixtureNotification(fx *upcoming.Fixture, dryRun bool) error
}
