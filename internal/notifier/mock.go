package notifier

import (
	"sync"

	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/upcoming"
)

var _ Notifier = (*Mock)(nil)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	SendInningsBreakFunc       func(m *match.Match, inn *match.Innings, dryRun bool) error
	SendResultNotificationFunc func(m *match.Match, dryRun bool) error
	SendFixtureNotificationFunc func(fx *upcoming.Fixture, dryRun bool) error

	// Call records
	SendInningsBreakCalls       []*match.Innings
	SendResultNotificationCalls []*match.Match
	SendFixtureNotificationCalls []*upcoming.Fixture
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendInningsBreakCalls = nil
	m.SendResultNotificationCalls = nil
	m.SendFixtureNotificationCalls = nil
}

func (m *Mock) SendInningsBreak(mt *match.Match, inn *match.Innings, dryRun bool) error {
	m.mu.Lock()
	m.SendInningsBreakCalls = append(m.SendInningsBreakCalls, inn)
	m.mu.Unlock()
	if m.SendInningsBreakFunc != nil {
		return m.SendInningsBreakFunc(mt, inn, dryRun)
	}
	return nil
}

func (m *Mock) SendResultNotification(mt *match.Match, dryRun bool) error {
	m.mu.Lock()
	m.SendResultNotificationCalls = append(m.SendResultNotificationCalls, mt)
	m.mu.Unlock()
	if m.SendResultNotificationFunc != nil {
		return m.SendResultNotificationFunc(mt, dryRun)
	}
	return nil
}

func (m *Mock) SendFixtureNotification(fx *upcoming.Fixture, dryRun bool) error {
	m.mu.Lock()
	m.SendFixtureNotificationCalls = append(m.SendFixtureNotificationCalls, fx)
	m.mu.Unlock()
	if m.SendFixtureNotificationFunc != nil {
		return m.SendFixtureNotificationFunc(fx, dryRun)
	}
	return nil
}
