package metrics

import "sync"

var _ Metrics = (*MockMetrics)(nil)

// MockMetrics is a no-op Metrics implementation that counts calls.
type MockMetrics struct {
	mu sync.Mutex

	BallsRecordedCalls    int
	BallsUndoneCalls      int
	MatchesCompletedCalls int
	ScoringDurations      []float64
	NotifSentCalls        int
	NotifFailedCalls      int
	StartupTimes          []float64
}

// NewMock creates a new mock instance.
func NewMock() *MockMetrics {
	return &MockMetrics{}
}

func (m *MockMetrics) IncBallsRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BallsRecordedCalls++
}

func (m *MockMetrics) IncBallsUndone() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BallsUndoneCalls++
}

func (m *MockMetrics) IncMatchesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MatchesCompletedCalls++
}

func (m *MockMetrics) ObserveScoringDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScoringDurations = append(m.ScoringDurations, duration)
}

func (m *MockMetrics) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifSentCalls++
}

func (m *MockMetrics) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotifFailedCalls++
}

func (m *MockMetrics) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartupTimes = append(m.StartupTimes, duration)
}
