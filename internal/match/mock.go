package match

import "sync"

// MockStore is a mock implementation of the MatchStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc     func(m *Match) error
	GetMatchFunc        func(id string) (*Match, error)
	ListMatchesFunc     func() ([]*Match, error)
	UpdateMatchFunc     func(m *Match) error
	DeleteMatchFunc     func(id string) error
	CreateInningsFunc   func(m *Match, inn *Innings) error
	UpdateInningsFunc   func(inn *Innings) error
	SaveBallFunc        func(m *Match, inn *Innings, ev *BallEvent) error
	SaveUndoFunc        func(inn *Innings, ev *BallEvent) error
	CompleteInningsFunc func(m *Match, inn *Innings) error

	// Call records
	CreateMatchCalls   []*Match
	GetMatchCalls      []string
	DeleteMatchCalls   []string
	CreateInningsCalls []*Innings
	SaveBallCalls      []*BallEvent
	SaveUndoCalls      []*BallEvent
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreateMatch(mt *Match) error {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, mt)
	m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(mt)
	}
	return nil
}

func (m *MockStore) GetMatch(id string) (*Match, error) {
	m.mu.Lock()
	m.GetMatchCalls = append(m.GetMatchCalls, id)
	m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) ListMatches() ([]*Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateMatch(mt *Match) error {
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(mt)
	}
	return nil
}

func (m *MockStore) DeleteMatch(id string) error {
	m.mu.Lock()
	m.DeleteMatchCalls = append(m.DeleteMatchCalls, id)
	m.mu.Unlock()
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(id)
	}
	return nil
}

func (m *MockStore) CreateInnings(mt *Match, inn *Innings) error {
	m.mu.Lock()
	m.CreateInningsCalls = append(m.CreateInningsCalls, inn)
	m.mu.Unlock()
	if m.CreateInningsFunc != nil {
		return m.CreateInningsFunc(mt, inn)
	}
	return nil
}

func (m *MockStore) UpdateInnings(inn *Innings) error {
	if m.UpdateInningsFunc != nil {
		return m.UpdateInningsFunc(inn)
	}
	return nil
}

func (m *MockStore) SaveBall(mt *Match, inn *Innings, ev *BallEvent) error {
	m.mu.Lock()
	m.SaveBallCalls = append(m.SaveBallCalls, ev)
	m.mu.Unlock()
	if m.SaveBallFunc != nil {
		return m.SaveBallFunc(mt, inn, ev)
	}
	return nil
}

func (m *MockStore) SaveUndo(inn *Innings, ev *BallEvent) error {
	m.mu.Lock()
	m.SaveUndoCalls = append(m.SaveUndoCalls, ev)
	m.mu.Unlock()
	if m.SaveUndoFunc != nil {
		return m.SaveUndoFunc(inn, ev)
	}
	return nil
}

func (m *MockStore) CompleteInnings(mt *Match, inn *Innings) error {
	if m.CompleteInningsFunc != nil {
		return m.CompleteInningsFunc(mt, inn)
	}
	return nil
}
