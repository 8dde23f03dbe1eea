package match

// MatchStore defines the persistence contract for matches, innings and the
// ball event log. Implementations are dumb: all scoring rules live in the
// scoring engine, the store only writes what it is given, atomically.
type MatchStore interface {
	CreateMatch(m *Match) error
	GetMatch(id string) (*Match, error)
	ListMatches() ([]*Match, error)
	UpdateMatch(m *Match) error
	DeleteMatch(id string) error

	// CreateInnings inserts the innings and persists the match status in the
	// same transaction.
	CreateInnings(m *Match, inn *Innings) error
	UpdateInnings(inn *Innings) error

	// SaveBall appends the event and persists the updated innings aggregate
	// and match (status/result may have changed) in one transaction.
	SaveBall(m *Match, inn *Innings, ev *BallEvent) error
	// SaveUndo marks the event undone and persists the rolled-back innings
	// aggregate in one transaction. The event row is never deleted.
	SaveUndo(inn *Innings, ev *BallEvent) error
	// CompleteInnings persists a forced innings completion together with the
	// resulting match transition.
	CompleteInnings(m *Match, inn *Innings) error
}
