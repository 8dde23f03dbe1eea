package upcoming

// FixtureStore defines the persistence contract for upcoming fixtures and
// availability polls.
type FixtureStore interface {
	Create(fx *Fixture) error
	Update(fx *Fixture) error
	Delete(id string) error
	Get(id string) (*Fixture, error)
	List() ([]*Fixture, error)
	SubmitAvailability(av *PlayerAvailability) error
}
