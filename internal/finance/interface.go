package finance

// LedgerStore defines the persistence contract for finance periods and
// their entries.
type LedgerStore interface {
	CreatePeriod(p *Period) error
	UpdatePeriod(p *Period) error
	DeletePeriod(id string) error
	GetPeriod(id string) (*Period, error)
	ListPeriods() ([]*Period, error)

	AddEntry(e *Entry) error
	UpdateEntry(e *Entry) error
	DeleteEntry(id string) error
	GetEntry(id string) (*Entry, error)
}
