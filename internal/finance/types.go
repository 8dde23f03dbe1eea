package finance

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the club ledger.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// EntryType classifies a ledger entry.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// Period is one month of club bookkeeping. Year+month is unique.
type Period struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Year      int      `json:"year"`
	Month     int      `json:"month"`
	Notes     string   `json:"notes,omitempty"`
	CreatedAt int64    `json:"created_at"`
	Entries   []*Entry `json:"entries,omitempty"`
}

// Entry is a single income or expense line in a period.
type Entry struct {
	ID          string    `json:"id"`
	PeriodID    string    `json:"period_id"`
	EntryType   EntryType `json:"entry_type"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CreatedAt   int64     `json:"created_at"`
}

// Summary is the derived balance for a period or for all periods.
type Summary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// Summarize folds the entries into income/expense totals.
func (p *Period) Summarize() Summary {
	var s Summary
	for _, e := range p.Entries {
		if e.EntryType == Income {
			s.TotalIncome += e.Amount
		} else {
			s.TotalExpense += e.Amount
		}
	}
	s.RemainingBalance = s.TotalIncome - s.TotalExpense
	return s
}

// OverallSummary aggregates every period plus a grand total.
type OverallSummary struct {
	Summary
	Periods []*Period `json:"periods"`
}
