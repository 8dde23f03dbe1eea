package finance

import (
	"testing"

	"github.com/clubcricket/scorebook/internal/database"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) LedgerStore {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(teardown)
	return New(db)
}

func TestCreatePeriod_RejectsDuplicateMonth(t *testing.T) {
	s := newTestStore(t)

	p := &Period{Label: "August 2026", Year: 2026, Month: 8}
	require.NoError(t, s.CreatePeriod(p))

	err := s.CreatePeriod(&Period{Label: "August again", Year: 2026, Month: 8})
	assert.ErrorIs(t, err, match.ErrIllegalTransition)

	require.NoError(t, s.CreatePeriod(&Period{Label: "September 2026", Year: 2026, Month: 9}))
}

func TestEntriesAndSummary(t *testing.T) {
	s := newTestStore(t)

	p := &Period{Label: "August 2026", Year: 2026, Month: 8}
	require.NoError(t, s.CreatePeriod(p))

	require.NoError(t, s.AddEntry(&Entry{PeriodID: p.ID, EntryType: Income, Category: "subs", Amount: 250, Date: "2026-08-01"}))
	require.NoError(t, s.AddEntry(&Entry{PeriodID: p.ID, EntryType: Expense, Category: "balls", Amount: 60, Date: "2026-08-10"}))
	require.NoError(t, s.AddEntry(&Entry{PeriodID: p.ID, EntryType: Expense, Category: "teas", Amount: 40, Date: "2026-08-15"}))

	got, err := s.GetPeriod(p.ID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 3)

	summary := got.Summarize()
	assert.Equal(t, 250.0, summary.TotalIncome)
	assert.Equal(t, 100.0, summary.TotalExpense)
	assert.Equal(t, 150.0, summary.RemainingBalance)
}

func TestEntryUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)

	p := &Period{Label: "August 2026", Year: 2026, Month: 8}
	require.NoError(t, s.CreatePeriod(p))
	e := &Entry{PeriodID: p.ID, EntryType: Expense, Category: "balls", Amount: 60, Date: "2026-08-10"}
	require.NoError(t, s.AddEntry(e))

	e.Amount = 75
	require.NoError(t, s.UpdateEntry(e))

	got, err := s.GetEntry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.Amount)

	require.NoError(t, s.DeleteEntry(e.ID))
	_, err = s.GetEntry(e.ID)
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestAddEntry_UnknownPeriod(t *testing.T) {
	s := newTestStore(t)
	err := s.AddEntry(&Entry{PeriodID: "missing", EntryType: Income, Category: "subs", Amount: 10, Date: "2026-08-01"})
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestDeletePeriod_CascadesEntries(t *testing.T) {
	s := newTestStore(t)

	p := &Period{Label: "August 2026", Year: 2026, Month: 8}
	require.NoError(t, s.CreatePeriod(p))
	e := &Entry{PeriodID: p.ID, EntryType: Income, Category: "subs", Amount: 10, Date: "2026-08-01"}
	require.NoError(t, s.AddEntry(e))

	require.NoError(t, s.DeletePeriod(p.ID))
	_, err := s.GetPeriod(p.ID)
	assert.ErrorIs(t, err, match.ErrNotFound)
	_, err = s.GetEntry(e.ID)
	assert.ErrorIs(t, err, match.ErrNotFound)
}

func TestListPeriods_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreatePeriod(&Period{Label: "July", Year: 2026, Month: 7}))
	require.NoError(t, s.CreatePeriod(&Period{Label: "August", Year: 2026, Month: 8}))
	require.NoError(t, s.CreatePeriod(&Period{Label: "December 2025", Year: 2025, Month: 12}))

	periods, err := s.ListPeriods()
	require.NoError(t, err)
	require.Len(t, periods, 3)
	assert.Equal(t, "August", periods[0].Label)
	assert.Equal(t, "July", periods[1].Label)
	assert.Equal(t, "December 2025", periods[2].Label)
}
