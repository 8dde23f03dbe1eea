package finance

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/google/uuid"
)

// New creates a new LedgerStore.
func New(db *sql.DB) LedgerStore {
	return &store{
		db: db,
	}
}

func (s *store) CreatePeriod(p *Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM finance_periods WHERE year = ? AND month = ?)", p.Year, p.Month).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check period: %w", err)
	}
	if exists {
		return fmt.Errorf("finance period for %d-%02d already exists: %w", p.Year, p.Month, match.ErrIllegalTransition)
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}

	_, err = s.db.Exec(`
		INSERT INTO finance_periods (id, label, year, month, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Label, p.Year, p.Month, p.Notes, p.CreatedAt)
	if err != nil {
		log.Error("Failed to insert finance period", "error", err, "periodID", p.ID)
		return fmt.Errorf("failed to insert period: %w", err)
	}
	return nil
}

func (s *store) UpdatePeriod(p *Period) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE finance_periods SET label = ?, notes = ? WHERE id = ?", p.Label, p.Notes, p.ID)
	if err != nil {
		log.Error("Failed to update finance period", "error", err, "periodID", p.ID)
		return fmt.Errorf("failed to update period: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finance period %s: %w", p.ID, match.ErrNotFound)
	}
	return nil
}

func (s *store) DeletePeriod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM finance_periods WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to delete finance period", "error", err, "periodID", id)
		return fmt.Errorf("failed to delete period: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finance period %s: %w", id, match.ErrNotFound)
	}
	return nil
}

func (s *store) GetPeriod(id string) (*Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, label, year, month, notes, created_at
		FROM finance_periods WHERE id = ?
	`, id)

	p, err := scanPeriod(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("finance period %s: %w", id, match.ErrNotFound)
		}
		log.Error("Failed to scan finance period row", "error", err, "periodID", id)
		return nil, fmt.Errorf("failed to load period: %w", err)
	}

	if err := s.loadEntries(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPeriods returns every period with its entries, newest month first.
func (s *store) ListPeriods() ([]*Period, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, label, year, month, notes, created_at
		FROM finance_periods ORDER BY year DESC, month DESC
	`)
	if err != nil {
		log.Error("Failed to query finance periods", "error", err)
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []*Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			log.Error("Failed to scan finance period row", "error", err)
			continue
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, p := range periods {
		if err := s.loadEntries(p); err != nil {
			return nil, err
		}
	}
	return periods, nil
}

func (s *store) AddEntry(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM finance_periods WHERE id = ?)", e.PeriodID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check period: %w", err)
	}
	if !exists {
		return fmt.Errorf("finance period %s: %w", e.PeriodID, match.ErrNotFound)
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	_, err = s.db.Exec(`
		INSERT INTO finance_entries (id, period_id, entry_type, category, description, amount, entry_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.PeriodID, e.EntryType, e.Category, e.Description, e.Amount, e.Date, e.CreatedAt)
	if err != nil {
		log.Error("Failed to insert finance entry", "error", err, "periodID", e.PeriodID)
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	return nil
}

func (s *store) UpdateEntry(e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE finance_entries
		SET entry_type = ?, category = ?, description = ?, amount = ?, entry_date = ?
		WHERE id = ?
	`, e.EntryType, e.Category, e.Description, e.Amount, e.Date, e.ID)
	if err != nil {
		log.Error("Failed to update finance entry", "error", err, "entryID", e.ID)
		return fmt.Errorf("failed to update entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finance entry %s: %w", e.ID, match.ErrNotFound)
	}
	return nil
}

func (s *store) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM finance_entries WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to delete finance entry", "error", err, "entryID", id)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finance entry %s: %w", id, match.ErrNotFound)
	}
	return nil
}

func (s *store) GetEntry(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, period_id, entry_type, category, description, amount, entry_date, created_at
		FROM finance_entries WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("finance entry %s: %w", id, match.ErrNotFound)
		}
		log.Error("Failed to scan finance entry row", "error", err, "entryID", id)
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	return e, nil
}

func (s *store) loadEntries(p *Period) error {
	rows, err := s.db.Query(`
		SELECT id, period_id, entry_type, category, description, amount, entry_date, created_at
		FROM finance_entries WHERE period_id = ? ORDER BY entry_date, created_at
	`, p.ID)
	if err != nil {
		log.Error("Failed to query finance entries", "error", err, "periodID", p.ID)
		return fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("Failed to scan finance entry row", "error", err, "periodID", p.ID)
			continue
		}
		p.Entries = append(p.Entries, e)
	}
	return rows.Err()
}

func scanPeriod(scanner interface{ Scan(...any) error }) (*Period, error) {
	var p Period
	var notes sql.NullString

	err := scanner.Scan(&p.ID, &p.Label, &p.Year, &p.Month, &notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.Notes = notes.String
	return &p, nil
}

func scanEntry(scanner interface{ Scan(...any) error }) (*Entry, error) {
	var e Entry
	var desc sql.NullString

	err := scanner.Scan(&e.ID, &e.PeriodID, &e.EntryType, &e.Category, &desc, &e.Amount, &e.Date, &e.CreatedAt)
	if err != nil {
		return nil, err
	}

	e.Description = desc.String
	return &e, nil
}
