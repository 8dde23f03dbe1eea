package upcoming

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/google/uuid"
)

// New creates a new FixtureStore.
func New(db *sql.DB) FixtureStore {
	return &store{
		db: db,
	}
}

func (s *store) Create(fx *Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fx.ID == "" {
		fx.ID = uuid.NewString()
	}
	if fx.CreatedAt == 0 {
		fx.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.Exec(`
		INSERT INTO upcoming_matches (id, opponent_name, match_date, venue, overs, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fx.ID, fx.OpponentName, fx.MatchDate, fx.Venue, fx.Overs, fx.Notes, fx.CreatedAt)
	if err != nil {
		log.Error("Failed to insert fixture", "error", err, "fixtureID", fx.ID)
		return fmt.Errorf("failed to insert fixture: %w", err)
	}
	return nil
}

func (s *store) Update(fx *Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`
		UPDATE upcoming_matches
		SET opponent_name = ?, match_date = ?, venue = ?, overs = ?, notes = ?
		WHERE id = ?
	`, fx.OpponentName, fx.MatchDate, fx.Venue, fx.Overs, fx.Notes, fx.ID)
	if err != nil {
		log.Error("Failed to update fixture", "error", err, "fixtureID", fx.ID)
		return fmt.Errorf("failed to update fixture: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("fixture %s: %w", fx.ID, match.ErrNotFound)
	}
	return nil
}

func (s *store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM upcoming_matches WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to delete fixture", "error", err, "fixtureID", id)
		return fmt.Errorf("failed to delete fixture: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("fixture %s: %w", id, match.ErrNotFound)
	}
	return nil
}

func (s *store) Get(id string) (*Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, opponent_name, match_date, venue, overs, notes, created_at
		FROM upcoming_matches WHERE id = ?
	`, id)

	fx, err := scanFixture(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("fixture %s: %w", id, match.ErrNotFound)
		}
		log.Error("Failed to scan fixture row", "error", err, "fixtureID", id)
		return nil, fmt.Errorf("failed to load fixture: %w", err)
	}

	if err := s.loadAvailabilities(fx); err != nil {
		return nil, err
	}
	return fx, nil
}

func (s *store) List() ([]*Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, opponent_name, match_date, venue, overs, notes, created_at
		FROM upcoming_matches ORDER BY match_date ASC
	`)
	if err != nil {
		log.Error("Failed to query fixtures", "error", err)
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []*Fixture
	for rows.Next() {
		fx, err := scanFixture(rows)
		if err != nil {
			log.Error("Failed to scan fixture row", "error", err)
			continue
		}
		fixtures = append(fixtures, fx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, fx := range fixtures {
		if err := s.loadAvailabilities(fx); err != nil {
			return nil, err
		}
	}
	return fixtures, nil
}

// SubmitAvailability upserts on (fixture, device fingerprint): the same
// device re-submitting overwrites its previous answer.
func (s *store) SubmitAvailability(av *PlayerAvailability) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM upcoming_matches WHERE id = ?)", av.FixtureID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check fixture: %w", err)
	}
	if !exists {
		return fmt.Errorf("fixture %s: %w", av.FixtureID, match.ErrNotFound)
	}

	if av.ID == "" {
		av.ID = uuid.NewString()
	}
	av.UpdatedAt = time.Now().Unix()

	_, err = s.db.Exec(`
		INSERT INTO player_availability (id, upcoming_match_id, player_name, status, device_fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(upcoming_match_id, device_fingerprint) DO UPDATE SET
			player_name = excluded.player_name,
			status = excluded.status,
			updated_at = excluded.updated_at;
	`, av.ID, av.FixtureID, av.PlayerName, av.Status, av.DeviceFingerprint, av.UpdatedAt)
	if err != nil {
		log.Error("Failed to upsert availability", "error", err, "fixtureID", av.FixtureID)
		return fmt.Errorf("failed to submit availability: %w", err)
	}
	return nil
}

func (s *store) loadAvailabilities(fx *Fixture) error {
	rows, err := s.db.Query(`
		SELECT id, upcoming_match_id, player_name, status, device_fingerprint, updated_at
		FROM player_availability WHERE upcoming_match_id = ? ORDER BY updated_at
	`, fx.ID)
	if err != nil {
		log.Error("Failed to query availabilities", "error", err, "fixtureID", fx.ID)
		return fmt.Errorf("failed to load availabilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a PlayerAvailability
		if err := rows.Scan(&a.ID, &a.FixtureID, &a.PlayerName, &a.Status, &a.DeviceFingerprint, &a.UpdatedAt); err != nil {
			log.Error("Failed to scan availability row", "error", err, "fixtureID", fx.ID)
			continue
		}
		fx.Availabilities = append(fx.Availabilities, &a)
	}
	return rows.Err()
}

func scanFixture(scanner interface{ Scan(...any) error }) (*Fixture, error) {
	var fx Fixture
	var venue, notes sql.NullString

	err := scanner.Scan(&fx.ID, &fx.OpponentName, &fx.MatchDate, &venue, &fx.Overs, &notes, &fx.CreatedAt)
	if err != nil {
		return nil, err
	}

	fx.Venue = venue.String
	fx.Notes = notes.String
	return &fx, nil
}
