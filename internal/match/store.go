package match

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// New creates a new MatchStore backed by the given database.
func New(db *sql.DB) MatchStore {
	return &store{
		db: db,
	}
}

func (s *store) CreateMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO matches (id, team_a_name, team_b_name, total_overs, venue, toss_winner, toss_decision, status, result_summary, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.TeamA, m.TeamB, m.TotalOvers, m.Venue, m.TossWinner, m.TossDecision, m.Status, m.ResultSummary, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		log.Error("Failed to insert match", "error", err, "matchID", m.ID)
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (s *store) GetMatch(id string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getMatchLocked(id)
}

func (s *store) getMatchLocked(id string) (*Match, error) {
	row := s.db.QueryRow(`
		SELECT id, team_a_name, team_b_name, total_overs, venue, toss_winner, toss_decision, status, result_summary, created_at, updated_at
		FROM matches WHERE id = ?
	`, id)

	m, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("match %s: %w", id, ErrNotFound)
		}
		log.Error("Failed to scan match row", "error", err, "matchID", id)
		return nil, fmt.Errorf("failed to load match: %w", err)
	}

	if err := s.loadInnings(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *store) loadInnings(m *Match) error {
	rows, err := s.db.Query(`
		SELECT id, match_id, innings_number, batting_team, bowling_team, total_runs, total_wickets,
		       current_over, current_ball, extras_wides, extras_no_balls, extras_byes, extras_leg_byes,
		       extras_penalties, target, status, striker_name, non_striker_name, current_bowler_name, created_at
		FROM innings WHERE match_id = ? ORDER BY innings_number
	`, m.ID)
	if err != nil {
		log.Error("Failed to query innings", "error", err, "matchID", m.ID)
		return fmt.Errorf("failed to load innings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		inn, err := scanInnings(rows)
		if err != nil {
			log.Error("Failed to scan innings row", "error", err, "matchID", m.ID)
			return fmt.Errorf("failed to scan innings: %w", err)
		}
		m.Innings = append(m.Innings, inn)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate innings: %w", err)
	}

	for _, inn := range m.Innings {
		if err := s.loadBalls(inn); err != nil {
			return err
		}
	}
	return nil
}

func (s *store) loadBalls(inn *Innings) error {
	// Sequence numbers can repeat after an undo, so recording order is the
	// insertion order, not the sequence number.
	rows, err := s.db.Query(`
		SELECT id, innings_id, sequence_number, over_number, ball_number, bowler_name, batsman_name,
		       non_striker_name, runs_scored, is_boundary_four, is_boundary_six, extra_type, extra_runs,
		       is_wicket, dismissal_type, dismissed_batsman, fielder_name, is_legal_delivery, is_undone, created_at
		FROM ball_events WHERE innings_id = ? ORDER BY rowid
	`, inn.ID)
	if err != nil {
		log.Error("Failed to query ball events", "error", err, "inningsID", inn.ID)
		return fmt.Errorf("failed to load ball events: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		ev, err := scanBall(rows)
		if err != nil {
			log.Error("Failed to scan ball event row", "error", err, "inningsID", inn.ID)
			return fmt.Errorf("failed to scan ball event: %w", err)
		}
		inn.Balls = append(inn.Balls, ev)
	}
	return rows.Err()
}

// ListMatches returns match summaries (no innings detail), newest first.
func (s *store) ListMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, team_a_name, team_b_name, total_overs, venue, toss_winner, toss_decision, status, result_summary, created_at, updated_at
		FROM matches ORDER BY created_at DESC
	`)
	if err != nil {
		log.Error("Failed to query matches", "error", err)
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *store) UpdateMatch(m *Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateMatchTx(s.db, m)
}

func (s *store) DeleteMatch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		log.Error("Failed to delete match", "error", err, "matchID", id)
		return fmt.Errorf("failed to delete match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *store) CreateInnings(m *Match, inn *Innings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO innings (id, match_id, innings_number, batting_team, bowling_team, total_runs, total_wickets,
		                     current_over, current_ball, extras_wides, extras_no_balls, extras_byes, extras_leg_byes,
		                     extras_penalties, target, status, striker_name, non_striker_name, current_bowler_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, inn.ID, inn.MatchID, inn.Number, inn.BattingTeam, inn.BowlingTeam, inn.TotalRuns, inn.TotalWickets,
		inn.CurrentOver, inn.CurrentBall, inn.ExtrasWides, inn.ExtrasNoBalls, inn.ExtrasByes, inn.ExtrasLegByes,
		inn.ExtrasPenalties, inn.Target, inn.Status, inn.Striker, inn.NonStriker, inn.Bowler, inn.CreatedAt)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to insert innings", "error", err, "matchID", m.ID)
		return fmt.Errorf("failed to insert innings: %w", err)
	}

	if err := updateMatchTx(tx, m); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *store) UpdateInnings(inn *Innings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateInningsTx(s.db, inn)
}

func (s *store) SaveBall(m *Match, inn *Innings, ev *BallEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO ball_events (id, innings_id, sequence_number, over_number, ball_number, bowler_name, batsman_name,
		                         non_striker_name, runs_scored, is_boundary_four, is_boundary_six, extra_type, extra_runs,
		                         is_wicket, dismissal_type, dismissed_batsman, fielder_name, is_legal_delivery, is_undone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.ID, ev.InningsID, ev.Sequence, ev.Over, ev.Ball, ev.Bowler, ev.Batsman,
		ev.NonStriker, ev.RunsScored, ev.IsBoundaryFour, ev.IsBoundarySix, ev.ExtraType, ev.ExtraRuns,
		ev.IsWicket, string(ev.DismissalType), ev.DismissedBatsman, ev.Fielder, ev.IsLegalDelivery, ev.IsUndone, ev.CreatedAt)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to insert ball event", "error", err, "inningsID", inn.ID)
		return fmt.Errorf("failed to insert ball event: %w", err)
	}

	if err := updateInningsTx(tx, inn); err != nil {
		tx.Rollback()
		return err
	}
	if err := updateMatchTx(tx, m); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *store) SaveUndo(inn *Innings, ev *BallEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	_, err = tx.Exec("UPDATE ball_events SET is_undone = 1 WHERE id = ?", ev.ID)
	if err != nil {
		tx.Rollback()
		log.Error("Failed to mark ball event undone", "error", err, "ballID", ev.ID)
		return fmt.Errorf("failed to mark ball event undone: %w", err)
	}

	if err := updateInningsTx(tx, inn); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *store) CompleteInnings(m *Match, inn *Innings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := updateInningsTx(tx, inn); err != nil {
		tx.Rollback()
		return err
	}
	if err := updateMatchTx(tx, m); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// execer lets the update helpers run against either *sql.DB or *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func updateMatchTx(e execer, m *Match) error {
	_, err := e.Exec(`
		UPDATE matches
		SET toss_winner = ?, toss_decision = ?, status = ?, result_summary = ?, updated_at = ?
		WHERE id = ?
	`, m.TossWinner, m.TossDecision, m.Status, m.ResultSummary, m.UpdatedAt, m.ID)
	if err != nil {
		log.Error("Failed to update match", "error", err, "matchID", m.ID)
		return fmt.Errorf("failed to update match: %w", err)
	}
	return nil
}

func updateInningsTx(e execer, inn *Innings) error {
	_, err := e.Exec(`
		UPDATE innings
		SET total_runs = ?, total_wickets = ?, current_over = ?, current_ball = ?,
		    extras_wides = ?, extras_no_balls = ?, extras_byes = ?, extras_leg_byes = ?, extras_penalties = ?,
		    target = ?, status = ?, striker_name = ?, non_striker_name = ?, current_bowler_name = ?
		WHERE id = ?
	`, inn.TotalRuns, inn.TotalWickets, inn.CurrentOver, inn.CurrentBall,
		inn.ExtrasWides, inn.ExtrasNoBalls, inn.ExtrasByes, inn.ExtrasLegByes, inn.ExtrasPenalties,
		inn.Target, inn.Status, inn.Striker, inn.NonStriker, inn.Bowler, inn.ID)
	if err != nil {
		log.Error("Failed to update innings", "error", err, "inningsID", inn.ID)
		return fmt.Errorf("failed to update innings: %w", err)
	}
	return nil
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var m Match
	var venue, tossWinner, tossDecision, result sql.NullString

	err := scanner.Scan(
		&m.ID, &m.TeamA, &m.TeamB, &m.TotalOvers, &venue, &tossWinner, &tossDecision,
		&m.Status, &result, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Venue = venue.String
	m.TossWinner = tossWinner.String
	m.TossDecision = tossDecision.String
	m.ResultSummary = result.String
	return &m, nil
}

func scanInnings(scanner interface{ Scan(...any) error }) (*Innings, error) {
	var inn Innings
	var striker, nonStriker, bowler sql.NullString

	err := scanner.Scan(
		&inn.ID, &inn.MatchID, &inn.Number, &inn.BattingTeam, &inn.BowlingTeam, &inn.TotalRuns, &inn.TotalWickets,
		&inn.CurrentOver, &inn.CurrentBall, &inn.ExtrasWides, &inn.ExtrasNoBalls, &inn.ExtrasByes, &inn.ExtrasLegByes,
		&inn.ExtrasPenalties, &inn.Target, &inn.Status, &striker, &nonStriker, &bowler, &inn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	inn.Striker = striker.String
	inn.NonStriker = nonStriker.String
	inn.Bowler = bowler.String
	return &inn, nil
}

func scanBall(scanner interface{ Scan(...any) error }) (*BallEvent, error) {
	var ev BallEvent
	var dismissal, dismissed, fielder sql.NullString

	err := scanner.Scan(
		&ev.ID, &ev.InningsID, &ev.Sequence, &ev.Over, &ev.Ball, &ev.Bowler, &ev.Batsman,
		&ev.NonStriker, &ev.RunsScored, &ev.IsBoundaryFour, &ev.IsBoundarySix, &ev.ExtraType, &ev.ExtraRuns,
		&ev.IsWicket, &dismissal, &dismissed, &fielder, &ev.IsLegalDelivery, &ev.IsUndone, &ev.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ev.DismissalType = DismissalType(dismissal.String)
	ev.DismissedBatsman = dismissed.String
	ev.Fielder = fielder.String
	return &ev, nil
}
