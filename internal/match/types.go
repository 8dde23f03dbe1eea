package match

import (
	"database/sql"
	"sync"
)

// store handles all database operations for matches, innings and ball events.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// MatchStatus is the coarse lifecycle state of a match.
type MatchStatus string

const (
	StatusToss         MatchStatus = "toss"
	StatusInProgress   MatchStatus = "in_progress"
	StatusInningsBreak MatchStatus = "innings_break"
	StatusCompleted    MatchStatus = "completed"
	StatusAbandoned    MatchStatus = "abandoned"
)

// InningsStatus is the lifecycle state of a single innings.
type InningsStatus string

const (
	InningsNotStarted InningsStatus = "not_started"
	InningsInProgress InningsStatus = "in_progress"
	InningsCompleted  InningsStatus = "completed"
)

// ExtraType classifies the extra runs on a delivery, if any.
type ExtraType string

const (
	ExtraNone    ExtraType = "none"
	ExtraWide    ExtraType = "wide"
	ExtraNoBall  ExtraType = "no_ball"
	ExtraBye     ExtraType = "bye"
	ExtraLegBye  ExtraType = "leg_bye"
	ExtraPenalty ExtraType = "penalty"
)

// DismissalType is how a batsman got out.
type DismissalType string

const (
	DismissalBowled      DismissalType = "bowled"
	DismissalCaught      DismissalType = "caught"
	DismissalLBW         DismissalType = "lbw"
	DismissalRunOut      DismissalType = "run_out"
	DismissalStumped     DismissalType = "stumped"
	DismissalHitWicket   DismissalType = "hit_wicket"
	DismissalRetiredHurt DismissalType = "retired_hurt"
	DismissalObstructing DismissalType = "obstructing_the_field"
	DismissalTimedOut    DismissalType = "timed_out"
	DismissalHandledBall DismissalType = "handled_the_ball"
)

// Match wraps the two innings of an overs-limited game.
type Match struct {
	ID            string      `json:"id"`
	TeamA         string      `json:"team_a_name"`
	TeamB         string      `json:"team_b_name"`
	TotalOvers    int         `json:"total_overs"`
	Venue         string      `json:"venue,omitempty"`
	TossWinner    string      `json:"toss_winner,omitempty"`
	TossDecision  string      `json:"toss_decision,omitempty"` // bat / bowl
	Status        MatchStatus `json:"status"`
	ResultSummary string      `json:"result_summary,omitempty"`
	CreatedAt     int64       `json:"created_at"`
	UpdatedAt     int64       `json:"updated_at"`
	Innings       []*Innings  `json:"innings"`
}

// Innings is the mutable aggregate kept in sync with the ball event log.
// It is a cached projection; the event log is the source of truth.
type Innings struct {
	ID              string        `json:"id"`
	MatchID         string        `json:"match_id"`
	Number          int           `json:"innings_number"` // 1 or 2
	BattingTeam     string        `json:"batting_team"`
	BowlingTeam     string        `json:"bowling_team"`
	TotalRuns       int           `json:"total_runs"`
	TotalWickets    int           `json:"total_wickets"`
	CurrentOver     int           `json:"current_over"`
	CurrentBall     int           `json:"current_ball"` // 0-5 at rest
	ExtrasWides     int           `json:"extras_wides"`
	ExtrasNoBalls   int           `json:"extras_no_balls"`
	ExtrasByes      int           `json:"extras_byes"`
	ExtrasLegByes   int           `json:"extras_leg_byes"`
	ExtrasPenalties int           `json:"extras_penalties"`
	Target          int           `json:"target,omitempty"` // 0 = no target
	Status          InningsStatus `json:"status"`
	Striker         string        `json:"striker_name,omitempty"`
	NonStriker      string        `json:"non_striker_name,omitempty"`
	Bowler          string        `json:"current_bowler_name,omitempty"`
	CreatedAt       int64         `json:"created_at"`
	Balls           []*BallEvent  `json:"balls,omitempty"`
}

// BallEvent is one delivery in the append-only event log. Once recorded it
// never changes except for the IsUndone soft-delete flag.
type BallEvent struct {
	ID               string        `json:"id"`
	InningsID        string        `json:"innings_id"`
	Sequence         int           `json:"sequence_number"`
	Over             int           `json:"over_number"`
	Ball             int           `json:"ball_number"`
	Bowler           string        `json:"bowler_name"`
	Batsman          string        `json:"batsman_name"` // striker when the ball was bowled
	NonStriker       string        `json:"non_striker_name"`
	RunsScored       int           `json:"runs_scored"` // off the bat
	IsBoundaryFour   bool          `json:"is_boundary_four"`
	IsBoundarySix    bool          `json:"is_boundary_six"`
	ExtraType        ExtraType     `json:"extra_type"`
	ExtraRuns        int           `json:"extra_runs"`
	IsWicket         bool          `json:"is_wicket"`
	DismissalType    DismissalType `json:"dismissal_type,omitempty"`
	DismissedBatsman string        `json:"dismissed_batsman,omitempty"`
	Fielder          string        `json:"fielder_name,omitempty"`
	IsLegalDelivery  bool          `json:"is_legal_delivery"`
	IsUndone         bool          `json:"is_undone"`
	CreatedAt        int64         `json:"created_at"`
}

// ActiveBalls returns the non-undone events in recording order.
func (inn *Innings) ActiveBalls() []*BallEvent {
	active := make([]*BallEvent, 0, len(inn.Balls))
	for _, b := range inn.Balls {
		if !b.IsUndone {
			active = append(active, b)
		}
	}
	return active
}

// LastActiveBall returns the most recent non-undone event, or nil.
func (inn *Innings) LastActiveBall() *BallEvent {
	for i := len(inn.Balls) - 1; i >= 0; i-- {
		if !inn.Balls[i].IsUndone {
			return inn.Balls[i]
		}
	}
	return nil
}

// ActiveInnings returns the innings currently in progress, or nil.
func (m *Match) ActiveInnings() *Innings {
	for _, inn := range m.Innings {
		if inn.Status == InningsInProgress {
			return inn
		}
	}
	return nil
}

// IsTerminal reports whether the match can no longer change.
func (m *Match) IsTerminal() bool {
	return m.Status == StatusCompleted || m.Status == StatusAbandoned
}
