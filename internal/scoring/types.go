package scoring

import (
	"sync"

	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/metrics"
	"github.com/clubcricket/scorebook/internal/notifier"
	"github.com/clubcricket/scorebook/internal/pubsub"
)

// Service orchestrates the scoring engine: it loads aggregates from the
// store, applies the engine rules, persists the outcome atomically and
// fans out notifications and events. One mutating operation per match at a
// time; the per-match lock is held for the whole validate+apply+persist.
type Service struct {
	store    match.MatchStore
	notifier notifier.Notifier
	metrics  metrics.Metrics
	pubsub   pubsub.PubSubClient

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// CreateMatchRequest carries the fields needed to set up a new match.
type CreateMatchRequest struct {
	TeamA      string `json:"team_a_name"`
	TeamB      string `json:"team_b_name"`
	TotalOvers int    `json:"total_overs"`
	Venue      string `json:"venue"`
}

// TossRequest records the toss outcome.
type TossRequest struct {
	Winner   string `json:"toss_winner"`
	Decision string `json:"toss_decision"` // bat / bowl
}

// StartInningsRequest opens an innings with its opening players.
type StartInningsRequest struct {
	BattingTeam string `json:"batting_team"`
	BowlingTeam string `json:"bowling_team"`
	Striker     string `json:"striker_name"`
	NonStriker  string `json:"non_striker_name"`
	Bowler      string `json:"bowler_name"`
}

// BallRequest describes one delivery as submitted by the scorer.
type BallRequest struct {
	RunsScored       int                 `json:"runs_scored"` // off the bat, 0-7
	IsBoundaryFour   bool                `json:"is_boundary_four"`
	IsBoundarySix    bool                `json:"is_boundary_six"`
	ExtraType        match.ExtraType     `json:"extra_type"`
	ExtraRuns        int                 `json:"extra_runs"` // 0-7
	IsWicket         bool                `json:"is_wicket"`
	DismissalType    match.DismissalType `json:"dismissal_type"`
	DismissedBatsman string              `json:"dismissed_batsman"`
	Fielder          string              `json:"fielder_name"`
	NewBatsman       string              `json:"new_batsman_name"` // incoming player after a wicket
}

// BallOutcome is what RecordBall hands back to the caller.
type BallOutcome struct {
	Event         *match.BallEvent `json:"ball_event"`
	Innings       *match.Innings   `json:"innings"`
	OverComplete  bool             `json:"over_complete"`
	InningsEnded  bool             `json:"innings_ended"`
	ResultSummary string           `json:"result_summary,omitempty"`
}
