package scorecard

import "github.com/clubcricket/scorebook/internal/match"

// BatsmanStats holds a single batsman's line on the scorecard.
type BatsmanStats struct {
	Name       string  `json:"name"`
	Runs       int     `json:"runs"`
	BallsFaced int     `json:"balls_faced"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
	Dismissal  string  `json:"dismissal"`
}

// BowlerStats holds a single bowler's line on the scorecard.
type BowlerStats struct {
	Name         string  `json:"name"`
	LegalBalls   int     `json:"legal_balls"`
	Overs        string  `json:"overs"`
	Maidens      int     `json:"maidens"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Wides        int     `json:"wides"`
	NoBalls      int     `json:"no_balls"`
	Economy      float64 `json:"economy"`
}

// FallOfWicket is one entry in the fall-of-wickets list, in event order.
type FallOfWicket struct {
	WicketNumber int    `json:"wicket_number"`
	Batsman      string `json:"batsman"`
	Score        int    `json:"score"`
	Over         string `json:"over"`
}

// Extras is the itemized extras breakdown for one innings.
type Extras struct {
	Wides   int `json:"wides"`
	NoBalls int `json:"no_balls"`
	Byes    int `json:"byes"`
	LegByes int `json:"leg_byes"`
	Penalty int `json:"penalty"`
	Total   int `json:"total"`
}

// InningsScorecard is the derived card for one innings.
type InningsScorecard struct {
	Number        int             `json:"number"`
	BattingTeam   string          `json:"batting_team"`
	BowlingTeam   string          `json:"bowling_team"`
	TotalRuns     int             `json:"total_runs"`
	TotalWickets  int             `json:"total_wickets"`
	Overs         string          `json:"overs"`
	Target        int             `json:"target,omitempty"`
	Extras        Extras          `json:"extras"`
	Batting       []*BatsmanStats `json:"batting"`
	Bowling       []*BowlerStats  `json:"bowling"`
	FallOfWickets []FallOfWicket  `json:"fall_of_wickets"`
}

// FullScorecard is the derived card for a whole match.
type FullScorecard struct {
	MatchID       string              `json:"match_id"`
	TeamA         string              `json:"team_a"`
	TeamB         string              `json:"team_b"`
	Status        match.MatchStatus   `json:"status"`
	ResultSummary string              `json:"result_summary,omitempty"`
	Innings       []*InningsScorecard `json:"innings"`
}
