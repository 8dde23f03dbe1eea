package scorecard

import (
	"fmt"
	"math"

	"github.com/clubcricket/scorebook/internal/match"
)

// Derive builds the full scorecard for a match. It is a pure fold over the
// active event log of each innings and never mutates its input.
func Derive(m *match.Match) *FullScorecard {
	card := &FullScorecard{
		MatchID:       m.ID,
		TeamA:         m.TeamA,
		TeamB:         m.TeamB,
		Status:        m.Status,
		ResultSummary: m.ResultSummary,
		Innings:       make([]*InningsScorecard, 0, len(m.Innings)),
	}
	for _, inn := range m.Innings {
		card.Innings = append(card.Innings, DeriveInnings(inn))
	}
	return card
}

// DeriveInnings folds one innings' active events into batting and bowling
// statistics plus the fall-of-wickets list.
func DeriveInnings(inn *match.Innings) *InningsScorecard {
	card := &InningsScorecard{
		Number:        inn.Number,
		BattingTeam:   inn.BattingTeam,
		BowlingTeam:   inn.BowlingTeam,
		TotalRuns:     inn.TotalRuns,
		TotalWickets:  inn.TotalWickets,
		Overs:         oversString(inn.CurrentOver, inn.CurrentBall),
		Target:        inn.Target,
		Batting:       make([]*BatsmanStats, 0),
		Bowling:       make([]*BowlerStats, 0),
		FallOfWickets: make([]FallOfWicket, 0),
	}
	card.Extras = Extras{
		Wides:   inn.ExtrasWides,
		NoBalls: inn.ExtrasNoBalls,
		Byes:    inn.ExtrasByes,
		LegByes: inn.ExtrasLegByes,
		Penalty: inn.ExtrasPenalties,
	}
	card.Extras.Total = card.Extras.Wides + card.Extras.NoBalls + card.Extras.Byes + card.Extras.LegByes + card.Extras.Penalty

	// Aggregation keyed by name; ordering follows first appearance in the
	// event log so the card is deterministic.
	batsmen := make(map[string]*BatsmanStats)
	batsmanOrder := make([]string, 0)
	bowlers := make(map[string]*BowlerStats)
	bowlerOrder := make([]string, 0)

	batsman := func(name string) *BatsmanStats {
		b, ok := batsmen[name]
		if !ok {
			b = &BatsmanStats{Name: name, Dismissal: "not out"}
			batsmen[name] = b
			batsmanOrder = append(batsmanOrder, name)
		}
		return b
	}
	bowler := func(name string) *BowlerStats {
		b, ok := bowlers[name]
		if !ok {
			b = &BowlerStats{Name: name}
			bowlers[name] = b
			bowlerOrder = append(bowlerOrder, name)
		}
		return b
	}

	// Per-over maiden tracking for the bowler currently observed in an over.
	type overAcc struct {
		over       int
		legalBalls int
		conceded   int
	}
	overAccs := make(map[string]*overAcc)

	runningScore := 0
	wicketCount := 0

	for _, ev := range inn.ActiveBalls() {
		bat := batsman(ev.Batsman)
		bwl := bowler(ev.Bowler)

		runningScore += ev.RunsScored + ev.ExtraRuns

		// Batting side.
		if ev.ExtraType != match.ExtraWide && ev.ExtraType != match.ExtraBye && ev.ExtraType != match.ExtraLegBye {
			bat.Runs += ev.RunsScored
		}
		if ev.ExtraType != match.ExtraWide {
			bat.BallsFaced++
		}
		if ev.IsBoundaryFour {
			bat.Fours++
		}
		if ev.IsBoundarySix {
			bat.Sixes++
		}

		// Bowling side. Byes and leg byes are not charged to the bowler.
		conceded := 0
		switch ev.ExtraType {
		case match.ExtraWide:
			conceded = ev.ExtraRuns
			bwl.Wides++
		case match.ExtraNoBall:
			conceded = ev.ExtraRuns + ev.RunsScored
			bwl.NoBalls++
		case match.ExtraBye, match.ExtraLegBye, match.ExtraPenalty:
			conceded = 0
		default:
			conceded = ev.RunsScored
		}
		bwl.RunsConceded += conceded
		if ev.IsLegalDelivery {
			bwl.LegalBalls++
		}

		acc, ok := overAccs[ev.Bowler]
		if !ok || acc.over != ev.Over {
			acc = &overAcc{over: ev.Over}
			overAccs[ev.Bowler] = acc
		}
		acc.conceded += conceded
		if ev.IsLegalDelivery {
			acc.legalBalls++
			if acc.legalBalls == 6 && acc.conceded == 0 {
				bwl.Maidens++
			}
		}

		if ev.IsWicket {
			out := batsman(ev.DismissedBatsman)
			out.Dismissal = dismissalText(ev)
			if creditsBowler(ev.DismissalType) {
				bwl.Wickets++
			}
			wicketCount++
			card.FallOfWickets = append(card.FallOfWickets, FallOfWicket{
				WicketNumber: wicketCount,
				Batsman:      ev.DismissedBatsman,
				Score:        runningScore,
				Over:         fmt.Sprintf("%d.%d", ev.Over, ev.Ball),
			})
		}
	}

	// The batsmen at the crease appear even if they never faced a ball.
	if inn.Striker != "" {
		batsman(inn.Striker)
	}
	if inn.NonStriker != "" {
		batsman(inn.NonStriker)
	}

	for _, name := range batsmanOrder {
		b := batsmen[name]
		if b.BallsFaced > 0 {
			b.StrikeRate = round2(float64(b.Runs) / float64(b.BallsFaced) * 100)
		}
		card.Batting = append(card.Batting, b)
	}
	for _, name := range bowlerOrder {
		b := bowlers[name]
		b.Overs = oversString(b.LegalBalls/6, b.LegalBalls%6)
		if b.LegalBalls > 0 {
			b.Economy = round2(float64(b.RunsConceded) / (float64(b.LegalBalls) / 6))
		}
		card.Bowling = append(card.Bowling, b)
	}
	return card
}

// dismissalText renders the conventional scorecard notation for a wicket.
func dismissalText(ev *match.BallEvent) string {
	switch ev.DismissalType {
	case match.DismissalBowled:
		return fmt.Sprintf("b %s", ev.Bowler)
	case match.DismissalLBW:
		return fmt.Sprintf("lbw b %s", ev.Bowler)
	case match.DismissalCaught:
		if ev.Fielder != "" {
			return fmt.Sprintf("c %s b %s", ev.Fielder, ev.Bowler)
		}
		return fmt.Sprintf("c & b %s", ev.Bowler)
	case match.DismissalStumped:
		return fmt.Sprintf("st %s b %s", ev.Fielder, ev.Bowler)
	case match.DismissalRunOut:
		if ev.Fielder != "" {
			return fmt.Sprintf("run out (%s)", ev.Fielder)
		}
		return "run out"
	case match.DismissalHitWicket:
		return fmt.Sprintf("hit wicket b %s", ev.Bowler)
	default:
		return string(ev.DismissalType)
	}
}

// creditsBowler reports whether the dismissal counts towards the bowler's
// wicket tally.
func creditsBowler(d match.DismissalType) bool {
	switch d {
	case match.DismissalRunOut, match.DismissalRetiredHurt, match.DismissalObstructing:
		return false
	}
	return true
}

func oversString(over, ball int) string {
	if ball == 0 {
		return fmt.Sprintf("%d", over)
	}
	return fmt.Sprintf("%d.%d", over, ball)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
