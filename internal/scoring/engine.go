package scoring

import (
	"fmt"
	"time"

	"github.com/clubcricket/scorebook/internal/match"
	"github.com/google/uuid"
)

// The engine is a pure state machine over the innings aggregate and its
// ball event log. ApplyBall and UndoBall are exact inverses over steps
// that touch the aggregate; neither talks to storage.

const maxRunsPerBall = 7

func validateBall(req BallRequest) error {
	if req.RunsScored < 0 || req.RunsScored > maxRunsPerBall {
		return fmt.Errorf("runs_scored must be between 0 and %d: %w", maxRunsPerBall, match.ErrInvalidDelivery)
	}
	if req.ExtraRuns < 0 || req.ExtraRuns > maxRunsPerBall {
		return fmt.Errorf("extra_runs must be between 0 and %d: %w", maxRunsPerBall, match.ErrInvalidDelivery)
	}
	if req.IsBoundaryFour && req.IsBoundarySix {
		return fmt.Errorf("ball cannot be both four and six: %w", match.ErrInvalidDelivery)
	}
	if req.IsWicket && req.DismissalType == "" {
		return fmt.Errorf("dismissal type is required for a wicket: %w", match.ErrInvalidDelivery)
	}
	if req.IsWicket && req.DismissedBatsman == "" {
		return fmt.Errorf("dismissed batsman name is required for a wicket: %w", match.ErrInvalidDelivery)
	}
	if req.ExtraType == match.ExtraNone && req.ExtraRuns != 0 {
		return fmt.Errorf("extra_runs requires an extra_type: %w", match.ErrInvalidDelivery)
	}
	return nil
}

// applyBall validates the delivery and applies it to the innings aggregate
// and event log, advancing the match lifecycle on completion. It mutates
// nothing when validation fails.
func applyBall(m *match.Match, inn *match.Innings, req BallRequest) (*BallOutcome, error) {
	if inn.Status != match.InningsInProgress {
		return nil, fmt.Errorf("innings is not in progress: %w", match.ErrIllegalTransition)
	}
	if err := validateBall(req); err != nil {
		return nil, err
	}

	// A wide or no-ball is an illegal delivery: it never advances the ball
	// pointer and must be re-bowled.
	isLegal := req.ExtraType != match.ExtraWide && req.ExtraType != match.ExtraNoBall

	ev := &match.BallEvent{
		ID:               uuid.NewString(),
		InningsID:        inn.ID,
		Sequence:         len(inn.ActiveBalls()) + 1,
		Over:             inn.CurrentOver,
		Ball:             inn.CurrentBall,
		Bowler:           inn.Bowler,
		Batsman:          inn.Striker,
		NonStriker:       inn.NonStriker,
		RunsScored:       req.RunsScored,
		IsBoundaryFour:   req.IsBoundaryFour,
		IsBoundarySix:    req.IsBoundarySix,
		ExtraType:        req.ExtraType,
		ExtraRuns:        req.ExtraRuns,
		IsWicket:         req.IsWicket,
		DismissalType:    req.DismissalType,
		DismissedBatsman: req.DismissedBatsman,
		Fielder:          req.Fielder,
		IsLegalDelivery:  isLegal,
		CreatedAt:        time.Now().Unix(),
	}
	inn.Balls = append(inn.Balls, ev)

	inn.TotalRuns += req.RunsScored + req.ExtraRuns
	switch req.ExtraType {
	case match.ExtraWide:
		inn.ExtrasWides += req.ExtraRuns
	case match.ExtraNoBall:
		inn.ExtrasNoBalls += req.ExtraRuns
	case match.ExtraBye:
		inn.ExtrasByes += req.ExtraRuns
	case match.ExtraLegBye:
		inn.ExtrasLegByes += req.ExtraRuns
	case match.ExtraPenalty:
		inn.ExtrasPenalties += req.ExtraRuns
	}

	if req.IsWicket {
		inn.TotalWickets++
	}

	rotate := false
	overComplete := false
	if isLegal {
		inn.CurrentBall++
		if req.RunsScored%2 == 1 {
			rotate = true
		}
		if inn.CurrentBall >= 6 {
			inn.CurrentBall = 0
			inn.CurrentOver++
			overComplete = true
			// End of over always swaps ends, on top of whatever the last
			// ball's run parity decided.
			rotate = !rotate
		}
	} else if req.ExtraType == match.ExtraNoBall && req.RunsScored%2 == 1 {
		rotate = true
	}

	if rotate {
		inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
	}

	if req.IsWicket && req.NewBatsman != "" {
		placeNewBatsman(inn, ev, req.NewBatsman, rotate)
	}

	out := &BallOutcome{
		Event:        ev,
		Innings:      inn,
		OverComplete: overComplete,
	}

	// Completion checks, first match wins: all out, over limit reached at
	// an over boundary, then target reached (second innings only, may end
	// mid-over).
	switch {
	case inn.TotalWickets >= 10:
		out.InningsEnded = true
	case inn.CurrentOver >= m.TotalOvers && inn.CurrentBall == 0:
		out.InningsEnded = true
	case inn.Number == 2 && inn.Target > 0 && inn.TotalRuns >= inn.Target:
		out.InningsEnded = true
	}

	if out.InningsEnded {
		inn.Status = match.InningsCompleted
		if inn.Number == 1 {
			m.Status = match.StatusInningsBreak
		} else {
			m.Status = match.StatusCompleted
			out.ResultSummary = calculateResult(m, inn)
			m.ResultSummary = out.ResultSummary
		}
	}
	m.UpdatedAt = time.Now().Unix()

	return out, nil
}

// placeNewBatsman puts the incoming player at the end the dismissed player
// would occupy now, for all four (who was out, strike rotated) cases:
//
//	striker out,     rotated:     survivor took strike, replacement is non-striker
//	striker out,     not rotated: replacement takes strike
//	non-striker out, rotated:     replacement takes strike
//	non-striker out, not rotated: replacement is non-striker
func placeNewBatsman(inn *match.Innings, ev *match.BallEvent, newBatsman string, rotated bool) {
	if ev.DismissedBatsman == ev.Batsman {
		if rotated {
			inn.NonStriker = newBatsman
		} else {
			inn.Striker = newBatsman
		}
	} else {
		if rotated {
			inn.Striker = newBatsman
		} else {
			inn.NonStriker = newBatsman
		}
	}
}

// undoBall rolls back the last active delivery: the exact algebraic inverse
// of applyBall over the aggregate, plus a soft delete of the event. The
// event stores the names in effect when it was bowled, which is exactly the
// state to restore. Completed innings/match statuses are not reopened.
func undoBall(inn *match.Innings) (*match.BallEvent, error) {
	ev := inn.LastActiveBall()
	if ev == nil {
		return nil, fmt.Errorf("innings %s: %w", inn.ID, match.ErrNothingToUndo)
	}

	inn.TotalRuns -= ev.RunsScored + ev.ExtraRuns
	switch ev.ExtraType {
	case match.ExtraWide:
		inn.ExtrasWides -= ev.ExtraRuns
	case match.ExtraNoBall:
		inn.ExtrasNoBalls -= ev.ExtraRuns
	case match.ExtraBye:
		inn.ExtrasByes -= ev.ExtraRuns
	case match.ExtraLegBye:
		inn.ExtrasLegByes -= ev.ExtraRuns
	case match.ExtraPenalty:
		inn.ExtrasPenalties -= ev.ExtraRuns
	}

	if ev.IsWicket {
		inn.TotalWickets--
	}

	if ev.IsLegalDelivery {
		if inn.CurrentBall == 0 && inn.CurrentOver > 0 {
			inn.CurrentOver--
			inn.CurrentBall = 5
		} else {
			inn.CurrentBall--
		}
	}

	inn.Striker = ev.Batsman
	inn.NonStriker = ev.NonStriker
	inn.Bowler = ev.Bowler

	ev.IsUndone = true
	return ev, nil
}

// calculateResult builds the result text once the second innings is done.
func calculateResult(m *match.Match, second *match.Innings) string {
	first := m.Innings[0]
	if second.Target > 0 && second.TotalRuns >= second.Target {
		return fmt.Sprintf("%s won by %d wicket(s)", second.BattingTeam, 10-second.TotalWickets)
	}
	return fmt.Sprintf("%s won by %d run(s)", first.BattingTeam, first.TotalRuns-second.TotalRuns)
}
