package scoring

import (
	"testing"

	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/metrics"
	"github.com/clubcricket/scorebook/internal/notifier"
	"github.com/clubcricket/scorebook/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc      *Service
	store    *match.MockStore
	notifier *notifier.Mock
	metrics  *metrics.MockMetrics
	pubsub   *pubsub.MockPubSubClient
}

func newServiceFixture(m *match.Match) *serviceFixture {
	f := &serviceFixture{
		store:    match.NewMock(),
		notifier: notifier.NewMock(),
		metrics:  metrics.NewMock(),
		pubsub:   pubsub.NewMock("test"),
	}
	if m != nil {
		f.store.GetMatchFunc = func(id string) (*match.Match, error) {
			if id == m.ID {
				return m, nil
			}
			return nil, match.ErrNotFound
		}
	}
	f.svc = New(f.store, f.notifier, f.metrics, f.pubsub)
	return f
}

func inProgressMatch() *match.Match {
	inn := &match.Innings{
		ID:          "inn-1",
		MatchID:     "match-1",
		Number:      1,
		BattingTeam: "Badgers",
		BowlingTeam: "Otters",
		Status:      match.InningsInProgress,
		Striker:     "Alice",
		NonStriker:  "Bob",
		Bowler:      "Zoe",
	}
	return &match.Match{
		ID:         "match-1",
		TeamA:      "Badgers",
		TeamB:      "Otters",
		TotalOvers: 20,
		TossWinner: "Badgers",
		Status:     match.StatusInProgress,
		Innings:    []*match.Innings{inn},
	}
}

func TestCreateMatch(t *testing.T) {
	f := newServiceFixture(nil)

	m, err := f.svc.CreateMatch(CreateMatchRequest{TeamA: " Badgers ", TeamB: "Otters", TotalOvers: 20, Venue: "Village Green"})
	require.NoError(t, err)
	assert.Equal(t, "Badgers", m.TeamA, "names are trimmed")
	assert.Equal(t, match.StatusToss, m.Status)
	assert.NotEmpty(t, m.ID)
	assert.Len(t, f.store.CreateMatchCalls, 1)
}

func TestSetToss(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		m := inProgressMatch()
		m.Status = match.StatusToss
		m.Innings = nil
		f := newServiceFixture(m)

		got, err := f.svc.SetToss(m.ID, TossRequest{Winner: "Badgers", Decision: "bat"})
		require.NoError(t, err)
		assert.Equal(t, match.StatusInProgress, got.Status)
		assert.Equal(t, "Badgers", got.TossWinner)
	})

	t.Run("rejected outside toss state", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		_, err := f.svc.SetToss(m.ID, TossRequest{Winner: "Badgers", Decision: "bat"})
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("winner must be a team", func(t *testing.T) {
		m := inProgressMatch()
		m.Status = match.StatusToss
		m.Innings = nil
		f := newServiceFixture(m)

		_, err := f.svc.SetToss(m.ID, TossRequest{Winner: "Weasels", Decision: "bat"})
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})
}

func TestStartInnings(t *testing.T) {
	req := StartInningsRequest{
		BattingTeam: "Badgers", BowlingTeam: "Otters",
		Striker: "Alice", NonStriker: "Bob", Bowler: "Zoe",
	}

	t.Run("first innings", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings = nil
		f := newServiceFixture(m)

		inn, err := f.svc.StartInnings(m.ID, req)
		require.NoError(t, err)
		assert.Equal(t, 1, inn.Number)
		assert.Equal(t, 0, inn.Target)
		assert.Len(t, f.store.CreateInningsCalls, 1)
	})

	t.Run("rejected before toss", func(t *testing.T) {
		m := inProgressMatch()
		m.Status = match.StatusToss
		m.Innings = nil
		f := newServiceFixture(m)

		_, err := f.svc.StartInnings(m.ID, req)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("rejected while an innings is active", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		_, err := f.svc.StartInnings(m.ID, req)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("second innings inherits target", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].Status = match.InningsCompleted
		m.Innings[0].TotalRuns = 142
		m.Status = match.StatusInningsBreak
		f := newServiceFixture(m)

		inn, err := f.svc.StartInnings(m.ID, StartInningsRequest{
			BattingTeam: "Otters", BowlingTeam: "Badgers",
			Striker: "Carol", NonStriker: "Dan", Bowler: "Yusuf",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inn.Number)
		assert.Equal(t, 143, inn.Target)
	})

	t.Run("teams must differ", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings = nil
		f := newServiceFixture(m)

		bad := req
		bad.BowlingTeam = "Badgers"
		_, err := f.svc.StartInnings(m.ID, bad)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("at most two innings", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings = append(m.Innings, &match.Innings{Number: 2, Status: match.InningsCompleted})
		m.Innings[0].Status = match.InningsCompleted
		f := newServiceFixture(m)

		_, err := f.svc.StartInnings(m.ID, req)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})
}

func TestRecordBall(t *testing.T) {
	t.Run("persists and publishes", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		out, err := f.svc.RecordBall(m.ID, BallRequest{RunsScored: 4, IsBoundaryFour: true}, false)
		require.NoError(t, err)
		assert.Equal(t, 4, out.Innings.TotalRuns)
		assert.Len(t, f.store.SaveBallCalls, 1)
		require.Len(t, f.pubsub.SendMessageCalls, 1)
		assert.Equal(t, string(pubsub.EventBallRecorded), f.pubsub.SendMessageCalls[0].Topic)
		assert.Equal(t, 1, f.metrics.BallsRecordedCalls)
		assert.Len(t, f.metrics.ScoringDurations, 1)
	})

	t.Run("dry run skips persistence", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		_, err := f.svc.RecordBall(m.ID, BallRequest{RunsScored: 1}, true)
		require.NoError(t, err)
		assert.Empty(t, f.store.SaveBallCalls)
		assert.Empty(t, f.pubsub.SendMessageCalls)
	})

	t.Run("no active innings", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].Status = match.InningsCompleted
		f := newServiceFixture(m)

		_, err := f.svc.RecordBall(m.ID, BallRequest{RunsScored: 1}, false)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("first innings end sends innings break", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].TotalWickets = 9
		f := newServiceFixture(m)

		out, err := f.svc.RecordBall(m.ID, BallRequest{IsWicket: true, DismissalType: match.DismissalBowled, DismissedBatsman: "Alice"}, false)
		require.NoError(t, err)
		assert.True(t, out.InningsEnded)
		assert.Len(t, f.notifier.SendInningsBreakCalls, 1)
		assert.Empty(t, f.notifier.SendResultNotificationCalls)
		assert.Equal(t, 0, f.metrics.MatchesCompletedCalls)
	})

	t.Run("match end sends result and completion event", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].Status = match.InningsCompleted
		m.Innings[0].TotalRuns = 100
		second := &match.Innings{
			ID: "inn-2", MatchID: m.ID, Number: 2,
			BattingTeam: "Otters", BowlingTeam: "Badgers",
			Status: match.InningsInProgress, Target: 101, TotalRuns: 100,
			Striker: "Carol", NonStriker: "Dan", Bowler: "Yusuf",
		}
		m.Innings = append(m.Innings, second)
		f := newServiceFixture(m)

		out, err := f.svc.RecordBall(m.ID, BallRequest{RunsScored: 1}, false)
		require.NoError(t, err)
		assert.True(t, out.InningsEnded)
		assert.Equal(t, "Otters won by 10 wicket(s)", out.ResultSummary)
		assert.Len(t, f.notifier.SendResultNotificationCalls, 1)
		assert.Equal(t, 1, f.metrics.MatchesCompletedCalls)

		topics := make([]string, 0)
		for _, c := range f.pubsub.SendMessageCalls {
			topics = append(topics, c.Topic)
		}
		assert.Contains(t, topics, string(pubsub.EventBallRecorded))
		assert.Contains(t, topics, string(pubsub.EventMatchCompleted))
	})
}

func TestUndoLastBall(t *testing.T) {
	t.Run("rolls back and saves", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		_, err := f.svc.RecordBall(m.ID, BallRequest{RunsScored: 2}, false)
		require.NoError(t, err)

		inn, err := f.svc.UndoLastBall(m.ID, false)
		require.NoError(t, err)
		assert.Equal(t, 0, inn.TotalRuns)
		assert.Len(t, f.store.SaveUndoCalls, 1)
		assert.Equal(t, 1, f.metrics.BallsUndoneCalls)
	})

	t.Run("nothing to undo", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		_, err := f.svc.UndoLastBall(m.ID, false)
		assert.ErrorIs(t, err, match.ErrNothingToUndo)
	})
}

func TestChangeBowler(t *testing.T) {
	t.Run("only at start of over", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].CurrentBall = 3
		f := newServiceFixture(m)

		_, err := f.svc.ChangeBowler(m.ID, "Yusuf")
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})

	t.Run("happy path", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		inn, err := f.svc.ChangeBowler(m.ID, "Yusuf")
		require.NoError(t, err)
		assert.Equal(t, "Yusuf", inn.Bowler)
	})
}

func TestSwapStrike(t *testing.T) {
	m := inProgressMatch()
	f := newServiceFixture(m)

	inn, err := f.svc.SwapStrike(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", inn.Striker)
	assert.Equal(t, "Alice", inn.NonStriker)
}

func TestEndInnings(t *testing.T) {
	t.Run("first innings goes to break", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		got, err := f.svc.EndInnings(m.ID, false)
		require.NoError(t, err)
		assert.Equal(t, match.StatusInningsBreak, got.Status)
		assert.Equal(t, match.InningsCompleted, m.Innings[0].Status)
		assert.Len(t, f.notifier.SendInningsBreakCalls, 1)
	})

	t.Run("second innings completes the match", func(t *testing.T) {
		m := inProgressMatch()
		m.Innings[0].Status = match.InningsCompleted
		m.Innings[0].TotalRuns = 150
		m.Innings = append(m.Innings, &match.Innings{
			ID: "inn-2", Number: 2, BattingTeam: "Otters", BowlingTeam: "Badgers",
			Status: match.InningsInProgress, Target: 151, TotalRuns: 120, TotalWickets: 8,
		})
		f := newServiceFixture(m)

		got, err := f.svc.EndInnings(m.ID, false)
		require.NoError(t, err)
		assert.Equal(t, match.StatusCompleted, got.Status)
		assert.Equal(t, "Badgers won by 30 run(s)", got.ResultSummary)
		assert.Len(t, f.notifier.SendResultNotificationCalls, 1)
		assert.Equal(t, 1, f.metrics.MatchesCompletedCalls)
	})
}

func TestAbandonMatch(t *testing.T) {
	t.Run("force-completes the active innings", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		got, err := f.svc.AbandonMatch(m.ID, false)
		require.NoError(t, err)
		assert.Equal(t, match.StatusAbandoned, got.Status)
		assert.Equal(t, "Match Abandoned", got.ResultSummary)
		assert.Equal(t, match.InningsCompleted, m.Innings[0].Status)
	})

	t.Run("completed matches cannot be abandoned", func(t *testing.T) {
		m := inProgressMatch()
		m.Status = match.StatusCompleted
		f := newServiceFixture(m)

		_, err := f.svc.AbandonMatch(m.ID, false)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
	})
}

func TestDeleteMatch(t *testing.T) {
	t.Run("only terminal matches", func(t *testing.T) {
		m := inProgressMatch()
		f := newServiceFixture(m)

		err := f.svc.DeleteMatch(m.ID)
		assert.ErrorIs(t, err, match.ErrIllegalTransition)
		assert.Empty(t, f.store.DeleteMatchCalls)
	})

	t.Run("deletes an abandoned match", func(t *testing.T) {
		m := inProgressMatch()
		m.Status = match.StatusAbandoned
		f := newServiceFixture(m)

		require.NoError(t, f.svc.DeleteMatch(m.ID))
		assert.Equal(t, []string{m.ID}, f.store.DeleteMatchCalls)
	})
}

func TestScorecard(t *testing.T) {
	m := inProgressMatch()
	f := newServiceFixture(m)

	card, err := f.svc.Scorecard(m.ID)
	require.NoError(t, err)
	require.Len(t, card.Innings, 1)
	assert.Equal(t, "Badgers", card.Innings[0].BattingTeam)
}

func TestUnknownMatch(t *testing.T) {
	f := newServiceFixture(nil)
	_, err := f.svc.GetMatch("nope")
	assert.ErrorIs(t, err, match.ErrNotFound)
	_, err = f.svc.RecordBall("nope", BallRequest{}, false)
	assert.ErrorIs(t, err, match.ErrNotFound)
}
