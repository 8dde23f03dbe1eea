package scoring

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/metrics"
	"github.com/clubcricket/scorebook/internal/notifier"
	"github.com/clubcricket/scorebook/internal/pubsub"
	"github.com/clubcricket/scorebook/internal/scorecard"
	"github.com/google/uuid"
)

// New creates a new scoring Service.
func New(store match.MatchStore, notifier notifier.Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		pubsub:   pubsub,
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockMatch serializes mutating operations per match. The returned func
// releases the lock and must be deferred on every exit path.
func (s *Service) lockMatch(matchID string) func() {
	s.mu.Lock()
	l, ok := s.locks[matchID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[matchID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// CreateMatch sets up a new match in the toss state.
func (s *Service) CreateMatch(req CreateMatchRequest) (*match.Match, error) {
	now := time.Now().Unix()
	m := &match.Match{
		ID:         uuid.NewString(),
		TeamA:      strings.TrimSpace(req.TeamA),
		TeamB:      strings.TrimSpace(req.TeamB),
		TotalOvers: req.TotalOvers,
		Venue:      strings.TrimSpace(req.Venue),
		Status:     match.StatusToss,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateMatch(m); err != nil {
		return nil, err
	}
	log.Info("Created match", "matchID", m.ID, "teams", m.TeamA+" vs "+m.TeamB, "overs", m.TotalOvers)
	return m, nil
}

func (s *Service) GetMatch(matchID string) (*match.Match, error) {
	return s.store.GetMatch(matchID)
}

func (s *Service) ListMatches() ([]*match.Match, error) {
	return s.store.ListMatches()
}

// SetToss records the toss and moves the match in progress.
func (s *Service) SetToss(matchID string, req TossRequest) (*match.Match, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != match.StatusToss {
		return nil, fmt.Errorf("toss can only be set when match is in toss state: %w", match.ErrIllegalTransition)
	}
	winner := strings.TrimSpace(req.Winner)
	if winner != m.TeamA && winner != m.TeamB {
		return nil, fmt.Errorf("toss winner must be one of the two teams: %w", match.ErrIllegalTransition)
	}

	m.TossWinner = winner
	m.TossDecision = req.Decision
	m.Status = match.StatusInProgress
	m.UpdatedAt = time.Now().Unix()
	if err := s.store.UpdateMatch(m); err != nil {
		return nil, err
	}
	log.Info("Toss recorded", "matchID", m.ID, "winner", winner, "decision", req.Decision)
	return m, nil
}

// StartInnings opens the next innings. The second innings inherits a target
// of the first innings' runs plus one.
func (s *Service) StartInnings(matchID string, req StartInningsRequest) (*match.Innings, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status != match.StatusInProgress && m.Status != match.StatusInningsBreak {
		return nil, fmt.Errorf("cannot start innings in current match state: %w", match.ErrIllegalTransition)
	}
	if len(m.Innings) >= 2 {
		return nil, fmt.Errorf("both innings already exist: %w", match.ErrIllegalTransition)
	}
	if m.ActiveInnings() != nil {
		return nil, fmt.Errorf("an innings is still in progress: %w", match.ErrIllegalTransition)
	}

	batting := strings.TrimSpace(req.BattingTeam)
	bowling := strings.TrimSpace(req.BowlingTeam)
	if batting != m.TeamA && batting != m.TeamB {
		return nil, fmt.Errorf("batting team must be one of the match teams: %w", match.ErrIllegalTransition)
	}
	if bowling != m.TeamA && bowling != m.TeamB {
		return nil, fmt.Errorf("bowling team must be one of the match teams: %w", match.ErrIllegalTransition)
	}
	if batting == bowling {
		return nil, fmt.Errorf("batting and bowling teams cannot be the same: %w", match.ErrIllegalTransition)
	}

	inn := &match.Innings{
		ID:          uuid.NewString(),
		MatchID:     m.ID,
		Number:      len(m.Innings) + 1,
		BattingTeam: batting,
		BowlingTeam: bowling,
		Status:      match.InningsInProgress,
		Striker:     strings.TrimSpace(req.Striker),
		NonStriker:  strings.TrimSpace(req.NonStriker),
		Bowler:      strings.TrimSpace(req.Bowler),
		CreatedAt:   time.Now().Unix(),
	}
	if inn.Number == 2 {
		inn.Target = m.Innings[0].TotalRuns + 1
	}

	m.Status = match.StatusInProgress
	m.UpdatedAt = time.Now().Unix()
	if err := s.store.CreateInnings(m, inn); err != nil {
		return nil, err
	}
	m.Innings = append(m.Innings, inn)
	log.Info("Started innings", "matchID", m.ID, "innings", inn.Number, "batting", batting, "target", inn.Target)
	return inn, nil
}

// RecordBall applies one delivery through the scoring engine and persists
// the outcome. With dryRun set, nothing is stored or published.
func (s *Service) RecordBall(matchID string, req BallRequest, dryRun bool) (*BallOutcome, error) {
	start := time.Now()
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	inn := m.ActiveInnings()
	if inn == nil {
		return nil, fmt.Errorf("no active innings: %w", match.ErrIllegalTransition)
	}

	out, err := applyBall(m, inn, req)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := s.store.SaveBall(m, inn, out.Event); err != nil {
			return nil, err
		}
		if err := s.pubsub.SendMessage(pubsub.EventBallRecorded, out.Event); err != nil {
			log.Error("Failed to publish ball event", "error", err, "matchID", m.ID)
		}
	}
	s.metrics.IncBallsRecorded()
	s.metrics.ObserveScoringDuration(time.Since(start).Seconds())

	if out.InningsEnded {
		log.Info("Innings ended", "matchID", m.ID, "innings", inn.Number, "score", fmt.Sprintf("%d/%d", inn.TotalRuns, inn.TotalWickets))
		if inn.Number == 1 {
			if err := s.notifier.SendInningsBreak(m, inn, dryRun); err != nil {
				log.Error("Failed to send innings break notification", "error", err, "matchID", m.ID)
			}
		} else {
			s.metrics.IncMatchesCompleted()
			if !dryRun {
				if err := s.pubsub.SendMessage(pubsub.EventMatchCompleted, m); err != nil {
					log.Error("Failed to publish match completion", "error", err, "matchID", m.ID)
				}
			}
			if err := s.notifier.SendResultNotification(m, dryRun); err != nil {
				log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
			}
		}
	}
	return out, nil
}

// UndoLastBall rolls back the most recent active delivery of the active
// innings. Completed innings are not reopened.
func (s *Service) UndoLastBall(matchID string, dryRun bool) (*match.Innings, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	inn := m.ActiveInnings()
	if inn == nil {
		return nil, fmt.Errorf("no active innings: %w", match.ErrIllegalTransition)
	}

	ev, err := undoBall(inn)
	if err != nil {
		return nil, err
	}

	if !dryRun {
		if err := s.store.SaveUndo(inn, ev); err != nil {
			return nil, err
		}
		if err := s.pubsub.SendMessage(pubsub.EventBallUndone, ev); err != nil {
			log.Error("Failed to publish undo event", "error", err, "matchID", m.ID)
		}
	}
	s.metrics.IncBallsUndone()
	log.Info("Ball undone", "matchID", m.ID, "innings", inn.Number, "sequence", ev.Sequence)
	return inn, nil
}

// ChangeBowler sets the bowler for the next over. Only allowed at the
// start of an over.
func (s *Service) ChangeBowler(matchID, bowler string) (*match.Innings, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	inn := m.ActiveInnings()
	if inn == nil {
		return nil, fmt.Errorf("no active innings: %w", match.ErrIllegalTransition)
	}
	if inn.CurrentBall != 0 {
		return nil, fmt.Errorf("bowler can only be changed at the start of an over: %w", match.ErrIllegalTransition)
	}

	inn.Bowler = strings.TrimSpace(bowler)
	if err := s.store.UpdateInnings(inn); err != nil {
		return nil, err
	}
	return inn, nil
}

// SwapStrike manually swaps the batsmen's ends.
func (s *Service) SwapStrike(matchID string) (*match.Innings, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	inn := m.ActiveInnings()
	if inn == nil {
		return nil, fmt.Errorf("no active innings: %w", match.ErrIllegalTransition)
	}

	inn.Striker, inn.NonStriker = inn.NonStriker, inn.Striker
	if err := s.store.UpdateInnings(inn); err != nil {
		return nil, err
	}
	return inn, nil
}

// EndInnings force-completes the active innings regardless of the score.
func (s *Service) EndInnings(matchID string, dryRun bool) (*match.Match, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	inn := m.ActiveInnings()
	if inn == nil {
		return nil, fmt.Errorf("no active innings: %w", match.ErrIllegalTransition)
	}

	inn.Status = match.InningsCompleted
	if inn.Number == 1 {
		m.Status = match.StatusInningsBreak
	} else {
		m.Status = match.StatusCompleted
		m.ResultSummary = calculateResult(m, inn)
	}
	m.UpdatedAt = time.Now().Unix()

	if !dryRun {
		if err := s.store.CompleteInnings(m, inn); err != nil {
			return nil, err
		}
	}

	if inn.Number == 1 {
		if err := s.notifier.SendInningsBreak(m, inn, dryRun); err != nil {
			log.Error("Failed to send innings break notification", "error", err, "matchID", m.ID)
		}
	} else {
		s.metrics.IncMatchesCompleted()
		if !dryRun {
			if err := s.pubsub.SendMessage(pubsub.EventMatchCompleted, m); err != nil {
				log.Error("Failed to publish match completion", "error", err, "matchID", m.ID)
			}
		}
		if err := s.notifier.SendResultNotification(m, dryRun); err != nil {
			log.Error("Failed to send result notification", "error", err, "matchID", m.ID)
		}
	}
	return m, nil
}

// AbandonMatch terminates the match without computing a result. Any
// in-progress innings is force-completed.
func (s *Service) AbandonMatch(matchID string, dryRun bool) (*match.Match, error) {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	if m.Status == match.StatusCompleted {
		return nil, fmt.Errorf("cannot abandon a completed match: %w", match.ErrIllegalTransition)
	}

	m.Status = match.StatusAbandoned
	m.ResultSummary = "Match Abandoned"
	m.UpdatedAt = time.Now().Unix()

	inn := m.ActiveInnings()
	if !dryRun {
		if inn != nil {
			inn.Status = match.InningsCompleted
			if err := s.store.CompleteInnings(m, inn); err != nil {
				return nil, err
			}
		} else if err := s.store.UpdateMatch(m); err != nil {
			return nil, err
		}
	} else if inn != nil {
		inn.Status = match.InningsCompleted
	}

	if err := s.notifier.SendResultNotification(m, dryRun); err != nil {
		log.Error("Failed to send abandonment notification", "error", err, "matchID", m.ID)
	}
	log.Info("Match abandoned", "matchID", m.ID)
	return m, nil
}

// DeleteMatch removes a terminal match and, via cascade, its innings and
// event log.
func (s *Service) DeleteMatch(matchID string) error {
	defer s.lockMatch(matchID)()

	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return err
	}
	if !m.IsTerminal() {
		return fmt.Errorf("only completed or abandoned matches can be deleted: %w", match.ErrIllegalTransition)
	}
	return s.store.DeleteMatch(matchID)
}

// Scorecard derives the full scorecard from the match's event logs.
func (s *Service) Scorecard(matchID string) (*scorecard.FullScorecard, error) {
	m, err := s.store.GetMatch(matchID)
	if err != nil {
		return nil, err
	}
	return scorecard.Derive(m), nil
}
