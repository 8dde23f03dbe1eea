package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clubcricket/scorebook/internal/auth"
	"github.com/clubcricket/scorebook/internal/config"
	"github.com/clubcricket/scorebook/internal/database"
	"github.com/clubcricket/scorebook/internal/finance"
	"github.com/clubcricket/scorebook/internal/match"
	"github.com/clubcricket/scorebook/internal/metrics"
	"github.com/clubcricket/scorebook/internal/notifier"
	"github.com/clubcricket/scorebook/internal/pubsub"
	"github.com/clubcricket/scorebook/internal/scorecard"
	"github.com/clubcricket/scorebook/internal/scoring"
	"github.com/clubcricket/scorebook/internal/upcoming"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T, cfg config.Config) (*Server, *notifier.Mock, *pubsub.MockPubSubClient) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	matchStore := match.New(db)
	fixtureStore := upcoming.New(db)
	ledgerStore := finance.New(db)

	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	notifierMock := notifier.NewMock()
	pubsubMock := pubsub.NewMock("TEST")
	scoringSvc := scoring.New(matchStore, notifierMock, metricsSvc, pubsubMock)

	server := NewServer(scoringSvc, fixtureStore, ledgerStore, metricsSvc, metricsHandler, cfg, notifierMock, pubsubMock)
	return server, notifierMock, pubsubMock
}

func doJSON(t *testing.T, server *Server, method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

func createTestMatch(t *testing.T, server *Server) *match.Match {
	t.Helper()
	rr := doJSON(t, server, "POST", "/matches", scoring.CreateMatchRequest{
		TeamA: "Badgers", TeamB: "Otters", TotalOvers: 20, Venue: "Village Green",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var m match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return &m
}

func startScoring(t *testing.T, server *Server) *match.Match {
	t.Helper()
	m := createTestMatch(t, server)

	rr := doJSON(t, server, "POST", "/matches/"+m.ID+"/toss", scoring.TossRequest{Winner: "Badgers", Decision: "bat"}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, server, "POST", "/matches/"+m.ID+"/innings", scoring.StartInningsRequest{
		BattingTeam: "Badgers", BowlingTeam: "Otters",
		Striker: "Alice", NonStriker: "Bob", Bowler: "Zoe",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return m
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})

	rr := doJSON(t, server, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestCreateMatchHandler_Validation(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})

	rr := doJSON(t, server, "POST", "/matches", scoring.CreateMatchRequest{TeamA: "Badgers"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, "POST", "/matches", scoring.CreateMatchRequest{TeamA: "Badgers", TeamB: "Otters"}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "total_overs is required")
}

func TestScoringFlow(t *testing.T) {
	server, notifierMock, pubsubMock := setupTestServer(t, config.Config{})
	m := startScoring(t, server)

	rr := doJSON(t, server, "POST", "/matches/"+m.ID+"/ball", scoring.BallRequest{RunsScored: 4, IsBoundaryFour: true}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var out scoring.BallOutcome
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, 4, out.Innings.TotalRuns)
	assert.False(t, out.InningsEnded)
	assert.Len(t, pubsubMock.SendMessageCalls, 1)

	rr = doJSON(t, server, "POST", "/matches/"+m.ID+"/undo", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var inn match.Innings
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &inn))
	assert.Equal(t, 0, inn.TotalRuns)

	// Nothing left to undo now.
	rr = doJSON(t, server, "POST", "/matches/"+m.ID+"/undo", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, "POST", "/matches/"+m.ID+"/end-innings", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, notifierMock.SendInningsBreakCalls, 1)

	rr = doJSON(t, server, "GET", "/matches/"+m.ID+"/scorecard", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var card scorecard.FullScorecard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &card))
	require.Len(t, card.Innings, 1)
	assert.Equal(t, "Badgers", card.Innings[0].BattingTeam)
}

func TestRecordBallHandler_InvalidDelivery(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})
	m := startScoring(t, server)

	rr := doJSON(t, server, "POST", "/matches/"+m.ID+"/ball", scoring.BallRequest{RunsScored: 9}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetMatchHandler_NotFound(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})

	rr := doJSON(t, server, "GET", "/matches/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteMatchHandler_OnlyTerminal(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})
	m := startScoring(t, server)

	rr := doJSON(t, server, "DELETE", "/matches/"+m.ID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, "POST", "/matches/"+m.ID+"/abandon", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, server, "DELETE", "/matches/"+m.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPinMiddleware(t *testing.T) {
	scorerHash, err := auth.HashPIN("1111")
	require.NoError(t, err)
	managerHash, err := auth.HashPIN("9999")
	require.NoError(t, err)
	cfg := config.Config{Pins: config.PinConfig{ScorerHash: scorerHash, ManagerHash: managerHash}}
	server, _, _ := setupTestServer(t, cfg)

	body := scoring.CreateMatchRequest{TeamA: "Badgers", TeamB: "Otters", TotalOvers: 20}

	rr := doJSON(t, server, "POST", "/matches", body, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "missing PIN is rejected")

	rr = doJSON(t, server, "POST", "/matches", body, map[string]string{"X-Scorer-Pin": "0000"})
	assert.Equal(t, http.StatusForbidden, rr.Code, "wrong PIN is rejected")

	rr = doJSON(t, server, "POST", "/matches", body, map[string]string{"X-Scorer-Pin": "1111"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, server, "POST", "/matches", body, map[string]string{"X-Manager-Pin": "9999"})
	assert.Equal(t, http.StatusCreated, rr.Code, "manager PIN also passes scorer gates")

	var m match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	rr = doJSON(t, server, "DELETE", "/matches/"+m.ID, nil, map[string]string{"X-Scorer-Pin": "1111"})
	assert.Equal(t, http.StatusForbidden, rr.Code, "scorer PIN does not pass manager gates")
}

func TestDryRunSkipsPersistence(t *testing.T) {
	server, _, pubsubMock := setupTestServer(t, config.Config{})
	m := startScoring(t, server)

	rr := doJSON(t, server, "POST", "/matches/"+m.ID+"/ball?dry_run=true", scoring.BallRequest{RunsScored: 6, IsBoundarySix: true}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Empty(t, pubsubMock.SendMessageCalls)

	rr = doJSON(t, server, "GET", "/matches/"+m.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got match.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, 0, got.Innings[0].TotalRuns, "dry run leaves the stored innings untouched")
}

func TestFixtureHandlers(t *testing.T) {
	server, notifierMock, pubsubMock := setupTestServer(t, config.Config{})

	rr := doJSON(t, server, "POST", "/upcoming", upcoming.Fixture{
		OpponentName: "Northfield CC", MatchDate: 1790000000, Overs: 20,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var fx upcoming.Fixture
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fx))
	assert.Len(t, notifierMock.SendFixtureNotificationCalls, 1)
	require.Len(t, pubsubMock.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventFixtureCreated), pubsubMock.SendMessageCalls[0].Topic)

	rr = doJSON(t, server, "POST", "/upcoming/"+fx.ID+"/availability", upcoming.PlayerAvailability{
		PlayerName: "Alice", Status: upcoming.Available, DeviceFingerprint: "device-1",
	}, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doJSON(t, server, "POST", "/upcoming/"+fx.ID+"/availability", upcoming.PlayerAvailability{
		PlayerName: "Alice", Status: "perhaps", DeviceFingerprint: "device-1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown status is rejected")

	rr = doJSON(t, server, "GET", "/upcoming/"+fx.ID, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Summary upcoming.AvailabilitySummary `json:"availability_summary"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Summary.TotalAvailable)
}

func TestFinanceHandlers(t *testing.T) {
	server, _, _ := setupTestServer(t, config.Config{})

	rr := doJSON(t, server, "POST", "/finance/periods", finance.Period{Label: "August 2026", Year: 2026, Month: 8}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p finance.Period
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))

	rr = doJSON(t, server, "POST", "/finance/periods", finance.Period{Label: "Duplicate", Year: 2026, Month: 8}, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "duplicate month is rejected")

	rr = doJSON(t, server, "POST", "/finance/periods/"+p.ID+"/entries", finance.Entry{
		EntryType: finance.Income, Category: "subs", Amount: 250, Date: "2026-08-01",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(t, server, "POST", "/finance/periods/"+p.ID+"/entries", finance.Entry{
		EntryType: finance.Expense, Category: "balls", Amount: 60, Date: "2026-08-10",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, server, "GET", "/finance/summary", nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var overall finance.OverallSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &overall))
	assert.Equal(t, 250.0, overall.TotalIncome)
	assert.Equal(t, 60.0, overall.TotalExpense)
	assert.Equal(t, 190.0, overall.RemainingBalance)
}
