package league

import (
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddlab/oddeven/engine"
	"github.com/oddlab/oddeven/strategy"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testPlayers(t *testing.T) (*MatchPlayer, *MatchPlayer) {
	t.Helper()
	cfg := strategy.DefaultConfig()
	p1 := &MatchPlayer{ID: "alice", Strategy: strategy.NewNash(cfg, rand.New(rand.NewSource(1)))}
	p2 := &MatchPlayer{ID: "bob", Strategy: strategy.NewNash(cfg, rand.New(rand.NewSource(2)))}
	return p1, p2
}

func TestMatchHappyPath(t *testing.T) {
	m := NewMatch(engine.DefaultGameRules(), testLogger())
	assert.Equal(t, MatchScheduled, m.State)
	assert.NotEqual(t, "", m.ID.String())

	p1, p2 := testPlayers(t)
	require.NoError(t, m.SetPlayers(p1, p2))
	assert.Equal(t, MatchInvitationsSent, m.State)

	both, err := m.MarkPlayerReady("alice")
	require.NoError(t, err)
	assert.False(t, both)

	both, err = m.MarkPlayerReady("bob")
	require.NoError(t, err)
	assert.True(t, both, "second ready should report both ready")
	assert.Equal(t, MatchPlayersReady, m.State)

	// Repeated readiness is idempotent and no longer reports the transition.
	both, err = m.MarkPlayerReady("alice")
	require.NoError(t, err)
	assert.False(t, both)

	require.NoError(t, m.CreateGame(engine.ParityOdd))
	require.NotNil(t, m.Game)
	assert.Equal(t, engine.ParityOdd, m.Game.Player1Role)

	require.NoError(t, m.Start())
	assert.Equal(t, MatchInProgress, m.State)
	assert.Equal(t, engine.PhaseCollectingChoices, m.Game.Phase)
	assert.False(t, m.StartedAt.IsZero())
}

func TestMatchCompleteRecordsResult(t *testing.T) {
	m := startedMatch(t)
	require.NoError(t, m.Game.Forfeit("bob"))
	result, err := m.Game.Result()
	require.NoError(t, err)

	require.NoError(t, m.Complete(result))
	assert.Equal(t, MatchCompleted, m.State)
	require.NotNil(t, m.Result)
	assert.Equal(t, "alice", m.Result.WinnerID)
	assert.False(t, m.CompletedAt.IsZero())

	assert.ErrorIs(t, m.Complete(result), ErrInvalidMatchState)
	assert.ErrorIs(t, m.Cancel("too late"), ErrInvalidMatchState)
}

func TestMatchLifecycleGuards(t *testing.T) {
	m := NewMatch(engine.DefaultGameRules(), testLogger())
	p1, p2 := testPlayers(t)

	// Nothing is legal before players are set.
	assert.ErrorIs(t, m.Start(), ErrInvalidMatchState)
	assert.ErrorIs(t, m.CreateGame(engine.ParityOdd), ErrInvalidMatchState)
	_, err := m.MarkPlayerReady("alice")
	assert.ErrorIs(t, err, ErrInvalidMatchState)

	require.NoError(t, m.SetPlayers(p1, p2))
	assert.ErrorIs(t, m.SetPlayers(p1, p2), ErrInvalidMatchState)

	// Start requires readiness and a created game.
	assert.ErrorIs(t, m.Start(), ErrInvalidMatchState)
	_, err = m.MarkPlayerReady("mallory")
	assert.ErrorIs(t, err, engine.ErrUnknownPlayer)

	_, err = m.MarkPlayerReady("alice")
	require.NoError(t, err)
	_, err = m.MarkPlayerReady("bob")
	require.NoError(t, err)
	assert.ErrorIs(t, m.Start(), ErrInvalidMatchState, "start before create_game")

	require.NoError(t, m.CreateGame(engine.ParityEven))
	assert.ErrorIs(t, m.CreateGame(engine.ParityEven), ErrInvalidMatchState, "second create_game")
	require.NoError(t, m.Start())
}

func TestMatchRejectsInvalidPlayers(t *testing.T) {
	p1, _ := testPlayers(t)

	m := NewMatch(engine.DefaultGameRules(), testLogger())
	assert.ErrorIs(t, m.SetPlayers(p1, nil), ErrInvalidMatchState)

	m = NewMatch(engine.DefaultGameRules(), testLogger())
	dup := &MatchPlayer{ID: p1.ID}
	assert.ErrorIs(t, m.SetPlayers(p1, dup), ErrInvalidMatchState)
}

func TestMatchCancel(t *testing.T) {
	m := startedMatch(t)
	require.NoError(t, m.Cancel("operator abort"))
	assert.Equal(t, MatchCancelled, m.State)
	assert.Equal(t, "operator abort", m.CancelReason)
	assert.ErrorIs(t, m.Cancel("again"), ErrInvalidMatchState)
}

func TestMatchToMap(t *testing.T) {
	m := startedMatch(t)
	require.NoError(t, m.Game.Forfeit("alice"))
	result, err := m.Game.Result()
	require.NoError(t, err)
	require.NoError(t, m.Complete(result))

	out := m.ToMap()
	assert.Equal(t, m.ID.String(), out["match_id"])
	assert.Equal(t, "completed", out["state"])
	assert.Equal(t, "alice", out["player1_id"])
	assert.Equal(t, "bob", out["player2_id"])
	require.Contains(t, out, "result")
	detail := out["result"].(map[string]any)
	assert.Equal(t, "bob", detail["winner_id"])
}

// startedMatch walks a fresh match into MatchInProgress.
func startedMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch(engine.DefaultGameRules(), testLogger())
	p1, p2 := testPlayers(t)
	require.NoError(t, m.SetPlayers(p1, p2))
	_, err := m.MarkPlayerReady("alice")
	require.NoError(t, err)
	_, err = m.MarkPlayerReady("bob")
	require.NoError(t, err)
	require.NoError(t, m.CreateGame(engine.ParityOdd))
	require.NoError(t, m.Start())
	return m
}
