package server

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/wolfgoatpig/internal/game"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	m := NewSessionManager(log.New(io.Discard), GameSettings{MinPlayers: 4, MaxPlayers: 6}, nil, nil)
	m.SetBroadcaster(&captureCaster{})
	t.Cleanup(m.StopAll)
	return m
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(t)

	session, err := m.CreateSession(testPlayers(4))
	require.NoError(t, err)
	require.NotEmpty(t, session.ID())

	got, ok := m.GetSession(session.ID())
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = m.GetSession("missing")
	assert.False(t, ok)
}

func TestManagerEnforcesPlayerBounds(t *testing.T) {
	m := newTestManager(t)

	_, err := m.CreateSession(testPlayers(3))
	assert.Error(t, err)

	_, err = m.CreateSession(testPlayers(7))
	assert.Error(t, err)
}

func TestManagerRejectsDuplicatePlayerIDs(t *testing.T) {
	m := newTestManager(t)

	players := testPlayers(4)
	players[3].ID = players[0].ID
	_, err := m.CreateSession(players)
	assert.ErrorContains(t, err, "duplicate player ID")
}

func TestManagerListAndDelete(t *testing.T) {
	m := newTestManager(t)

	s1, err := m.CreateSession(testPlayers(4))
	require.NoError(t, err)
	_, err = m.CreateSession(testPlayers(5))
	require.NoError(t, err)

	summaries := m.ListSessions()
	assert.Len(t, summaries, 2)
	for _, summary := range summaries {
		assert.Equal(t, 1, summary.CurrentHole)
		assert.False(t, summary.Complete)
	}

	assert.True(t, m.DeleteSession(s1.ID()))
	assert.False(t, m.DeleteSession(s1.ID()))
	assert.Len(t, m.ListSessions(), 1)
}

func TestManagerValidatesPlayerSpecs(t *testing.T) {
	m := newTestManager(t)

	players := testPlayers(4)
	players[1].ID = ""
	_, err := m.CreateSession(players)
	assert.ErrorContains(t, err, "player ID cannot be empty")

	_, err = m.CreateSession([]game.PlayerConfig{})
	assert.Error(t, err)
}
