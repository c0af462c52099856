package session

import (
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/mkarpov/minesweeper/internal/mines"
)

func testRegistry(t *testing.T, ttl time.Duration) *Registry {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewRegistry(log, ttl)
}

func newGame(t *testing.T) *mines.GameSession {
	t.Helper()
	game, err := mines.NewSession(mines.Beginner, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	return game
}

func TestRegistryAddAndDo(t *testing.T) {
	t.Parallel()

	r := testRegistry(t, time.Hour)
	id := r.Add(newGame(t))
	require.Equal(t, 1, r.Len())

	var status mines.Status
	err := r.Do(id, func(s *Session) {
		require.Equal(t, id, s.ID)
		s.Game.Reveal(4, 4)
		status = s.Game.Status()
	})
	require.NoError(t, err)
	require.Equal(t, mines.Playing, status)

	require.ErrorIs(t, r.Do("missing", func(*Session) {}), ErrNotFound)
}

func TestRegistrySweepTicksPlayingSessions(t *testing.T) {
	t.Parallel()

	r := testRegistry(t, time.Hour)
	idle := r.Add(newGame(t))
	playing := r.Add(newGame(t))
	require.NoError(t, r.Do(playing, func(s *Session) {
		s.Game.Reveal(4, 4)
	}))

	now := time.Now().UTC()
	r.sweep(now)
	r.sweep(now)

	require.NoError(t, r.Do(playing, func(s *Session) {
		require.Equal(t, 2, s.Game.Elapsed())
	}))
	require.NoError(t, r.Do(idle, func(s *Session) {
		require.Equal(t, 0, s.Game.Elapsed())
	}))
}

func TestRegistrySweepEvictsIdleSessions(t *testing.T) {
	t.Parallel()

	r := testRegistry(t, time.Minute)
	id := r.Add(newGame(t))

	r.sweep(time.Now().UTC())
	require.Equal(t, 1, r.Len())

	r.sweep(time.Now().UTC().Add(2 * time.Minute))
	require.Equal(t, 0, r.Len())
	require.ErrorIs(t, r.Do(id, func(*Session) {}), ErrNotFound)
}

func TestSessionFinishIsIdempotent(t *testing.T) {
	t.Parallel()

	s := &Session{}
	first := time.Now().UTC()
	s.Finish(first)
	s.Finish(first.Add(time.Minute))
	require.NotNil(t, s.EndedAt)
	require.Equal(t, first, *s.EndedAt)
}
