package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/beka-birhanu/torchmaze/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drain collects every event of a server until its channel closes.
type drain struct {
	sync.Mutex
	events []Event
	closed chan struct{}
}

func newDrain(s *Server) *drain {
	d := &drain{closed: make(chan struct{})}
	go func() {
		defer close(d.closed)
		for e := range s.Events() {
			d.Lock()
			d.events = append(d.events, e)
			d.Unlock()
		}
	}()
	return d
}

func (d *drain) count(t EventType) int {
	d.Lock()
	defer d.Unlock()
	n := 0
	for _, e := range d.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func startServer(t *testing.T, g *Game, cfg ServerConfig) (*Server, *drain) {
	t.Helper()
	s := NewServer(g, cfg)
	d := newDrain(s)
	go s.Start()
	t.Cleanup(s.Stop)
	return s, d
}

func TestServer(t *testing.T) {
	ctx := context.Background()

	t.Run("Handles moves and state requests", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		dir := openDirection(t, g)
		s, _ := startServer(t, g, ServerConfig{PursuitInterval: time.Hour, IdleInterval: time.Hour})

		moved, snap, err := s.Move(ctx, dir)
		require.NoError(t, err)
		assert.True(t, moved)
		dx, dy := dir.Delta()
		assert.Equal(t, maze.Origin().Add(dx, dy), snap.Player)

		moved, _, err = s.Move(ctx, maze.North)
		require.NoError(t, err)
		if snap.Player.Y == 0 {
			assert.False(t, moved)
		}

		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, state.Stage)
	})

	t.Run("Rejects unknown directions", func(t *testing.T) {
		g, _ := newTestGame(t, 2)
		s, _ := startServer(t, g, ServerConfig{})

		_, _, err := s.Move(ctx, maze.Direction("Up"))
		assert.ErrorIs(t, err, ErrInvalidDirection)
	})

	t.Run("Runs the pursuit timeline", func(t *testing.T) {
		g, _ := newTestGame(t, 6)
		_, d := startServer(t, g, ServerConfig{PursuitInterval: 2 * time.Millisecond, IdleInterval: time.Hour})

		assert.Eventually(t, func() bool {
			return d.count(EventMonsterMoved) > 0 || d.count(EventCaught) > 0
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Runs the idle timeline", func(t *testing.T) {
		g, _ := newTestGame(t, 6)
		s, _ := startServer(t, g, ServerConfig{PursuitInterval: time.Hour, IdleInterval: 2 * time.Millisecond})

		assert.Eventually(t, func() bool {
			state, err := s.State(ctx)
			return err == nil && state.Torch == DefaultTorchMax
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Stops ticking once caught and resumes after restart", func(t *testing.T) {
		g, _ := newTestGame(t, 10)
		g.monster = g.player
		s, d := startServer(t, g, ServerConfig{PursuitInterval: 2 * time.Millisecond, IdleInterval: 2 * time.Millisecond})

		require.Eventually(t, func() bool { return d.count(EventCaught) == 1 }, time.Second, 5*time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, 1, d.count(EventCaught))
		assert.Zero(t, d.count(EventMonsterMoved))

		_, _, err := s.Move(ctx, maze.East)
		require.NoError(t, err)
		state, err := s.State(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusCaught, state.Status)

		state, err = s.Restart(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusPlaying, state.Status)
		assert.Equal(t, 1, state.Stage)
	})

	t.Run("Start stage regenerates the grid", func(t *testing.T) {
		g, _ := newTestGame(t, 12)
		s, _ := startServer(t, g, ServerConfig{})

		state, err := s.StartStage(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, 14, state.Size)

		_, err = s.StartStage(ctx, 0)
		assert.ErrorIs(t, err, ErrInvalidStage)
	})

	t.Run("Stop is idempotent and final", func(t *testing.T) {
		g, _ := newTestGame(t, 14)
		s, d := startServer(t, g, ServerConfig{PursuitInterval: time.Millisecond, IdleInterval: time.Millisecond})
		time.Sleep(10 * time.Millisecond)

		s.Stop()
		s.Stop()

		select {
		case <-d.closed:
		case <-time.After(time.Second):
			t.Fatal("event channel not closed after stop")
		}

		d.Lock()
		seen := len(d.events)
		d.Unlock()
		time.Sleep(10 * time.Millisecond)
		d.Lock()
		assert.Equal(t, seen, len(d.events))
		d.Unlock()

		_, err := s.State(ctx)
		assert.ErrorIs(t, err, ErrServerStopped)
	})

	t.Run("Stop before start does not block", func(t *testing.T) {
		g, _ := newTestGame(t, 15)
		s := NewServer(g, ServerConfig{})
		s.Stop()
		s.Start()

		_, err := s.Restart(ctx)
		assert.ErrorIs(t, err, ErrServerStopped)
	})

	t.Run("Honors context cancellation", func(t *testing.T) {
		g, _ := newTestGame(t, 16)
		s := NewServer(g, ServerConfig{})
		t.Cleanup(s.Stop)

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err := s.State(cctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestTaskCancelIsIdempotent(t *testing.T) {
	tk := newTask(time.Millisecond)
	tk.Cancel()
	tk.Cancel()

	var nilTask *task
	assert.NotPanics(t, nilTask.Cancel)
	assert.Nil(t, nilTask.C())
}
