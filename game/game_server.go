package game

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/beka-birhanu/torchmaze/game/maze"
)

// Server-related errors.
var (
	ErrServerStopped    = errors.New("game server stopped")
	ErrInvalidDirection = errors.New("invalid direction")
)

// Server constants for configuration and action types.
const (
	moveActionType         = 1 << iota // Action type for movement.
	stateRequestActionType             // Action type for state requests.
	startStageActionType               // Action type for jumping to a stage.
	restartActionType                  // Action type for a full restart.

	DefaultPursuitInterval = 500 * time.Millisecond
	DefaultIdleInterval    = time.Second

	defaultEventBuffer = 64
)

// ServerConfig holds the cadence of the periodic timelines.
type ServerConfig struct {
	PursuitInterval time.Duration // Time between monster steps.
	IdleInterval    time.Duration // Time between idle checks.
	EventBuffer     int           // Capacity of the event channel.
}

type action struct {
	kind      int
	direction maze.Direction
	stage     int
	reply     chan result
}

type result struct {
	moved    bool
	snapshot Snapshot
	err      error
}

// Server owns a Game and runs all of its timelines on a single goroutine.
// Player commands, pursuit ticks and idle ticks are handled one at a time,
// so the game itself needs no locking.
type Server struct {
	game     *Game
	cfg      ServerConfig
	actions  chan action
	events   chan Event
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool

	// Owned by the loop goroutine.
	pursuit *task
	idle    *task
	epoch   int64
}

// NewServer wraps g. The server takes over g's event handler.
func NewServer(g *Game, cfg ServerConfig) *Server {
	if cfg.PursuitInterval <= 0 {
		cfg.PursuitInterval = DefaultPursuitInterval
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = DefaultIdleInterval
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	s := &Server{
		game:    g,
		cfg:     cfg,
		actions: make(chan action),
		events:  make(chan Event, cfg.EventBuffer),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	g.SetEventHandler(s.publish)
	return s
}

// Events returns the channel of emitted events. It is closed when the server stops.
func (s *Server) Events() <-chan Event {
	return s.events
}

// Start runs the game loop until Stop is called. It blocks.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	defer close(s.done)
	defer close(s.events)

	s.schedule()
	defer s.cancelTasks()

	for {
		// A pending stop wins over anything else that is ready.
		select {
		case <-s.stop:
			return
		default:
		}

		select {
		case <-s.stop:
			return
		case a := <-s.actions:
			s.handleAction(a)
		case <-s.pursuit.C():
			s.game.Tick()
		case <-s.idle.C():
			s.game.IdleTick()
		}
		s.reconcile()
	}
}

// Stop ends the loop and cancels both timers. No tick fires after it returns.
// It is safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	if s.started.Load() {
		<-s.done
	}
}

// Move asks the game to move the player one cell.
func (s *Server) Move(ctx context.Context, d maze.Direction) (bool, Snapshot, error) {
	if !d.Valid() {
		return false, Snapshot{}, ErrInvalidDirection
	}
	r, err := s.send(ctx, action{kind: moveActionType, direction: d})
	return r.moved, r.snapshot, err
}

// State returns a snapshot taken between two handlers.
func (s *Server) State(ctx context.Context) (Snapshot, error) {
	r, err := s.send(ctx, action{kind: stateRequestActionType})
	return r.snapshot, err
}

// StartStage regenerates the game at stage n.
func (s *Server) StartStage(ctx context.Context, n int) (Snapshot, error) {
	r, err := s.send(ctx, action{kind: startStageActionType, stage: n})
	if err != nil {
		return Snapshot{}, err
	}
	return r.snapshot, r.err
}

// Restart starts over from stage 1.
func (s *Server) Restart(ctx context.Context) (Snapshot, error) {
	r, err := s.send(ctx, action{kind: restartActionType})
	return r.snapshot, err
}

func (s *Server) send(ctx context.Context, a action) (result, error) {
	a.reply = make(chan result, 1)

	select {
	case s.actions <- a:
	case <-s.stop:
		return result{}, ErrServerStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}

	select {
	case r := <-a.reply:
		return r, nil
	case <-s.done:
		return result{}, ErrServerStopped
	case <-ctx.Done():
		return result{}, ctx.Err()
	}
}

// handleAction processes incoming actions based on their type.
func (s *Server) handleAction(a action) {
	var r result
	switch a.kind {
	case moveActionType:
		r.moved = s.game.RequestMove(a.direction)
	case startStageActionType:
		r.err = s.game.StartStage(a.stage)
	case restartActionType:
		s.game.Restart()
	}
	r.snapshot = s.game.Snapshot()
	a.reply <- r
}

// reconcile restarts the timers after a new stage and drops them once the game is over.
func (s *Server) reconcile() {
	if s.game.Status() == StatusCaught {
		s.cancelTasks()
		return
	}
	if s.game.epoch != s.epoch {
		s.schedule()
	}
}

// schedule replaces both timers so no tick from an older stage can reach the new grid.
func (s *Server) schedule() {
	s.cancelTasks()
	s.epoch = s.game.epoch
	if s.game.Status() == StatusCaught {
		return
	}
	s.pursuit = newTask(s.cfg.PursuitInterval)
	s.idle = newTask(s.cfg.IdleInterval)
}

func (s *Server) cancelTasks() {
	s.pursuit.Cancel()
	s.idle.Cancel()
	s.pursuit, s.idle = nil, nil
}

// publish forwards a game event to listeners, giving up once the server is stopping.
func (s *Server) publish(e Event) {
	select {
	case s.events <- e:
	case <-s.stop:
	}
}
