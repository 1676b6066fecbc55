package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/torchmaze/config"
	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/game/maze"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/google/uuid"
)

const (
	subscriberBuffer = 64
	storeTimeout     = 2 * time.Second
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSessionOwner = errors.New("session belongs to another player")
)

var _ i.GameSessionManager = &GameSessionManager{}

type session struct {
	id       uuid.UUID
	playerID uuid.UUID
	server   *game.Server
	done     chan struct{}  // Closed once the event listener has drained.
	records  sync.WaitGroup // Leaderboard writes in flight.

	mu          sync.Mutex
	stage       int
	startedAt   time.Time
	runOpen     bool
	subscribers map[int]chan game.Event
	nextSubID   int
	closed      bool
}

// GameSessionManager runs one game server per player and routes commands to it.
type GameSessionManager struct {
	sessions        map[uuid.UUID]*session
	playerToSession map[uuid.UUID]uuid.UUID
	rules           config.Rules
	leaderboard     i.Leaderboard
	runRepo         i.RunRepo
	logger          i.Logger
	sync.RWMutex
}

type Config struct {
	Rules       config.Rules
	Leaderboard i.Leaderboard
	RunRepo     i.RunRepo
	Logger      i.Logger
}

func NewGameSessionManager(c *Config) (*GameSessionManager, error) {
	if c == nil || c.Leaderboard == nil || c.RunRepo == nil || c.Logger == nil {
		return nil, errors.New("session manager needs a leaderboard, a run repo and a logger")
	}

	return &GameSessionManager{
		sessions:        make(map[uuid.UUID]*session),
		playerToSession: make(map[uuid.UUID]uuid.UUID),
		rules:           c.Rules,
		leaderboard:     c.Leaderboard,
		runRepo:         c.RunRepo,
		logger:          c.Logger,
	}, nil
}

func (g *GameSessionManager) NewSession(ctx context.Context, playerID uuid.UUID) (uuid.UUID, game.Snapshot, error) {
	g.Lock()
	if oldID, ok := g.playerToSession[playerID]; ok {
		old := g.sessions[oldID]
		g.removeSession(oldID)
		g.Unlock()
		g.finish(old)
		g.Lock()
	}

	gm, err := game.New(game.Config{
		BaseSize:      g.rules.BaseSize,
		SizeIncrement: g.rules.SizeIncrement,
		TorchBase:     g.rules.TorchBase,
		TorchMax:      g.rules.TorchMax,
		IdleThreshold: g.rules.IdleThreshold,
		Seed:          g.rules.Seed,
	})
	if err != nil {
		g.Unlock()
		g.logger.Error(fmt.Sprintf("creating game for player %s: %s", playerID, err))
		return uuid.Nil, game.Snapshot{}, err
	}

	server := game.NewServer(gm, game.ServerConfig{
		PursuitInterval: g.rules.PursuitInterval,
		IdleInterval:    g.rules.IdleInterval,
	})
	s := g.saveSession(playerID, server)
	g.Unlock()

	go server.Start()
	go g.listenGameChan(s)

	snap, err := server.State(ctx)
	if err != nil {
		return uuid.Nil, game.Snapshot{}, err
	}

	g.logger.Info(fmt.Sprintf("started new game %s for player: %s", s.id, playerID))
	return s.id, snap, nil
}

func (g *GameSessionManager) Move(ctx context.Context, sessionID, playerID uuid.UUID, d maze.Direction) (bool, game.Snapshot, error) {
	s, err := g.lookup(sessionID, playerID)
	if err != nil {
		return false, game.Snapshot{}, err
	}
	return s.server.Move(ctx, d)
}

func (g *GameSessionManager) State(ctx context.Context, sessionID, playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.lookup(sessionID, playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.server.State(ctx)
}

// Restart sends the game back to stage 1. A run still in progress is recorded as abandoned.
func (g *GameSessionManager) Restart(ctx context.Context, sessionID, playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.lookup(sessionID, playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.server.Restart(ctx)
}

// End stops the session and records the run as abandoned unless it already ended.
func (g *GameSessionManager) End(ctx context.Context, sessionID, playerID uuid.UUID) error {
	s, err := g.lookup(sessionID, playerID)
	if err != nil {
		return err
	}

	g.Lock()
	g.removeSession(sessionID)
	g.Unlock()

	g.finish(s)
	g.logger.Info(fmt.Sprintf("ended game %s for player: %s", sessionID, playerID))
	return nil
}

func (g *GameSessionManager) Subscribe(sessionID, playerID uuid.UUID) (<-chan game.Event, func(), error) {
	s, err := g.lookup(sessionID, playerID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan game.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}, nil
	}

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe, nil
}

// StopAll ends every session, recording open runs as abandoned.
func (g *GameSessionManager) StopAll() {
	g.Lock()
	sessions := make([]*session, 0, len(g.sessions))
	for id, s := range g.sessions {
		sessions = append(sessions, s)
		g.removeSession(id)
	}
	g.Unlock()

	for _, s := range sessions {
		g.finish(s)
	}
}

func (g *GameSessionManager) lookup(sessionID, playerID uuid.UUID) (*session, error) {
	g.RLock()
	defer g.RUnlock()
	s, ok := g.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.playerID != playerID {
		return nil, ErrNotSessionOwner
	}
	return s, nil
}

// saveSession registers a server under a fresh session ID. The caller holds the lock.
func (g *GameSessionManager) saveSession(playerID uuid.UUID, server *game.Server) *session {
	sessionID := uuid.New()
	for {
		if _, ok := g.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	s := &session{
		id:          sessionID,
		playerID:    playerID,
		server:      server,
		done:        make(chan struct{}),
		stage:       1,
		startedAt:   time.Now().UTC(),
		runOpen:     true,
		subscribers: make(map[int]chan game.Event),
	}
	g.sessions[sessionID] = s
	g.playerToSession[playerID] = sessionID
	return s
}

// removeSession forgets a session. The caller holds the lock.
func (g *GameSessionManager) removeSession(sessionID uuid.UUID) {
	s, ok := g.sessions[sessionID]
	if !ok {
		return
	}
	if g.playerToSession[s.playerID] == sessionID {
		delete(g.playerToSession, s.playerID)
	}
	delete(g.sessions, sessionID)
}

// finish stops the session's server and closes its run once every pending event is handled.
func (g *GameSessionManager) finish(s *session) {
	outcome := dmn.OutcomeAbandoned
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	if snap, err := s.server.State(ctx); err == nil && snap.Status == game.StatusCaught {
		outcome = dmn.OutcomeCaught
	}
	cancel()

	s.server.Stop()
	<-s.done
	s.records.Wait()
	g.closeRun(s, outcome)
}

func (g *GameSessionManager) listenGameChan(s *session) {
	defer close(s.done)
	for e := range s.server.Events() {
		g.broadcast(s, e)

		switch e.Type {
		case game.EventStageStarted:
			if e.Stage == 1 {
				g.closeRun(s, dmn.OutcomeAbandoned)
				g.openRun(s)
			}
			s.mu.Lock()
			s.stage = e.Stage
			s.mu.Unlock()
		case game.EventStageClear:
			s.records.Add(1)
			go g.recordStage(s, e.Stage)
		case game.EventCaught:
			g.closeRun(s, dmn.OutcomeCaught)
		}
	}

	s.mu.Lock()
	s.closed = true
	for id, sub := range s.subscribers {
		close(sub)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()
}

// recordStage writes a cleared stage to the leaderboard. It runs on its own goroutine; finish waits for it.
func (g *GameSessionManager) recordStage(s *session, stage int) {
	defer s.records.Done()
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := g.leaderboard.Record(ctx, s.playerID, stage); err != nil {
		g.logger.Warning(fmt.Sprintf("leaderboard not updated for player %s: %s", s.playerID, err))
	}
}

// broadcast hands the event to every subscriber that has room for it.
func (g *GameSessionManager) broadcast(s *session, e game.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subscribers {
		select {
		case sub <- e:
		default:
			g.logger.Warning(fmt.Sprintf("dropped %s event for slow subscriber of game %s", e.Type, s.id))
		}
	}
}

// openRun starts timing a new run at stage 1.
func (g *GameSessionManager) openRun(s *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = 1
	s.startedAt = time.Now().UTC()
	s.runOpen = true
}

// closeRun stores the current run once with the given outcome.
func (g *GameSessionManager) closeRun(s *session, outcome dmn.Outcome) {
	s.mu.Lock()
	if !s.runOpen {
		s.mu.Unlock()
		return
	}
	s.runOpen = false
	run := &dmn.Run{
		ID:        uuid.New(),
		PlayerID:  s.playerID,
		Stage:     s.stage,
		Outcome:   outcome,
		StartedAt: s.startedAt,
		EndedAt:   time.Now().UTC(),
	}
	s.mu.Unlock()

	if err := g.runRepo.Save(run); err != nil {
		g.logger.Error(fmt.Sprintf("saving %s run of player %s: %s", outcome, s.playerID, err))
		return
	}
	g.logger.Info(fmt.Sprintf("recorded %s run: player=%s stage=%d", outcome, s.playerID, run.Stage))
}
