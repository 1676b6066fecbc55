package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/beka-birhanu/torchmaze/game/maze"
)

// Game-related errors.
var (
	ErrInvalidConfig = errors.New("invalid game configuration")
	ErrInvalidStage  = errors.New("stage must be at least 1")
)

// Status is the state machine position of a game.
type Status string

const (
	StatusPlaying    Status = "playing"
	StatusStageClear Status = "stageClear" // Transient while the next stage is generated.
	StatusCaught     Status = "caught"     // Terminal until Restart.
)

// Default rules.
const (
	DefaultBaseSize      = 10
	DefaultSizeIncrement = 2
	DefaultTorchBase     = 2
	DefaultTorchMax      = 5
	DefaultIdleThreshold = 3
)

// Config holds the rules of a game.
type Config struct {
	BaseSize      int          // Grid side before the per-stage increment.
	SizeIncrement int          // Grid side added per stage.
	TorchBase     int          // Reveal radius while moving.
	TorchMax      int          // Cap of the reveal radius while idle.
	IdleThreshold int          // Idle ticks before the torch starts growing.
	Seed          int64        // RNG seed; 0 picks one from the clock.
	OnEvent       EventHandler // Optional event sink.
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		BaseSize:      DefaultBaseSize,
		SizeIncrement: DefaultSizeIncrement,
		TorchBase:     DefaultTorchBase,
		TorchMax:      DefaultTorchMax,
		IdleThreshold: DefaultIdleThreshold,
	}
}

func (c Config) validate() error {
	if c.BaseSize+c.SizeIncrement < 2 || c.SizeIncrement < 0 {
		return ErrInvalidConfig
	}
	if c.TorchBase < 0 || c.TorchMax < c.TorchBase || c.IdleThreshold < 1 {
		return ErrInvalidConfig
	}
	return nil
}

// Game holds one player's maze run: the grid, every position, the torch and the stage.
// It is not safe for concurrent use; a Server serializes access to it.
type Game struct {
	cfg     Config
	rng     *rand.Rand
	pursuer *Pursuer

	grid    *maze.Grid
	player  maze.Position
	monster maze.Position
	exit    maze.Position
	visited map[maze.Position]struct{}

	stage     int
	torch     int
	idleTicks int
	idleAt    maze.Position // Player position sampled at the previous idle tick.
	status    Status
	version   int64
	epoch     int64 // Bumped every time a grid is generated.
}

// New creates a game at stage 1.
func New(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	g := &Game{
		cfg:     cfg,
		rng:     rng,
		pursuer: NewPursuer(rng),
	}
	g.startStage(1)
	return g, nil
}

// SetEventHandler replaces the event sink.
func (g *Game) SetEventHandler(h EventHandler) {
	g.cfg.OnEvent = h
}

// SizeFor returns the grid side length of a stage.
func (g *Game) SizeFor(stage int) int {
	return g.cfg.BaseSize + stage*g.cfg.SizeIncrement
}

// StartStage discards the current grid and starts stage n from scratch.
func (g *Game) StartStage(n int) error {
	if n < 1 {
		return ErrInvalidStage
	}
	g.startStage(n)
	return nil
}

// Restart begins a new game at stage 1, leaving any terminal state.
func (g *Game) Restart() {
	g.startStage(1)
}

func (g *Game) startStage(n int) {
	g.stage = n
	g.epoch++
	g.grid = maze.Generate(g.SizeFor(n), g.rng.Int63()+1)
	g.player = maze.Origin()
	g.exit = g.grid.Exit()
	g.visited = map[maze.Position]struct{}{g.player: {}}
	g.torch = g.cfg.TorchBase
	g.idleTicks = 0
	g.idleAt = g.player
	g.monster = g.spawnMonster()
	g.status = StatusPlaying
	g.version++

	g.emit(Event{Type: EventStageStarted, Position: positionPtr(g.monster)})
	g.reveal()
}

// spawnMonster picks a uniformly random cell other than the player's.
func (g *Game) spawnMonster() maze.Position {
	size := g.grid.Size()
	for {
		p := maze.Position{X: g.rng.Intn(size), Y: g.rng.Intn(size)}
		if p != g.player {
			return p
		}
	}
}

// RequestMove moves the player one cell in direction d.
// It returns true if the player moved.
func (g *Game) RequestMove(d maze.Direction) bool {
	dx, dy := d.Delta()
	return g.MovePlayer(dx, dy)
}

// MovePlayer moves the player by (dx, dy), which must be a unit step through an open wall.
// Illegal moves emit a blocked event and change nothing. It returns true if the player moved.
func (g *Game) MovePlayer(dx, dy int) bool {
	if g.status != StatusPlaying {
		return false
	}

	d, ok := maze.DirectionOf(dx, dy)
	if !ok || !g.grid.CanMove(g.player, d) {
		g.emit(Event{Type: EventBlocked, Position: positionPtr(g.player), Direction: d})
		return false
	}

	g.player = g.player.Add(dx, dy)
	g.visited[g.player] = struct{}{}
	g.idleTicks = 0
	g.version++
	if g.torch != g.cfg.TorchBase {
		g.torch = g.cfg.TorchBase
		g.emit(Event{Type: EventTorchChanged, Torch: g.torch})
	}

	g.emit(Event{Type: EventMoved, Position: positionPtr(g.player), Direction: d})
	g.reveal()

	if g.player == g.exit {
		g.clearStage()
	}
	return true
}

func (g *Game) clearStage() {
	g.status = StatusStageClear
	next := g.stage + 1
	g.emit(Event{Type: EventStageClear, Stage: next})
	g.startStage(next)
}

// Tick advances the monster by one pursuit step and checks for a catch.
func (g *Game) Tick() {
	if g.status != StatusPlaying {
		return
	}

	if g.monster == g.player {
		g.caught()
		return
	}

	next := g.pursuer.Step(g.monster, g.player, g.grid)
	if next == g.monster {
		return
	}

	g.monster = next
	g.version++
	g.emit(Event{Type: EventMonsterMoved, Position: positionPtr(g.monster)})

	if g.monster == g.player {
		g.caught()
	}
}

func (g *Game) caught() {
	g.status = StatusCaught
	g.version++
	g.emit(Event{Type: EventCaught, Position: positionPtr(g.player)})
}

// IdleTick grows the torch while the player stands still.
func (g *Game) IdleTick() {
	if g.status != StatusPlaying {
		return
	}

	if g.player != g.idleAt {
		g.idleAt = g.player
		g.idleTicks = 0
		if g.torch != g.cfg.TorchBase {
			g.torch = g.cfg.TorchBase
			g.version++
			g.emit(Event{Type: EventTorchChanged, Torch: g.torch})
		}
		return
	}

	g.idleTicks++
	if g.idleTicks < g.cfg.IdleThreshold || g.torch >= g.cfg.TorchMax {
		return
	}

	g.torch++
	g.version++
	g.emit(Event{Type: EventTorchChanged, Torch: g.torch})
	g.reveal()
}

// reveal lifts the fog around the player at the current torch radius.
func (g *Game) reveal() {
	cells := g.grid.Reveal(g.player, g.torch)
	if len(cells) == 0 {
		return
	}
	g.emit(Event{Type: EventFogRevealed, Cells: cells, Torch: g.torch})
}

func (g *Game) emit(e Event) {
	if g.cfg.OnEvent == nil {
		return
	}
	if e.Stage == 0 {
		e.Stage = g.stage
	}
	e.Version = g.version
	g.cfg.OnEvent(e)
}

// Grid returns a read-only copy of the current grid.
func (g *Game) Grid() *maze.Grid { return g.grid.Clone() }

// Player returns the player's position.
func (g *Game) Player() maze.Position { return g.player }

// Monster returns the monster's position.
func (g *Game) Monster() maze.Position { return g.monster }

// Exit returns the exit of the current stage.
func (g *Game) Exit() maze.Position { return g.exit }

// Stage returns the current stage number.
func (g *Game) Stage() int { return g.stage }

// TorchRadius returns the current reveal radius.
func (g *Game) TorchRadius() int { return g.torch }

// Status returns the state machine position.
func (g *Game) Status() Status { return g.status }

// Version increases on every state change.
func (g *Game) Version() int64 { return g.version }
