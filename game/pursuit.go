package game

import (
	"math/rand"

	"github.com/beka-birhanu/torchmaze/game/maze"
)

// Pursuer computes the monster's greedy chase, one cell per step.
// It never searches beyond the monster's own cell.
type Pursuer struct {
	rng *rand.Rand
}

// NewPursuer creates a Pursuer that draws its fallback shuffles from rng.
func NewPursuer(rng *rand.Rand) *Pursuer {
	return &Pursuer{rng: rng}
}

// Step returns the monster's position after one move toward the player.
//
// The x axis is always tried before the y axis. When neither preferred step is open the
// four directions are tried in random order, and when nothing is open the monster stays put.
func (p *Pursuer) Step(monster, player maze.Position, m Maze) maze.Position {
	dx := sign(player.X - monster.X)
	dy := sign(player.Y - monster.Y)

	preferred := [][2]int{{dx, 0}, {0, dy}}
	for _, step := range preferred {
		d, ok := maze.DirectionOf(step[0], step[1])
		if ok && legal(m, monster, d) {
			return monster.Add(step[0], step[1])
		}
	}

	fallback := make([]maze.Direction, len(maze.AllDirections))
	copy(fallback, maze.AllDirections)
	p.rng.Shuffle(len(fallback), func(i, j int) {
		fallback[i], fallback[j] = fallback[j], fallback[i]
	})

	for _, d := range fallback {
		if legal(m, monster, d) {
			return monster.Add(d.Delta())
		}
	}

	return monster
}

// legal checks bounds on both ends before consulting the wall.
func legal(m Maze, from maze.Position, d maze.Direction) bool {
	dx, dy := d.Delta()
	return m.InBound(from) && m.InBound(from.Add(dx, dy)) && m.CanMove(from, d)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
