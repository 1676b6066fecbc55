package game

import "github.com/beka-birhanu/torchmaze/game/maze"

// Maze defines the wall topology the pursuit logic needs to read.
type Maze interface {
	// InBound reports whether the position lies inside the maze.
	InBound(maze.Position) bool

	// CanMove reports whether a single step in the direction is open.
	CanMove(maze.Position, maze.Direction) bool
}

var _ Maze = &maze.Grid{}
