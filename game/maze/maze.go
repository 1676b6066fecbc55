/*
Package maze provides tools for creating and querying square perfect mazes.

It defines the `Grid` structure, composed of `Cell` objects that carry wall configurations
and a fog flag.

Mazes are carved with a randomized depth-first backtracker driven by an explicit stack, so the
open walls always form a spanning tree: exactly one simple path joins any two cells.

Utility functions enable move validation, fog reveal around a position, and ASCII visualization of the maze.
*/
package maze

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Grid represents a square maze consisting of cells with walls and fog.
type Grid struct {
	size  int      // Side length of the grid
	cells [][]Cell // 2D grid of cells indexed [y][x]
}

// New initializes a fully walled, fully fogged grid of the given side length.
// It panics if size is not positive.
func New(size int) *Grid {
	if size < 1 {
		panic(fmt.Sprintf("maze: invalid grid size %d", size))
	}

	cells := make([][]Cell, size)
	for y := range cells {
		cells[y] = make([]Cell, size)
		for x := range cells[y] {
			cells[y][x] = Cell{
				NorthWall: true,
				SouthWall: true,
				EastWall:  true,
				WestWall:  true,
				Fog:       true,
			}
		}
	}

	return &Grid{size: size, cells: cells}
}

// Generate builds a grid of the given size and carves a perfect maze into it.
// A zero seed picks a random one.
func Generate(size int, seed int64) *Grid {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := New(size)
	g.carve(rand.New(rand.NewSource(seed)))
	return g
}

// carve runs the depth-first backtracker from the origin.
func (g *Grid) carve(rng *rand.Rand) {
	visited := make([][]bool, g.size)
	for y := range visited {
		visited[y] = make([]bool, g.size)
	}

	stack := make([]Position, 0, g.size*g.size)
	current := Origin()
	visited[current.Y][current.X] = true

	for {
		candidates := make([]Direction, 0, len(AllDirections))
		for _, d := range AllDirections {
			next, ok := g.Neighbor(current, d)
			if ok && !visited[next.Y][next.X] {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) > 0 {
			d := candidates[rng.Intn(len(candidates))]
			next, _ := g.Neighbor(current, d)
			g.openWall(current, d)
			stack = append(stack, current)
			visited[next.Y][next.X] = true
			current = next
			continue
		}

		if len(stack) == 0 {
			return
		}
		current = pop(&stack)
	}
}

// pop removes and returns the last element of a stack of positions.
func pop(s *[]Position) Position {
	lastIndex := len(*s) - 1
	popped := (*s)[lastIndex]
	*s = (*s)[:lastIndex]
	return popped
}

// openWall removes the wall between a cell and its neighbour on both sides.
func (g *Grid) openWall(from Position, d Direction) {
	to, ok := g.Neighbor(from, d)
	if !ok {
		return
	}
	g.cells[from.Y][from.X].setWall(d, false)
	g.cells[to.Y][to.X].setWall(d.Opposite(), false)
}

// Origin is the player's start cell.
func Origin() Position {
	return Position{X: 0, Y: 0}
}

// Size returns the side length of the grid.
func (g *Grid) Size() int {
	return g.size
}

// Exit returns the far corner of the grid.
func (g *Grid) Exit() Position {
	return Position{X: g.size - 1, Y: g.size - 1}
}

// InBound reports whether the position lies inside the grid.
func (g *Grid) InBound(p Position) bool {
	return p.X >= 0 && p.X < g.size && p.Y >= 0 && p.Y < g.size
}

// Cell returns a copy of the cell at p. It panics if p is out of bounds.
func (g *Grid) Cell(p Position) Cell {
	g.mustInBound(p)
	return g.cells[p.Y][p.X]
}

// Neighbor returns the adjacent position in direction d and whether it is inside the grid.
func (g *Grid) Neighbor(p Position, d Direction) (Position, bool) {
	if !d.Valid() {
		return p, false
	}
	dx, dy := d.Delta()
	next := p.Add(dx, dy)
	return next, g.InBound(next)
}

// CanMove reports whether a single step from `from` in direction d is legal:
// both cells are in bounds and the wall of `from` facing d is open.
func (g *Grid) CanMove(from Position, d Direction) bool {
	if !g.InBound(from) {
		return false
	}
	if _, ok := g.Neighbor(from, d); !ok {
		return false
	}
	return !g.cells[from.Y][from.X].HasWall(d)
}

// OpenEdges counts the passages between adjacent cells.
func (g *Grid) OpenEdges() int {
	edges := 0
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			// East and south only, so each passage is counted once.
			if x+1 < g.size && !g.cells[y][x].EastWall {
				edges++
			}
			if y+1 < g.size && !g.cells[y][x].SouthWall {
				edges++
			}
		}
	}
	return edges
}

// Rows returns a deep copy of the cells, indexed [y][x].
func (g *Grid) Rows() [][]Cell {
	rows := make([][]Cell, g.size)
	for y := range g.cells {
		rows[y] = make([]Cell, g.size)
		copy(rows[y], g.cells[y])
	}
	return rows
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{size: g.size, cells: g.Rows()}
}

func (g *Grid) mustInBound(p Position) {
	if !g.InBound(p) {
		panic(fmt.Sprintf("maze: position (%d,%d) outside %dx%d grid", p.X, p.Y, g.size, g.size))
	}
}

// String provides a textual representation of the maze.
func (g *Grid) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", g.size) + "\n")

	for y := 0; y < g.size; y++ {
		// Cell rows
		output.WriteString("|")
		for x := 0; x < g.size; x++ {
			cell := g.cells[y][x]
			if cell.Fog {
				output.WriteString(" ~ ")
			} else {
				output.WriteString("   ")
			}

			if cell.EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for x := 0; x < g.size; x++ {
			if g.cells[y][x].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}
