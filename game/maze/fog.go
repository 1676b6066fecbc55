package maze

// Reveal lifts the fog from every cell within Manhattan distance radius of center
// and returns the cells that were hidden before the call.
// Revealed cells are never hidden again by Reveal.
func (g *Grid) Reveal(center Position, radius int) []Position {
	g.mustInBound(center)
	if radius < 0 {
		return nil
	}

	revealed := make([]Position, 0)
	for y := max(0, center.Y-radius); y <= min(g.size-1, center.Y+radius); y++ {
		for x := max(0, center.X-radius); x <= min(g.size-1, center.X+radius); x++ {
			if manhattan(center, Position{X: x, Y: y}) > radius {
				continue
			}
			if g.cells[y][x].Fog {
				g.cells[y][x].Fog = false
				revealed = append(revealed, Position{X: x, Y: y})
			}
		}
	}

	return revealed
}

// Hidden reports whether the cell at p is still covered by fog.
func (g *Grid) Hidden(p Position) bool {
	g.mustInBound(p)
	return g.cells[p.Y][p.X].Fog
}

// ResetFog covers every cell again.
func (g *Grid) ResetFog() {
	for y := range g.cells {
		for x := range g.cells[y] {
			g.cells[y][x].Fog = true
		}
	}
}

// RevealedCount returns the number of cells without fog.
func (g *Grid) RevealedCount() int {
	count := 0
	for y := range g.cells {
		for x := range g.cells[y] {
			if !g.cells[y][x].Fog {
				count++
			}
		}
	}
	return count
}

// manhattan calculates the Manhattan distance between two positions.
func manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
