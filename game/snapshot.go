package game

import "github.com/beka-birhanu/torchmaze/game/maze"

// Snapshot is a read-only copy of a game's state for renderers and API clients.
type Snapshot struct {
	Version int64           `json:"version"`
	Status  Status          `json:"status"`
	Stage   int             `json:"stage"`
	Size    int             `json:"size"`
	Torch   int             `json:"torch"`
	Player  maze.Position   `json:"player"`
	Monster maze.Position   `json:"monster"`
	Exit    maze.Position   `json:"exit"`
	Visited []maze.Position `json:"visited"`
	Cells   [][]maze.Cell   `json:"cells"`
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	visited := make([]maze.Position, 0, len(g.visited))
	for y := 0; y < g.grid.Size(); y++ {
		for x := 0; x < g.grid.Size(); x++ {
			p := maze.Position{X: x, Y: y}
			if _, ok := g.visited[p]; ok {
				visited = append(visited, p)
			}
		}
	}

	return Snapshot{
		Version: g.version,
		Status:  g.status,
		Stage:   g.stage,
		Size:    g.grid.Size(),
		Torch:   g.torch,
		Player:  g.player,
		Monster: g.monster,
		Exit:    g.exit,
		Visited: visited,
		Cells:   g.grid.Rows(),
	}
}
