package maze

// Cell represents a single cell in a maze grid.
// It includes properties for walls on each side and the fog covering it.
type Cell struct {
	NorthWall bool `json:"north"` // NorthWall indicates whether there is a wall on the north (top) side of the cell.
	SouthWall bool `json:"south"` // SouthWall indicates whether there is a wall on the south (bottom) side of the cell.
	EastWall  bool `json:"east"`  // EastWall indicates whether there is a wall on the east (right) side of the cell.
	WestWall  bool `json:"west"`  // WestWall indicates whether there is a wall on the west (left) side of the cell.
	Fog       bool `json:"fog"`   // Fog is true while the cell is still hidden from the player.
}

// HasWall reports whether the cell is walled off in the given direction.
func (c *Cell) HasWall(d Direction) bool {
	switch d {
	case North:
		return c.NorthWall
	case South:
		return c.SouthWall
	case East:
		return c.EastWall
	case West:
		return c.WestWall
	default:
		return true
	}
}

// setWall sets the presence of a wall in the given direction.
func (c *Cell) setWall(d Direction, hasWall bool) {
	switch d {
	case North:
		c.NorthWall = hasWall
	case South:
		c.SouthWall = hasWall
	case East:
		c.EastWall = hasWall
	case West:
		c.WestWall = hasWall
	}
}

// Position represents the position of a cell in the maze grid.
type Position struct {
	X int `json:"x"` // Column index of the cell
	Y int `json:"y"` // Row index of the cell
}

// Add returns the position shifted by the given delta.
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Direction names one of the four sides of a cell.
type Direction string

const (
	North Direction = "North"
	East  Direction = "East"
	South Direction = "South"
	West  Direction = "West"
)

var (
	// Directions maps every direction to its unit delta.
	Directions = map[Direction]Position{
		North: {X: 0, Y: -1},
		East:  {X: 1, Y: 0},
		South: {X: 0, Y: 1},
		West:  {X: -1, Y: 0},
	}

	// AllDirections lists the directions in a fixed order so seeded generation stays reproducible.
	AllDirections = []Direction{North, East, South, West}

	opposite = map[Direction]Direction{
		North: South,
		South: North,
		East:  West,
		West:  East,
	}
)

// Delta returns the unit step of the direction. Unknown directions yield a zero step.
func (d Direction) Delta() (int, int) {
	delta, ok := Directions[d]
	if !ok {
		return 0, 0
	}
	return delta.X, delta.Y
}

// Opposite returns the direction facing the other way.
func (d Direction) Opposite() Direction {
	return opposite[d]
}

// Valid reports whether d is one of the four known directions.
func (d Direction) Valid() bool {
	_, ok := Directions[d]
	return ok
}

// DirectionOf returns the direction of a unit step, or false if (dx, dy) is not one.
func DirectionOf(dx, dy int) (Direction, bool) {
	for _, d := range AllDirections {
		if delta := Directions[d]; delta.X == dx && delta.Y == dy {
			return d, true
		}
	}
	return "", false
}
