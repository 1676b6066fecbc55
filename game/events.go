package game

import "github.com/beka-birhanu/torchmaze/game/maze"

// EventType names what happened in a game.
type EventType string

// Event types emitted to the presentation layer.
const (
	EventMoved        EventType = "moved"        // The player stepped into a new cell.
	EventBlocked      EventType = "blocked"      // A move request hit a wall or the border.
	EventMonsterMoved EventType = "monsterMoved" // The monster stepped into a new cell.
	EventFogRevealed  EventType = "fogRevealed"  // Cells lost their fog.
	EventTorchChanged EventType = "torchChanged" // The torch radius grew or was reset.
	EventStageClear   EventType = "stageClear"   // The player reached the exit; Stage is the new stage.
	EventStageStarted EventType = "stageStarted" // A fresh grid was generated.
	EventCaught       EventType = "caught"       // The monster reached the player. Terminal.
)

// Event is a single notification about a state change.
type Event struct {
	Type      EventType       `json:"type"`
	Stage     int             `json:"stage"`
	Version   int64           `json:"version"`
	Position  *maze.Position  `json:"position,omitempty"`
	Direction maze.Direction  `json:"direction,omitempty"`
	Cells     []maze.Position `json:"cells,omitempty"`
	Torch     int             `json:"torch,omitempty"`
}

// EventHandler receives events synchronously, in emission order.
type EventHandler func(Event)

func positionPtr(p maze.Position) *maze.Position {
	return &p
}
