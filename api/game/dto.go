// Package gameapi exposes game sessions over HTTP and websockets.
package gameapi

import (
	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/game/maze"
)

// SessionResponse is returned when a session starts.
type SessionResponse struct {
	ID    string        `json:"id"`
	State game.Snapshot `json:"state"`
}

// MoveRequest asks to move the player one cell.
type MoveRequest struct {
	Direction maze.Direction `json:"direction" binding:"required"`
}

// MoveResponse reports whether the move happened. A blocked move is not an error.
type MoveResponse struct {
	Moved bool          `json:"moved"`
	State game.Snapshot `json:"state"`
}

// RunResponse is a finished run with its length in seconds.
type RunResponse struct {
	*dmn.Run
	DurationSeconds float64 `json:"duration_seconds"`
}

// StreamMessage is one frame of the event stream sent to the client.
type StreamMessage struct {
	Type     string         `json:"type"`
	Event    *game.Event    `json:"event,omitempty"`
	Snapshot *game.Snapshot `json:"snapshot,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ClientMessage is a command a client sends over the event stream.
type ClientMessage struct {
	Type      string         `json:"type"`
	Direction maze.Direction `json:"direction,omitempty"`
}

const (
	streamSnapshot = "snapshot"
	streamEvent    = "event"
	streamError    = "error"

	clientMove    = "move"
	clientRestart = "restart"
)
