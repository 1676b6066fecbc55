package i

import (
	"context"

	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/game/maze"
	"github.com/google/uuid"
)

// GameSessionManager runs one game per player and routes commands to it.
type GameSessionManager interface {
	// NewSession starts a game for the player, ending any session the player already has.
	NewSession(ctx context.Context, playerID uuid.UUID) (uuid.UUID, game.Snapshot, error)

	Move(ctx context.Context, sessionID, playerID uuid.UUID, d maze.Direction) (bool, game.Snapshot, error)
	State(ctx context.Context, sessionID, playerID uuid.UUID) (game.Snapshot, error)
	Restart(ctx context.Context, sessionID, playerID uuid.UUID) (game.Snapshot, error)
	End(ctx context.Context, sessionID, playerID uuid.UUID) error

	// Subscribe returns the session's event stream and a func that releases it.
	Subscribe(sessionID, playerID uuid.UUID) (<-chan game.Event, func(), error)
}
