package dmn

import (
	"time"

	"github.com/google/uuid"
)

// Outcome tells how a run ended.
type Outcome string

const (
	OutcomeCaught    Outcome = "caught"    // The monster reached the player.
	OutcomeAbandoned Outcome = "abandoned" // The player left the game.
)

// Run is one finished game session.
type Run struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	PlayerID  uuid.UUID `bson:"playerId" json:"player_id"`
	Stage     int       `bson:"stage" json:"stage"`
	Outcome   Outcome   `bson:"outcome" json:"outcome"`
	StartedAt time.Time `bson:"startedAt" json:"started_at"`
	EndedAt   time.Time `bson:"endedAt" json:"ended_at"`
}

// Duration returns how long the run lasted.
func (r *Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
