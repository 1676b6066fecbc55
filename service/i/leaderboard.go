package i

import (
	"context"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/google/uuid"
)

// Leaderboard ranks players by the highest stage they reached.
type Leaderboard interface {
	Record(ctx context.Context, playerID uuid.UUID, stage int) error
	Top(ctx context.Context, n int) ([]dmn.LeaderboardEntry, error)
}
