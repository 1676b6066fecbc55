package dmn

import "github.com/google/uuid"

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	Rank     int       `json:"rank"`
	PlayerID uuid.UUID `json:"player_id"`
	Username string    `json:"username"`
	Stage    int       `json:"stage"`
}
