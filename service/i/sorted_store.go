package i

import "context"

// ScoredMember is one member of a sorted set with its score.
type ScoredMember struct {
	Member string
	Score  float64
}

// SortedStore keeps scored members per key.
type SortedStore interface {
	// SubmitMax stores score for member unless a higher or equal score is already held.
	// It reports whether the stored score changed.
	SubmitMax(ctx context.Context, key, member string, score float64) (bool, error)

	// Top returns up to n members by descending score.
	Top(ctx context.Context, key string, n int64) ([]ScoredMember, error)
}
