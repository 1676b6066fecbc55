package service

import (
	"context"
	"errors"
	"testing"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/game"
	logger "github.com/beka-birhanu/torchmaze/infrastruture/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLeaderboard(t *testing.T, opts *LeaderboardOptions) (*Leaderboard, *fakeSortedStore, *fakeUserRepo) {
	t.Helper()
	store := newFakeSortedStore()
	users := newFakeUserRepo()
	lb, err := NewLeaderboard(store, users, logger.Discard(), opts)
	require.NoError(t, err)
	return lb, store, users
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("Keeps the best stage", func(t *testing.T) {
		lb, _, users := newTestLeaderboard(t, nil)
		id := uuid.New()
		require.NoError(t, users.Save(&dmn.User{ID: id, Username: "runner"}))

		require.NoError(t, lb.Record(ctx, id, 4))
		require.NoError(t, lb.Record(ctx, id, 2))

		top, err := lb.Top(ctx, 0)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, dmn.LeaderboardEntry{Rank: 1, PlayerID: id, Username: "runner", Stage: 4}, top[0])

		user, err := users.ByID(id)
		require.NoError(t, err)
		assert.Equal(t, 4, user.BestStage)
	})

	t.Run("Ranks by descending stage", func(t *testing.T) {
		lb, _, users := newTestLeaderboard(t, nil)
		a, b, c := uuid.New(), uuid.New(), uuid.New()
		for id, name := range map[uuid.UUID]string{a: "alpha", b: "bravo", c: "charlie"} {
			require.NoError(t, users.Save(&dmn.User{ID: id, Username: name}))
		}
		require.NoError(t, lb.Record(ctx, a, 2))
		require.NoError(t, lb.Record(ctx, b, 7))
		require.NoError(t, lb.Record(ctx, c, 5))

		top, err := lb.Top(ctx, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "bravo", top[0].Username)
		assert.Equal(t, 1, top[0].Rank)
		assert.Equal(t, "charlie", top[1].Username)
		assert.Equal(t, 2, top[1].Rank)
	})

	t.Run("Unknown players keep their score", func(t *testing.T) {
		lb, _, _ := newTestLeaderboard(t, nil)
		id := uuid.New()
		require.NoError(t, lb.Record(ctx, id, 3))

		top, err := lb.Top(ctx, 10)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Empty(t, top[0].Username)
		assert.Equal(t, 3, top[0].Stage)
	})

	t.Run("Limits are clamped", func(t *testing.T) {
		lb, _, _ := newTestLeaderboard(t, &LeaderboardOptions{DefaultLimit: 1, MaxLimit: 2})
		for s := 1; s <= 4; s++ {
			require.NoError(t, lb.Record(ctx, uuid.New(), s))
		}

		top, err := lb.Top(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, top, 1)

		top, err = lb.Top(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, top, 2)
	})

	t.Run("Rejects stages below one", func(t *testing.T) {
		lb, _, _ := newTestLeaderboard(t, nil)
		assert.ErrorIs(t, lb.Record(ctx, uuid.New(), 0), game.ErrInvalidStage)
	})

	t.Run("Store failures are returned", func(t *testing.T) {
		lb, store, _ := newTestLeaderboard(t, nil)
		store.err = errors.New("redis down")
		assert.Error(t, lb.Record(ctx, uuid.New(), 2))
	})

	t.Run("Uses the prefixed key", func(t *testing.T) {
		lb, store, _ := newTestLeaderboard(t, &LeaderboardOptions{Prefix: "test"})
		require.NoError(t, lb.Record(ctx, uuid.New(), 1))
		assert.Contains(t, store.sets, "test:leaderboard:stage")
	})
}
