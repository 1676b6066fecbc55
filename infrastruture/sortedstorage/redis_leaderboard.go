package sortedstorage

import (
	"context"
	"errors"
	"time"

	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const unlockTimeout = time.Second

var _ i.SortedStore = &RedisSortedStore{}

// RedisSortedStore keeps per-member maximum scores in Redis sorted sets with TTL support.
type RedisSortedStore struct {
	client *redis.Client
	locker *redsync.Redsync
	ttl    time.Duration
}

// NewRedisSortedStore initializes a RedisSortedStore with the provided Redis client and TTL.
// A zero TTL keeps keys forever.
func NewRedisSortedStore(client *redis.Client, ttlSeconds int) (*RedisSortedStore, error) {
	if client == nil {
		return nil, errors.New("nil redis client")
	}
	store := &RedisSortedStore{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
	pool := goredis.NewPool(client)
	store.locker = redsync.New(pool)
	return store, nil
}

// SubmitMax raises member's score to score if it is higher than the stored one.
func (s *RedisSortedStore) SubmitMax(ctx context.Context, key, member string, score float64) (bool, error) {
	mutex := s.locker.NewMutex(key + ":lock")
	if err := mutex.LockContext(ctx); err != nil {
		return false, err
	}
	defer func() {
		// ctx may be spent by now; the lock must still go.
		unlockCtx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		_, _ = mutex.UnlockContext(unlockCtx)
	}()

	current, err := s.client.ZScore(ctx, key, member).Result()
	switch {
	case errors.Is(err, redis.Nil):
	case err != nil:
		return false, err
	case current >= score:
		return false, nil
	}

	if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return false, err
	}

	// Set expiration only if it's not already set
	if s.ttl > 0 {
		ttl, err := s.client.TTL(ctx, key).Result()
		if err == nil && ttl == -1 {
			_ = s.client.Expire(ctx, key, s.ttl).Err()
		}
	}

	return true, nil
}

// Top returns up to n members with the highest scores.
func (s *RedisSortedStore) Top(ctx context.Context, key string, n int64) ([]i.ScoredMember, error) {
	if n <= 0 {
		return nil, nil
	}
	zs, err := s.client.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	members := make([]i.ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		members = append(members, i.ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}
