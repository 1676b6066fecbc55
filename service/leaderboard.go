package service

import (
	"context"
	"errors"
	"fmt"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/game"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/google/uuid"
)

const (
	defaultPrefix      = "torchmaze"
	defaultTopLimit    = 10
	defaultMaxTopLimit = 100
	leaderboardKeyFmt  = "%s:leaderboard:stage"
)

// LeaderboardOptions tunes the leaderboard. Zero fields take defaults.
type LeaderboardOptions struct {
	Prefix       string
	DefaultLimit int
	MaxLimit     int
}

var _ i.Leaderboard = &Leaderboard{}

// Leaderboard ranks players by the highest stage they reached.
type Leaderboard struct {
	store    i.SortedStore
	userRepo i.UserRepo
	logger   i.Logger
	opts     *LeaderboardOptions
}

func NewLeaderboard(store i.SortedStore, userRepo i.UserRepo, logger i.Logger, opts *LeaderboardOptions) (*Leaderboard, error) {
	if store == nil || userRepo == nil || logger == nil {
		return nil, errors.New("leaderboard needs a store, a user repo and a logger")
	}

	if opts == nil {
		opts = &LeaderboardOptions{}
	}

	if opts.Prefix == "" {
		opts.Prefix = defaultPrefix
	}

	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultTopLimit
	}

	if opts.MaxLimit < opts.DefaultLimit {
		opts.MaxLimit = defaultMaxTopLimit
		if opts.MaxLimit < opts.DefaultLimit {
			opts.MaxLimit = opts.DefaultLimit
		}
	}

	return &Leaderboard{
		store:    store,
		userRepo: userRepo,
		logger:   logger,
		opts:     opts,
	}, nil
}

// Record submits a reached stage. Lower stages than the player's best are ignored.
func (l *Leaderboard) Record(ctx context.Context, playerID uuid.UUID, stage int) error {
	if stage < 1 {
		return game.ErrInvalidStage
	}

	raised, err := l.store.SubmitMax(ctx, l.key(), playerID.String(), float64(stage))
	if err != nil {
		l.logger.Error(fmt.Sprintf("submitting stage %d for %s: %s", stage, playerID, err))
		return err
	}
	if !raised {
		return nil
	}

	user, err := l.userRepo.ByID(playerID)
	if err != nil {
		l.logger.Warning(fmt.Sprintf("best stage of unknown player %s not saved: %s", playerID, err))
		return nil
	}
	if user.RecordStage(stage) {
		if err := l.userRepo.Save(user); err != nil {
			l.logger.Error(fmt.Sprintf("saving best stage for %s: %s", playerID, err))
			return err
		}
	}

	l.logger.Info(fmt.Sprintf("New best stage: player=%s stage=%d", playerID, stage))
	return nil
}

// Top returns up to n ranked entries. A non-positive n uses the default limit.
func (l *Leaderboard) Top(ctx context.Context, n int) ([]dmn.LeaderboardEntry, error) {
	if n <= 0 {
		n = l.opts.DefaultLimit
	}
	if n > l.opts.MaxLimit {
		n = l.opts.MaxLimit
	}

	members, err := l.store.Top(ctx, l.key(), int64(n))
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m.Member)
		if err != nil {
			l.logger.Warning(fmt.Sprintf("Non-UUID value in leaderboard: %s", m.Member))
			continue
		}

		entry := dmn.LeaderboardEntry{
			Rank:     len(entries) + 1,
			PlayerID: id,
			Stage:    int(m.Score),
		}
		if user, err := l.userRepo.ByID(id); err == nil {
			entry.Username = user.Username
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (l *Leaderboard) key() string {
	return fmt.Sprintf(leaderboardKeyFmt, l.opts.Prefix)
}
