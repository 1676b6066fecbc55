package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/torchmaze/domain"
	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/google/uuid"
)

var errNotFound = errors.New("not found")

type fakeUserRepo struct {
	sync.Mutex
	users map[uuid.UUID]*dmn.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*dmn.User)}
}

func (f *fakeUserRepo) Save(user *dmn.User) error {
	f.Lock()
	defer f.Unlock()
	for id, u := range f.users {
		if u.Username == user.Username && id != user.ID {
			return dmn.ErrUsernameTaken
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	f.Lock()
	defer f.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) ByUsername(username string) (*dmn.User, error) {
	f.Lock()
	defer f.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errNotFound
}

type fakeRunRepo struct {
	sync.Mutex
	runs []*dmn.Run
}

func (f *fakeRunRepo) Save(run *dmn.Run) error {
	f.Lock()
	defer f.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) ByPlayer(playerID uuid.UUID, limit int) ([]*dmn.Run, error) {
	f.Lock()
	defer f.Unlock()
	var runs []*dmn.Run
	for _, r := range f.runs {
		if r.PlayerID == playerID {
			runs = append(runs, r)
		}
	}
	return runs, nil
}

func (f *fakeRunRepo) outcomes() []dmn.Outcome {
	f.Lock()
	defer f.Unlock()
	var out []dmn.Outcome
	for _, r := range f.runs {
		out = append(out, r.Outcome)
	}
	return out
}

type fakeSortedStore struct {
	sync.Mutex
	sets map[string]map[string]float64
	err  error
}

func newFakeSortedStore() *fakeSortedStore {
	return &fakeSortedStore{sets: make(map[string]map[string]float64)}
}

func (f *fakeSortedStore) SubmitMax(_ context.Context, key, member string, score float64) (bool, error) {
	f.Lock()
	defer f.Unlock()
	if f.err != nil {
		return false, f.err
	}
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]float64)
		f.sets[key] = set
	}
	if current, ok := set[member]; ok && current >= score {
		return false, nil
	}
	set[member] = score
	return true, nil
}

func (f *fakeSortedStore) Top(_ context.Context, key string, n int64) ([]i.ScoredMember, error) {
	f.Lock()
	defer f.Unlock()
	var members []i.ScoredMember
	for m, s := range f.sets[key] {
		members = append(members, i.ScoredMember{Member: m, Score: s})
	}
	sort.Slice(members, func(a, b int) bool { return members[a].Score > members[b].Score })
	if int64(len(members)) > n {
		members = members[:n]
	}
	return members, nil
}

type recordedStage struct {
	playerID uuid.UUID
	stage    int
}

type fakeLeaderboard struct {
	sync.Mutex
	records []recordedStage
	block   chan struct{} // Record waits on it when set.
}

func (f *fakeLeaderboard) Record(_ context.Context, playerID uuid.UUID, stage int) error {
	if f.block != nil {
		<-f.block
	}
	f.Lock()
	defer f.Unlock()
	f.records = append(f.records, recordedStage{playerID: playerID, stage: stage})
	return nil
}

func (f *fakeLeaderboard) Top(context.Context, int) ([]dmn.LeaderboardEntry, error) {
	return nil, nil
}

func (f *fakeLeaderboard) recorded() []recordedStage {
	f.Lock()
	defer f.Unlock()
	return append([]recordedStage(nil), f.records...)
}

type fakeTokenizer struct {
	claims map[string]interface{}
	ttl    time.Duration
}

func (f *fakeTokenizer) Generate(claims map[string]interface{}, ttl time.Duration) (string, error) {
	f.claims, f.ttl = claims, ttl
	return "signed-token", nil
}

func (f *fakeTokenizer) Decode(string) (map[string]interface{}, error) {
	return f.claims, nil
}
