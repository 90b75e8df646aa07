package pledges

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/radieske/p2p-pledge-backend/pkg/contracts/events"
)

// memStore implementa Repo, StatsStore e AggregateReader em memória
type memStore struct {
	mu      sync.Mutex
	pledges []Pledge
	nextID  int64
	creates int
}

func (s *memStore) Create(_ context.Context, n NewPledge) (*Pledge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	s.nextID++
	now := time.Now().Add(time.Duration(s.nextID) * time.Millisecond)
	pl := Pledge{
		ID: s.nextID, Username: n.Username, Phone: n.Phone, Selection: n.Selection, Amount: n.Amount,
		Time: now, Fan: n.Fan, HomeTeam: n.HomeTeam, AwayTeam: n.AwayTeam, CreatedAt: now, UpdatedAt: now,
	}
	s.pledges = append(s.pledges, pl)
	return &pl, nil
}

func (s *memStore) List(_ context.Context, f Filter) ([]Pledge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Pledge{}
	for _, p := range s.pledges {
		if (f.Username != nil && p.Username != *f.Username) ||
			(f.Phone != nil && p.Phone != *f.Phone) ||
			(f.HomeTeam != nil && p.HomeTeam != *f.HomeTeam) ||
			(f.AwayTeam != nil && p.AwayTeam != *f.AwayTeam) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memStore) ByUser(ctx context.Context, username string) ([]Pledge, error) {
	return s.List(ctx, Filter{Username: &username})
}

func (s *memStore) Recent(ctx context.Context) ([]Pledge, error) {
	all, _ := s.List(ctx, Filter{})
	if len(all) > RecentLimit {
		all = all[:RecentLimit]
	}
	return all, nil
}

func (s *memStore) ReadSnapshot(_ context.Context, fn func(AggregateReader) error) error {
	return fn(s)
}

func (s *memStore) match(m Match, keep func(Pledge) bool) []Pledge {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Pledge
	for _, p := range s.pledges {
		if p.HomeTeam == m.HomeTeam && p.AwayTeam == m.AwayTeam && keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) CountPledges(_ context.Context, m Match) (int64, error) {
	return int64(len(s.match(m, func(Pledge) bool { return true }))), nil
}

func (s *memStore) SumAmount(_ context.Context, m Match) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range s.match(m, func(Pledge) bool { return true }) {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}

func (s *memStore) CountBySelection(_ context.Context, m Match, sel Selection) (int64, error) {
	return int64(len(s.match(m, func(p Pledge) bool { return p.Selection == sel }))), nil
}

// memCache implementa StatsCache
type memCache struct {
	mu          sync.Mutex
	items       map[Match]MatchStats
	invalidated []Match
}

func newMemCache() *memCache { return &memCache{items: map[Match]MatchStats{}} }

func (c *memCache) Get(_ context.Context, m Match) (*MatchStats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.items[m]
	if !ok {
		return nil, false, nil
	}
	return &st, true, nil
}

func (c *memCache) Set(_ context.Context, m Match, st MatchStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[m] = st
	return nil
}

func (c *memCache) Invalidate(_ context.Context, m Match) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, m)
	c.invalidated = append(c.invalidated, m)
	return nil
}

// mockPublisher é um Publisher com testify/mock
type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishPledgeCreated(ctx context.Context, e events.PledgeCreated) error {
	return m.Called(ctx, e).Error(0)
}
