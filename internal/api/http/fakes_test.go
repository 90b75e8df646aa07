package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/radieske/p2p-pledge-backend/internal/auth"
	"github.com/radieske/p2p-pledge-backend/internal/games"
	"github.com/radieske/p2p-pledge-backend/internal/pledges"
	"github.com/radieske/p2p-pledge-backend/internal/posts"
	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

// fakeAuth aceita somente alice/secret123 e assina tokens de verdade
type fakeAuth struct {
	tokens *auth.Tokens
}

var alice = auth.Summary{ID: 1, Username: "alice", Phone: "+15550001"}

func (f *fakeAuth) Register(_ context.Context, username, phone, password string) (auth.Summary, string, error) {
	if username == "" || phone == "" || password == "" {
		return auth.Summary{}, "", errs.Invalid(errs.ErrInvalidRequest, "missing fields")
	}
	if username == alice.Username {
		return auth.Summary{}, "", errs.ErrConflict
	}
	u := auth.Summary{ID: 2, Username: username, Phone: phone}
	tok, err := f.tokens.Issue(u)
	return u, tok, err
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (auth.Summary, string, error) {
	if username != alice.Username || password != "secret123" {
		return auth.Summary{}, "", errs.ErrUnauthorized
	}
	tok, err := f.tokens.Issue(alice)
	return alice, tok, err
}

func (f *fakeAuth) LoginWithPhone(ctx context.Context, phone, password string) (auth.Summary, string, error) {
	if phone != alice.Phone {
		return auth.Summary{}, "", errs.ErrUnauthorized
	}
	return f.Login(ctx, alice.Username, password)
}

func (f *fakeAuth) VerifyToken(token string) (*auth.Claims, error) {
	return f.tokens.Verify(token)
}

type mockPledges struct{ mock.Mock }

func (m *mockPledges) Create(ctx context.Context, n pledges.NewPledge) (*pledges.Pledge, error) {
	args := m.Called(ctx, n)
	p, _ := args.Get(0).(*pledges.Pledge)
	return p, args.Error(1)
}

func (m *mockPledges) List(ctx context.Context, f pledges.Filter) ([]pledges.Pledge, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]pledges.Pledge)
	return l, args.Error(1)
}

func (m *mockPledges) ByUser(ctx context.Context, username string) ([]pledges.Pledge, error) {
	args := m.Called(ctx, username)
	l, _ := args.Get(0).([]pledges.Pledge)
	return l, args.Error(1)
}

func (m *mockPledges) Recent(ctx context.Context) ([]pledges.Pledge, error) {
	args := m.Called(ctx)
	l, _ := args.Get(0).([]pledges.Pledge)
	return l, args.Error(1)
}

func (m *mockPledges) Stats(ctx context.Context, homeTeam, awayTeam string) (pledges.MatchStats, error) {
	args := m.Called(ctx, homeTeam, awayTeam)
	st, _ := args.Get(0).(pledges.MatchStats)
	return st, args.Error(1)
}

type mockGames struct{ mock.Mock }

func (m *mockGames) List(ctx context.Context, f games.Filter) ([]games.Game, error) {
	args := m.Called(ctx, f)
	l, _ := args.Get(0).([]games.Game)
	return l, args.Error(1)
}

func (m *mockGames) Create(ctx context.Context, n games.NewGame) (*games.Game, error) {
	args := m.Called(ctx, n)
	g, _ := args.Get(0).(*games.Game)
	return g, args.Error(1)
}

// postRows é o repo em memória usado com o Pipeline real
type postRows struct {
	mu   sync.Mutex
	rows map[string]posts.Post
}

func newPostRows() *postRows { return &postRows{rows: map[string]posts.Post{}} }

func (r *postRows) Insert(_ context.Context, p *posts.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	r.rows[p.ID] = *p
	return nil
}

func (r *postRows) Get(_ context.Context, id string) (*posts.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, errs.ErrPostNotFound
	}
	return &p, nil
}

func (r *postRows) List(_ context.Context) ([]posts.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []posts.Post{}
	for _, p := range r.rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *postRows) ListByUser(ctx context.Context, userID string) ([]posts.Post, error) {
	all, _ := r.List(ctx)
	out := []posts.Post{}
	for _, p := range all {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *postRows) UpdateCaption(_ context.Context, id, caption string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return errs.ErrPostNotFound
	}
	p.Caption = caption
	r.rows[id] = p
	return nil
}

func (r *postRows) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return errs.ErrPostNotFound
	}
	delete(r.rows, id)
	return nil
}
