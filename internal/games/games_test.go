package games

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) List(ctx context.Context, f Filter) ([]Game, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]Game), args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, n NewGame) (*Game, error) {
	args := m.Called(ctx, n)
	g, _ := args.Get(0).(*Game)
	return g, args.Error(1)
}

func TestListQuery(t *testing.T) {
	q, args := ListQuery(Filter{})
	assert.Equal(t, "SELECT "+gameColumns+" FROM games WHERE 1=1 ORDER BY created_at DESC, id DESC", q)
	assert.Empty(t, args)

	status, league := "Upcoming", "EPL"
	q, args = ListQuery(Filter{Status: &status, League: &league})
	assert.Contains(t, q, "WHERE 1=1 AND status = $1 AND league = $2 ORDER BY")
	assert.Equal(t, []any{"Upcoming", "EPL"}, args)

	q, args = ListQuery(Filter{League: &league})
	assert.Contains(t, q, "AND league = $1")
	assert.NotContains(t, q, "status =")
	assert.Equal(t, []any{"EPL"}, args)
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepo)
	svc := NewService(zap.NewNop(), repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, NewGame{HomeTeam: "A", AwayTeam: "B"})
	assert.ErrorIs(t, err, errs.ErrInvalidRequest)

	n := NewGame{HomeTeam: "A", AwayTeam: "B", League: "EPL", Date: "2025-01-01"}
	repo.On("Create", ctx, n).Return(&Game{ID: 7, HomeTeam: "A", AwayTeam: "B", League: "EPL", Status: StatusUpcoming}, nil).Once()

	g, err := svc.Create(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, int64(7), g.ID)
	assert.Equal(t, StatusUpcoming, g.Status)
	repo.AssertExpectations(t)
}
