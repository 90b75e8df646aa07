package pledges

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/p2p-pledge-backend/internal/shared/db/testutil"
)

func TestPostgres_Pledges(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewPostgres(testDB.DB)
	ctx := context.Background()

	seed := []NewPledge{
		{Username: "alice", Phone: "+1", Selection: SelectionHome, Amount: decimal.NewFromInt(50), HomeTeam: "A", AwayTeam: "B"},
		{Username: "bob", Phone: "+2", Selection: SelectionAway, Amount: decimal.NewFromInt(30), HomeTeam: "A", AwayTeam: "B"},
		{Username: "alice", Phone: "+1", Selection: SelectionDraw, Amount: decimal.RequireFromString("10.50"), HomeTeam: "C", AwayTeam: "D"},
	}
	var created []*Pledge
	for _, n := range seed {
		pl, err := repo.Create(ctx, n)
		require.NoError(t, err)
		created = append(created, pl)
	}

	t.Run("create returns stored row", func(t *testing.T) {
		assert.NotZero(t, created[0].ID)
		assert.True(t, created[2].Amount.Equal(decimal.RequireFromString("10.50")))
		assert.False(t, created[0].CreatedAt.IsZero())
	})

	t.Run("list with filters", func(t *testing.T) {
		alice := "alice"
		all, err := repo.List(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
		assert.Equal(t, created[2].ID, all[0].ID, "newest first")

		byAlice, err := repo.List(ctx, Filter{Username: &alice})
		require.NoError(t, err)
		assert.Len(t, byAlice, 2)

		home, away := "A", "B"
		byMatch, err := repo.List(ctx, Filter{HomeTeam: &home, AwayTeam: &away})
		require.NoError(t, err)
		assert.Len(t, byMatch, 2)
	})

	t.Run("by user and recent", func(t *testing.T) {
		bob, err := repo.ByUser(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, bob, 1)
		assert.Equal(t, SelectionAway, bob[0].Selection)

		recent, err := repo.Recent(ctx)
		require.NoError(t, err)
		assert.Len(t, recent, 3)
	})

	t.Run("stats on a snapshot", func(t *testing.T) {
		agg := NewAggregator(zap.NewNop(), repo, nil)

		st, err := agg.Stats(ctx, "A", "B")
		require.NoError(t, err)
		assert.Equal(t, int64(2), st.TotalPledges)
		assert.True(t, st.TotalAmount.Equal(decimal.NewFromInt(80)))
		assert.Equal(t, Breakdown{HomeTeam: 1, AwayTeam: 1}, st.Breakdown)

		empty, err := agg.Stats(ctx, "X", "Y")
		require.NoError(t, err)
		assert.Zero(t, empty.TotalPledges)
		assert.True(t, empty.TotalAmount.IsZero())
	})
}

func TestPostgres_AmountRoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewPostgres(testDB.DB)
	ctx := context.Background()

	for i, raw := range []string{"0.01", "12.34", "9999999999999999.99"} {
		in := NewPledge{
			Username:  "amount-" + raw,
			Phone:     "+9" + string(rune('0'+i)),
			Selection: SelectionHome,
			Amount:    decimal.RequireFromString(raw),
			HomeTeam:  "A",
			AwayTeam:  "B",
		}
		require.NoError(t, Validate(in), raw)

		pl, err := repo.Create(ctx, in)
		require.NoError(t, err, raw)
		assert.True(t, pl.Amount.Equal(in.Amount), "returned %s, want %s", pl.Amount, raw)

		stored, err := repo.ByUser(ctx, in.Username)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.True(t, stored[0].Amount.Equal(in.Amount), "stored %s, want %s", stored[0].Amount, raw)
	}
}
