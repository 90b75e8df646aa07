package posts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/p2p-pledge-backend/internal/shared/db/testutil"
	"github.com/radieske/p2p-pledge-backend/internal/shared/errs"
)

func TestPostgres_Posts(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewPostgres(testDB.DB)
	ctx := context.Background()

	newPost := func(userID string) *Post {
		id := uuid.NewString()
		return &Post{
			ID:        id,
			UserID:    userID,
			UserName:  "name-" + userID,
			Caption:   "caption",
			ImageURL:  DefaultURLPrefix + id + ".png",
			ImagePath: "uploads/images/" + id + ".png",
		}
	}

	p1, p2, p3 := newPost("u1"), newPost("u2"), newPost("u1")
	for _, p := range []*Post{p1, p2, p3} {
		require.NoError(t, repo.Insert(ctx, p))
		assert.False(t, p.CreatedAt.IsZero())
	}

	got, err := repo.Get(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ImagePath, got.ImagePath)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, p3.ID, all[0].ID)

	mine, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := repo.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, repo.UpdateCaption(ctx, p2.ID, "edited"))
	got, err = repo.Get(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Caption)

	missing := uuid.NewString()
	assert.ErrorIs(t, repo.UpdateCaption(ctx, missing, "x"), errs.ErrNotFound)
	_, err = repo.Get(ctx, missing)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, p1.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p1.ID), errs.ErrNotFound)
}
