package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dcode-github/gharbari/backend/errs"
	"github.com/dcode-github/gharbari/backend/services"
)

func TestFavorites(t *testing.T) {
	f := newPropertyFixture(t)
	svc := services.NewFavoriteService(f.mem.Stores())
	ctx := context.Background()
	user := primitive.NewObjectID().Hex()

	first := f.seed(t, listing("First", 100))
	second := f.seed(t, listing("Second", 200))

	_, err := svc.Add(ctx, user, first.ID.Hex())
	require.NoError(t, err)
	_, err = svc.Add(ctx, user, second.ID.Hex())
	require.NoError(t, err)

	_, err = svc.Add(ctx, user, first.ID.Hex())
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, "Already in favorites", errs.MessageOf(err))

	_, err = svc.Add(ctx, user, primitive.NewObjectID().Hex())
	assert.True(t, errs.IsNotFound(err))

	favs, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	for _, fav := range favs {
		require.NotNil(t, fav.Property)
	}

	require.NoError(t, svc.Remove(ctx, user, first.ID.Hex()))
	require.NoError(t, svc.Remove(ctx, user, first.ID.Hex()), "removing a missing favorite is a no-op")

	favs, err = svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, second.ID, favs[0].Property.ID)

	empty, err := svc.List(ctx, primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
