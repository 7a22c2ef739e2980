package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

func newMembershipFixture(t *testing.T) (*MembershipService, *memRecipes) {
	t.Helper()
	recipes := newMemRecipes()
	catalog := newMemCatalog()
	return &MembershipService{
		Memberships: newMemMemberships(recipes, catalog),
		Recipes:     recipes,
	}, recipes
}

func seedRecipe(t *testing.T, recipes *memRecipes) int64 {
	t.Helper()
	r := &entity.Recipe{AuthorID: "author-1", Name: "Soup", ImageURL: "https://img.test/soup.png", CookingTime: 30}
	require.NoError(t, recipes.Create(context.Background(), r))
	return r.ID
}

func TestMembershipAdd(t *testing.T) {
	svc, recipes := newMembershipFixture(t)
	ctx := context.Background()
	id := seedRecipe(t, recipes)

	for _, kind := range []entity.MembershipKind{entity.MembershipFavorite, entity.MembershipCart} {
		view, err := svc.Add(ctx, kind, "user-1", id)
		require.NoError(t, err)
		assert.Equal(t, id, view.ID)
		assert.Equal(t, "Soup", view.Name)
		assert.Equal(t, 30, view.CookingTime)
	}
}

func TestMembershipAddDuplicateConflicts(t *testing.T) {
	svc, recipes := newMembershipFixture(t)
	ctx := context.Background()
	id := seedRecipe(t, recipes)

	_, err := svc.Add(ctx, entity.MembershipFavorite, "user-1", id)
	require.NoError(t, err)

	_, err = svc.Add(ctx, entity.MembershipFavorite, "user-1", id)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Same recipe in the other set is fine; the sets are independent.
	_, err = svc.Add(ctx, entity.MembershipCart, "user-1", id)
	assert.NoError(t, err)
}

func TestMembershipAddMissingRecipe(t *testing.T) {
	svc, _ := newMembershipFixture(t)
	_, err := svc.Add(context.Background(), entity.MembershipFavorite, "user-1", 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMembershipRemove(t *testing.T) {
	svc, recipes := newMembershipFixture(t)
	ctx := context.Background()
	id := seedRecipe(t, recipes)

	_, err := svc.Add(ctx, entity.MembershipCart, "user-1", id)
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, entity.MembershipCart, "user-1", id))

	in, err := svc.Contains(ctx, entity.MembershipCart, "user-1", id)
	require.NoError(t, err)
	assert.False(t, in)
}

func TestMembershipRemoveAbsent(t *testing.T) {
	svc, recipes := newMembershipFixture(t)
	ctx := context.Background()
	id := seedRecipe(t, recipes)

	// The recipe exists but is not in the set: a 400-class error, not 404.
	err := svc.Remove(ctx, entity.MembershipFavorite, "user-1", id)
	assert.ErrorIs(t, err, apperr.ErrNotInSet)

	err = svc.Remove(ctx, entity.MembershipFavorite, "user-1", 404)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
