package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

func newSubscriptionFixture(t *testing.T) (*SubscriptionService, *memUsers, *memRecipes) {
	t.Helper()
	users := newMemUsers()
	users.add(entity.User{ID: "reader", Email: "r@x.io", Username: "reader"})
	users.add(entity.User{ID: "writer", Email: "w@x.io", Username: "writer"})
	recipes := newMemRecipes()
	subs := newMemSubscriptions(users)
	return &SubscriptionService{Subs: subs, Users: users, Recipes: recipes}, users, recipes
}

func seedAuthorRecipes(t *testing.T, recipes *memRecipes, authorID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		r := &entity.Recipe{AuthorID: authorID, Name: "dish", CookingTime: 10}
		require.NoError(t, recipes.Create(context.Background(), r))
	}
}

func TestSubscribe(t *testing.T) {
	svc, _, recipes := newSubscriptionFixture(t)
	ctx := context.Background()
	seedAuthorRecipes(t, recipes, "writer", 3)

	view, err := svc.Subscribe(ctx, "reader", "writer", 2)
	require.NoError(t, err)

	assert.Equal(t, "writer", view.Username)
	assert.True(t, view.IsSubscribed)
	assert.Equal(t, 3, view.RecipesCount)
	assert.Len(t, view.Recipes, 2, "preview capped by recipes_limit")
}

func TestSubscribeToSelf(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)

	_, err := svc.Subscribe(context.Background(), "reader", "reader", 0)
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "author")
}

func TestSubscribeDuplicateConflicts(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "reader", "writer", 0)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, "reader", "writer", 0)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestSubscribeMissingAuthor(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)
	_, err := svc.Subscribe(context.Background(), "reader", "ghost", 0)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	svc, _, _ := newSubscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "reader", "writer", 0)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, "reader", "writer"))

	// The edge is gone, so a second unsubscribe is a set error.
	err = svc.Unsubscribe(ctx, "reader", "writer")
	assert.ErrorIs(t, err, apperr.ErrNotInSet)
}

func TestListSubscriptionsLiveCount(t *testing.T) {
	svc, _, recipes := newSubscriptionFixture(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "reader", "writer", 0)
	require.NoError(t, err)

	views, total, err := svc.ListSubscriptions(ctx, "reader", 10, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, views, 1)
	assert.Equal(t, 0, views[0].RecipesCount)

	// Count is read live, so a publish after subscribing shows up.
	seedAuthorRecipes(t, recipes, "writer", 2)
	views, _, err = svc.ListSubscriptions(ctx, "reader", 10, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, views[0].RecipesCount)
}
