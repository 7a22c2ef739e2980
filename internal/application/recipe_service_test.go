package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

type recipeFixture struct {
	users       *memUsers
	catalog     *memCatalog
	recipes     *memRecipes
	memberships *memMemberships
	subs        *memSubscriptions
	images      *fakeImageStore
	svc         *RecipeService
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	users := newMemUsers()
	users.add(entity.User{ID: "author-1", Email: "a@x.io", Username: "chef"})
	users.add(entity.User{ID: "viewer-1", Email: "v@x.io", Username: "viewer"})

	catalog := newMemCatalog()
	catalog.ingredients[1] = entity.Ingredient{ID: 1, Name: "flour", MeasurementUnit: "g"}
	catalog.ingredients[2] = entity.Ingredient{ID: 2, Name: "egg", MeasurementUnit: "pcs"}
	catalog.tags[10] = entity.Tag{ID: 10, Name: "Breakfast", Slug: "breakfast"}
	catalog.tags[11] = entity.Tag{ID: 11, Name: "Dinner", Slug: "dinner"}

	recipes := newMemRecipes()
	memberships := newMemMemberships(recipes, catalog)
	subs := newMemSubscriptions(users)
	images := &fakeImageStore{}

	return &recipeFixture{
		users:       users,
		catalog:     catalog,
		recipes:     recipes,
		memberships: memberships,
		subs:        subs,
		images:      images,
		svc: &RecipeService{
			Recipes:     recipes,
			Catalog:     catalog,
			Users:       users,
			Memberships: memberships,
			Subs:        subs,
			Images:      images,
			BaseURL:     "https://foodgram.test",
		},
	}
}

func validDraft() RecipeDraft {
	return RecipeDraft{
		Name:        "Pancakes",
		Image:       tinyPNG,
		Description: "Mix and fry.",
		CookingTime: 15,
		TagIDs:      []int64{10},
		Ingredients: []DraftIngredient{{ID: 1, Amount: 200}, {ID: 2, Amount: 2}},
	}
}

func TestRecipeCreate(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	view, err := fx.svc.Create(ctx, "author-1", validDraft())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", view.Name)
	assert.Equal(t, "chef", view.Author.Username)
	assert.False(t, view.Author.IsSubscribed)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "flour", view.Ingredients[0].Name)
	assert.Equal(t, "g", view.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 200, view.Ingredients[0].Amount)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "breakfast", view.Tags[0].Slug)
	assert.Contains(t, view.Image, "https://img.test/recipes/")
}

func TestRecipeCreateValidation(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RecipeDraft)
		field  string
	}{
		{"missing image", func(d *RecipeDraft) { d.Image = "" }, "image"},
		{"name too long", func(d *RecipeDraft) {
			n := make([]byte, 257)
			for i := range n {
				n[i] = 'x'
			}
			d.Name = string(n)
		}, "name"},
		{"no ingredients", func(d *RecipeDraft) { d.Ingredients = nil }, "ingredients"},
		{"no tags", func(d *RecipeDraft) { d.TagIDs = nil }, "tags"},
		{"duplicate tags", func(d *RecipeDraft) { d.TagIDs = []int64{10, 10} }, "tags"},
		{"unknown tag", func(d *RecipeDraft) { d.TagIDs = []int64{999} }, "tags"},
		{"duplicate ingredients", func(d *RecipeDraft) {
			d.Ingredients = []DraftIngredient{{ID: 1, Amount: 1}, {ID: 1, Amount: 2}}
		}, "ingredients"},
		{"unknown ingredient", func(d *RecipeDraft) {
			d.Ingredients = []DraftIngredient{{ID: 999, Amount: 1}}
		}, "ingredients"},
		{"zero amount", func(d *RecipeDraft) {
			d.Ingredients = []DraftIngredient{{ID: 1, Amount: 0}}
		}, "ingredients"},
		{"zero cooking time", func(d *RecipeDraft) { d.CookingTime = 0 }, "cooking_time"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			_, err := fx.svc.Create(ctx, "author-1", d)
			ve, ok := apperr.AsValidation(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, tc.field)
		})
	}

	// Nothing persisted across all the rejected drafts.
	_, total, err := fx.svc.List(ctx, ListParams{Limit: 10}, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestRecipeUpdateReplacesComposition(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "author-1", validDraft())
	require.NoError(t, err)

	upd := validDraft()
	upd.Name = "Crepes"
	upd.Image = created.Image // resubmitting the stored URL keeps it
	upd.TagIDs = []int64{11}
	upd.Ingredients = []DraftIngredient{{ID: 2, Amount: 3}}

	view, err := fx.svc.Update(ctx, created.ID, "author-1", upd)
	require.NoError(t, err)

	assert.Equal(t, "Crepes", view.Name)
	require.Len(t, view.Ingredients, 1)
	assert.Equal(t, "egg", view.Ingredients[0].Name)
	assert.Equal(t, 3, view.Ingredients[0].Amount)
	require.Len(t, view.Tags, 1)
	assert.Equal(t, "dinner", view.Tags[0].Slug)

	// Old line items are gone, not merged.
	stored, err := fx.recipes.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, stored.LineItems, 1)
	assert.Equal(t, int64(2), stored.LineItems[0].IngredientID)
}

func TestRecipeUpdateForbiddenForNonAuthor(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "author-1", validDraft())
	require.NoError(t, err)

	_, err = fx.svc.Update(ctx, created.ID, "viewer-1", validDraft())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = fx.svc.Delete(ctx, created.ID, "viewer-1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestRecipeDeleteCascades(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "author-1", validDraft())
	require.NoError(t, err)

	_, err = fx.memberships.Add(ctx, entity.MembershipFavorite, "viewer-1", created.ID)
	require.NoError(t, err)

	require.NoError(t, fx.svc.Delete(ctx, created.ID, "author-1"))

	_, err = fx.svc.Get(ctx, created.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecipeViewerFlags(t *testing.T) {
	fx := newRecipeFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Create(ctx, "author-1", validDraft())
	require.NoError(t, err)

	viewer := "viewer-1"
	_, err = fx.memberships.Add(ctx, entity.MembershipFavorite, viewer, created.ID)
	require.NoError(t, err)
	_, err = fx.subs.Add(ctx, viewer, "author-1")
	require.NoError(t, err)

	view, err := fx.svc.Get(ctx, created.ID, &viewer)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.True(t, view.Author.IsSubscribed)

	// Anonymous viewers see all flags false.
	anon, err := fx.svc.Get(ctx, created.ID, nil)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)
}

func TestRecipeShortLink(t *testing.T) {
	fx := newRecipeFixture(t)
	assert.Equal(t, "https://foodgram.test/s/42", fx.svc.ShortLink(42))
}
