package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

func newShoppingFixture(t *testing.T) (*ShoppingListService, *memRecipes, *memMemberships, *memCatalog) {
	t.Helper()
	catalog := newMemCatalog()
	catalog.ingredients[1] = entity.Ingredient{ID: 1, Name: "flour", MeasurementUnit: "g"}
	catalog.ingredients[2] = entity.Ingredient{ID: 2, Name: "milk", MeasurementUnit: "ml"}
	catalog.ingredients[3] = entity.Ingredient{ID: 3, Name: "flour", MeasurementUnit: "kg"}
	recipes := newMemRecipes()
	memberships := newMemMemberships(recipes, catalog)
	return &ShoppingListService{Memberships: memberships}, recipes, memberships, catalog
}

func addCartRecipe(t *testing.T, recipes *memRecipes, memberships *memMemberships, userID string, items ...entity.LineItem) {
	t.Helper()
	ctx := context.Background()
	r := &entity.Recipe{AuthorID: "author-1", Name: "r", LineItems: items, CookingTime: 5}
	require.NoError(t, recipes.Create(ctx, r))
	_, err := memberships.Add(ctx, entity.MembershipCart, userID, r.ID)
	require.NoError(t, err)
}

func TestShoppingListAggregatesAcrossRecipes(t *testing.T) {
	svc, recipes, memberships, _ := newShoppingFixture(t)

	addCartRecipe(t, recipes, memberships, "user-1",
		entity.LineItem{IngredientID: 1, Amount: 200},
		entity.LineItem{IngredientID: 2, Amount: 100})
	addCartRecipe(t, recipes, memberships, "user-1",
		entity.LineItem{IngredientID: 1, Amount: 300})

	out, err := svc.Export(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Shopping list:\nflour (g) - 500\nmilk (ml) - 100\n", out)
}

func TestShoppingListGroupsByNameAndUnit(t *testing.T) {
	svc, recipes, memberships, _ := newShoppingFixture(t)

	// Same name, different unit: two separate lines, never summed.
	addCartRecipe(t, recipes, memberships, "user-1",
		entity.LineItem{IngredientID: 1, Amount: 500},
		entity.LineItem{IngredientID: 3, Amount: 2})

	out, err := svc.Export(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Shopping list:\nflour (g) - 500\nflour (kg) - 2\n", out)
}

func TestShoppingListEmptyCart(t *testing.T) {
	svc, _, _, _ := newShoppingFixture(t)

	out, err := svc.Export(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n", out)
}

func TestShoppingListIsPerUser(t *testing.T) {
	svc, recipes, memberships, _ := newShoppingFixture(t)

	addCartRecipe(t, recipes, memberships, "user-1", entity.LineItem{IngredientID: 2, Amount: 250})

	out, err := svc.Export(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n", out)
}
