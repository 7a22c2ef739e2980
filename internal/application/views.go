package application

// Read-side projections returned to the HTTP layer. Every viewer-relative
// field is computed from an explicit viewer id; an anonymous viewer is a nil
// pointer, never a sentinel user.

type UserView struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

type TagView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type IngredientView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientInRecipeView is one line item joined with its ingredient's
// display identity.
type IngredientInRecipeView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeView struct {
	ID               int64                    `json:"id"`
	Tags             []TagView                `json:"tags"`
	Author           UserView                 `json:"author"`
	Ingredients      []IngredientInRecipeView `json:"ingredients"`
	IsFavorited      bool                     `json:"is_favorited"`
	IsInShoppingCart bool                     `json:"is_in_shopping_cart"`
	Name             string                   `json:"name"`
	Image            string                   `json:"image"`
	Text             string                   `json:"text"`
	CookingTime      int                      `json:"cooking_time"`
}

// RecipeShortView is the compact projection used by membership add
// responses and subscription recipe previews.
type RecipeShortView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// SubscribedAuthorView is an author in a subscription listing, annotated
// with the live recipe count and a capped recipe preview.
type SubscribedAuthorView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int               `json:"recipes_count"`
}
