package entity

import "time"

// Recipe with its line items and tag links. Line items exist only as part
// of a recipe; replacing the composition is always delete-all, insert-all.
type Recipe struct {
	ID          int64
	AuthorID    string
	Name        string
	ImageURL    string
	Description string
	CookingTime int // minutes
	TagIDs      []int64
	LineItems   []LineItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem is one (ingredient, amount) pairing within a recipe.
// Unique per (recipe, ingredient).
type LineItem struct {
	IngredientID int64
	Amount       int
}

// CartLine is a joined row used by the shopping-list aggregation:
// one line item of one cart recipe together with its ingredient identity.
type CartLine struct {
	IngredientName  string
	MeasurementUnit string
	Amount          int
}
