package entity

// Ingredient is immutable reference data; recipes only point at it.
type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}

// Tag is immutable reference data used to categorize recipes.
type Tag struct {
	ID   int64
	Name string
	Slug string
}
