package repository

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

// CatalogRepository reads ingredient and tag reference data. The catalog is
// never written through this interface; imports go through cmd/seed.
type CatalogRepository interface {
	ListTags(ctx context.Context) ([]entity.Tag, error)
	GetTag(ctx context.Context, id int64) (*entity.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []int64) ([]entity.Tag, error)

	// ListIngredients filters by case-insensitive name prefix when namePrefix
	// is non-empty, ordered by name.
	ListIngredients(ctx context.Context, namePrefix string) ([]entity.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*entity.Ingredient, error)
	GetIngredientsByIDs(ctx context.Context, ids []int64) ([]entity.Ingredient, error)
}
