package repository

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

// RecipeFilter narrows recipe listings. Zero values mean "no filter".
type RecipeFilter struct {
	AuthorID    string
	TagSlugs    []string
	FavoritedBy string // user id whose favorites to intersect with
	InCartOf    string // user id whose cart to intersect with
}

// RecipeRepository persists recipes together with their line items and tag
// links. Create, Replace, and Delete are atomic: every row lands or none.
type RecipeRepository interface {
	Create(ctx context.Context, r *entity.Recipe) error
	// Replace rewrites the recipe row and swaps the full line-item and tag
	// sets (delete-then-bulk-insert) in one transaction.
	Replace(ctx context.Context, r *entity.Recipe) error
	// Delete removes the recipe and cascades to line items, tag links,
	// favorites, and cart entries in the same transaction.
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*entity.Recipe, error)
	List(ctx context.Context, f RecipeFilter, limit, offset int) ([]entity.Recipe, int, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]entity.Recipe, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
}
