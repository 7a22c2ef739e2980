package application

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
)

// MembershipService manages the per-user recipe sets: favorites and the
// shopping cart. Both kinds share the same semantics, only the backing
// table differs.
type MembershipService struct {
	Memberships repo.MembershipRepository
	Recipes     repo.RecipeRepository
}

// Add puts the recipe into the user's set and returns the compact
// projection. Adding a recipe already in the set is a conflict, adding a
// nonexistent recipe is not found.
func (s *MembershipService) Add(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (*RecipeShortView, error) {
	rec, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	inserted, err := s.Memberships.Add(ctx, kind, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, apperr.ErrConflict
	}
	return &RecipeShortView{
		ID:          rec.ID,
		Name:        rec.Name,
		Image:       rec.ImageURL,
		CookingTime: rec.CookingTime,
	}, nil
}

// Remove takes the recipe out of the user's set. Removing a recipe that is
// not in the set fails with ErrNotInSet, which is distinct from the recipe
// itself being missing.
func (s *MembershipService) Remove(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) error {
	if _, err := s.Recipes.GetByID(ctx, recipeID); err != nil {
		return err
	}
	removed, err := s.Memberships.Remove(ctx, kind, userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrNotInSet
	}
	return nil
}

// Contains reports set membership without side effects.
func (s *MembershipService) Contains(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error) {
	return s.Memberships.Contains(ctx, kind, userID, recipeID)
}
