package repository

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

// MembershipRepository backs the per-user recipe sets (favorites, cart).
// Add and Remove report whether a row was actually inserted or deleted so
// the caller can surface duplicate/absent conditions; the store's unique
// constraint is the only concurrency guard.
type MembershipRepository interface {
	Add(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error)
	Remove(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error)
	Contains(ctx context.Context, kind entity.MembershipKind, userID string, recipeID int64) (bool, error)

	// CartLines returns every line item of every recipe in the user's cart,
	// joined with the ingredient's display identity.
	CartLines(ctx context.Context, userID string) ([]entity.CartLine, error)
}
