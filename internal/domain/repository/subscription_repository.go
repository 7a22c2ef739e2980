package repository

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/domain/entity"
)

// SubscriptionRepository persists follow edges between users.
type SubscriptionRepository interface {
	Add(ctx context.Context, subscriberID, authorID string) (bool, error)
	Remove(ctx context.Context, subscriberID, authorID string) (bool, error)
	Exists(ctx context.Context, subscriberID, authorID string) (bool, error)

	// ListAuthors returns the authors the subscriber follows, newest edge
	// first, plus the total edge count for pagination.
	ListAuthors(ctx context.Context, subscriberID string, limit, offset int) ([]entity.User, int, error)

	// ListSubscribers returns every follower of the author, used by the
	// notification worker for fanout.
	ListSubscribers(ctx context.Context, authorID string) ([]entity.User, error)
}
