package application

import (
	"context"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
)

// SubscriptionService manages the follow graph and its author listings.
type SubscriptionService struct {
	Subs    repo.SubscriptionRepository
	Users   repo.UserRepository
	Recipes repo.RecipeRepository
}

// Subscribe follows an author and returns the annotated author view.
// recipesLimit caps the recipe preview; <= 0 means no preview cap.
func (s *SubscriptionService) Subscribe(ctx context.Context, subscriberID, authorID string, recipesLimit int) (*SubscribedAuthorView, error) {
	if subscriberID == authorID {
		return nil, apperr.NewValidation("author", "cannot subscribe to yourself")
	}
	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	inserted, err := s.Subs.Add(ctx, subscriberID, authorID)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, apperr.ErrConflict
	}
	return s.authorView(ctx, author, recipesLimit)
}

// Unsubscribe removes the follow edge. Unsubscribing from an author the
// user does not follow fails with ErrNotInSet.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	if _, err := s.Users.GetByID(ctx, authorID); err != nil {
		return err
	}
	removed, err := s.Subs.Remove(ctx, subscriberID, authorID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.ErrNotInSet
	}
	return nil
}

// ListSubscriptions pages over the authors the user follows, each
// annotated with its recipe preview and live count.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, subscriberID string, limit, offset, recipesLimit int) ([]SubscribedAuthorView, int, error) {
	authors, total, err := s.Subs.ListAuthors(ctx, subscriberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	views := make([]SubscribedAuthorView, 0, len(authors))
	for i := range authors {
		v, err := s.authorView(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// authorView annotates an author the viewer is known to follow. The recipe
// count is read live, never cached on the edge.
func (s *SubscriptionService) authorView(ctx context.Context, author *entity.User, recipesLimit int) (*SubscribedAuthorView, error) {
	count, err := s.Recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	recs, err := s.Recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return nil, err
	}

	view := &SubscribedAuthorView{
		UserView: UserView{
			ID:           author.ID,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			Email:        author.Email,
			IsSubscribed: true,
			Avatar:       author.AvatarURL,
		},
		Recipes:      make([]RecipeShortView, 0, len(recs)),
		RecipesCount: count,
	}
	for _, r := range recs {
		view.Recipes = append(view.Recipes, RecipeShortView{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.ImageURL,
			CookingTime: r.CookingTime,
		})
	}
	return view, nil
}
