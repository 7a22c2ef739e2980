package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
	"github.com/RaiderT63/foodgram/pkg/helpers"
	"github.com/RaiderT63/foodgram/pkg/mailer"
)

// RecipeService owns the recipe aggregate: draft validation, atomic
// persistence of the composition, viewer-relative projections, search
// indexing, and the publish event.
type RecipeService struct {
	Recipes     repo.RecipeRepository
	Catalog     repo.CatalogRepository
	Users       repo.UserRepository
	Memberships repo.MembershipRepository
	Subs        repo.SubscriptionRepository
	Images      ImageStore
	Pub         *helpers.RabbitPublisher
	ES          *elasticsearch.Client
	ESIndex     string
	Logger      *logrus.Logger
	BaseURL     string
}

// DraftIngredient is one (ingredient id, amount) pair of an inbound draft.
type DraftIngredient struct {
	ID     int64
	Amount int
}

// RecipeDraft is the full inbound payload for create and update. Partial
// drafts are rejected during validation, never treated as "no change".
type RecipeDraft struct {
	Name        string
	Image       string // base64 data URI, or the stored URL on update
	Description string
	CookingTime int
	TagIDs      []int64
	Ingredients []DraftIngredient
}

// ListParams narrows and pages a recipe listing.
type ListParams struct {
	AuthorID         string
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Limit            int
	Offset           int
}

// validateDraft applies the draft rules in their canonical order and
// collects every failure into one field-addressed error.
func (s *RecipeService) validateDraft(ctx context.Context, d RecipeDraft) error {
	fields := map[string]string{}

	if strings.TrimSpace(d.Image) == "" {
		fields["image"] = "image is required"
	}
	if len(d.Name) > 256 {
		fields["name"] = "name must not exceed 256 characters"
	}
	if len(d.Ingredients) == 0 {
		fields["ingredients"] = "at least one ingredient is required"
	}
	if len(d.TagIDs) == 0 {
		fields["tags"] = "at least one tag is required"
	} else if hasDuplicateIDs(d.TagIDs) {
		// Duplicates are an input-shape error, not something to dedupe away.
		fields["tags"] = "tags must be unique"
	}

	if len(d.Ingredients) > 0 {
		ids := make([]int64, len(d.Ingredients))
		for i, ing := range d.Ingredients {
			ids[i] = ing.ID
		}
		if hasDuplicateIDs(ids) {
			fields["ingredients"] = "ingredients must be unique"
		} else {
			known, err := s.Catalog.GetIngredientsByIDs(ctx, ids)
			if err != nil {
				return err
			}
			if len(known) != len(ids) {
				fields["ingredients"] = "ingredient does not exist"
			}
		}
		if _, ok := fields["ingredients"]; !ok {
			for _, ing := range d.Ingredients {
				if ing.Amount < 1 {
					fields["ingredients"] = "ingredient amount must be greater than 0"
					break
				}
			}
		}
	}
	if len(d.TagIDs) > 0 && fields["tags"] == "" {
		known, err := s.Catalog.GetTagsByIDs(ctx, d.TagIDs)
		if err != nil {
			return err
		}
		if len(known) != len(d.TagIDs) {
			fields["tags"] = "tag does not exist"
		}
	}
	if d.CookingTime < 1 {
		fields["cooking_time"] = "cooking time must be at least 1 minute"
	}

	if len(fields) == 0 {
		return nil
	}
	return &apperr.ValidationError{Fields: fields}
}

func hasDuplicateIDs(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}

func draftToEntity(d RecipeDraft) *entity.Recipe {
	rec := &entity.Recipe{
		Name:        d.Name,
		Description: d.Description,
		CookingTime: d.CookingTime,
		TagIDs:      d.TagIDs,
	}
	for _, ing := range d.Ingredients {
		rec.LineItems = append(rec.LineItems, entity.LineItem{IngredientID: ing.ID, Amount: ing.Amount})
	}
	return rec
}

// Create validates the draft, persists the recipe atomically, and returns
// the full projection from the author's point of view.
func (s *RecipeService) Create(ctx context.Context, authorID string, d RecipeDraft) (*RecipeView, error) {
	if err := s.validateDraft(ctx, d); err != nil {
		return nil, err
	}
	imageURL, err := storeImagePayload(ctx, s.Images, "recipes", d.Image)
	if err != nil {
		if errors.Is(err, helpers.ErrBadImagePayload) {
			return nil, apperr.NewValidation("image", "image must be a base64 encoded file")
		}
		return nil, err
	}

	rec := draftToEntity(d)
	rec.AuthorID = authorID
	rec.ImageURL = imageURL
	if err := s.Recipes.Create(ctx, rec); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, rec, &authorID)
	if err != nil {
		return nil, err
	}
	s.indexRecipe(ctx, rec)
	s.publishRecipe(ctx, rec, view.Author)
	return view, nil
}

// Update re-validates the full draft and swaps the stored composition.
// The authorship precondition belongs to the caller identity, checked here
// against the stored row.
func (s *RecipeService) Update(ctx context.Context, recipeID int64, actingUserID string, d RecipeDraft) (*RecipeView, error) {
	existing, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if existing.AuthorID != actingUserID {
		return nil, apperr.ErrForbidden
	}
	if err := s.validateDraft(ctx, d); err != nil {
		return nil, err
	}
	imageURL, err := storeImagePayload(ctx, s.Images, "recipes", d.Image)
	if err != nil {
		if errors.Is(err, helpers.ErrBadImagePayload) {
			return nil, apperr.NewValidation("image", "image must be a base64 encoded file")
		}
		return nil, err
	}

	rec := draftToEntity(d)
	rec.ID = existing.ID
	rec.AuthorID = existing.AuthorID
	rec.ImageURL = imageURL
	rec.CreatedAt = existing.CreatedAt
	if err := s.Recipes.Replace(ctx, rec); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, rec, &actingUserID)
	if err != nil {
		return nil, err
	}
	s.indexRecipe(ctx, rec)
	return view, nil
}

// Delete removes the recipe; the repository cascades to line items and
// membership rows inside one transaction.
func (s *RecipeService) Delete(ctx context.Context, recipeID int64, actingUserID string) error {
	existing, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if existing.AuthorID != actingUserID {
		return apperr.ErrForbidden
	}
	if err := s.Recipes.Delete(ctx, recipeID); err != nil {
		return err
	}
	s.deindexRecipe(ctx, recipeID)
	return nil
}

// Get returns the full projection relative to viewerID (nil = anonymous).
func (s *RecipeService) Get(ctx context.Context, recipeID int64, viewerID *string) (*RecipeView, error) {
	rec, err := s.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, rec, viewerID)
}

// List returns a page of projections plus the unpaged total.
func (s *RecipeService) List(ctx context.Context, p ListParams, viewerID *string) ([]RecipeView, int, error) {
	f := repo.RecipeFilter{AuthorID: p.AuthorID, TagSlugs: p.TagSlugs}
	// Viewer-dependent filters are no-ops for anonymous viewers.
	if viewerID != nil {
		if p.IsFavorited {
			f.FavoritedBy = *viewerID
		}
		if p.IsInShoppingCart {
			f.InCartOf = *viewerID
		}
	}
	recs, total, err := s.Recipes.List(ctx, f, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	views := make([]RecipeView, 0, len(recs))
	for i := range recs {
		v, err := s.buildView(ctx, &recs[i], viewerID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// ShortLink builds the public short link for a recipe.
func (s *RecipeService) ShortLink(recipeID int64) string {
	return strings.TrimRight(s.BaseURL, "/") + "/s/" + strconv.FormatInt(recipeID, 10)
}

func (s *RecipeService) recipeURL(recipeID int64) string {
	return strings.TrimRight(s.BaseURL, "/") + "/api/recipes/" + strconv.FormatInt(recipeID, 10)
}

// buildView assembles the denormalized projection: nested tags, joined
// ingredients, the author with is_subscribed, and the viewer flags.
func (s *RecipeService) buildView(ctx context.Context, rec *entity.Recipe, viewerID *string) (*RecipeView, error) {
	tags, err := s.Catalog.GetTagsByIDs(ctx, rec.TagIDs)
	if err != nil {
		return nil, err
	}
	ingIDs := make([]int64, len(rec.LineItems))
	for i, li := range rec.LineItems {
		ingIDs[i] = li.IngredientID
	}
	ings, err := s.Catalog.GetIngredientsByIDs(ctx, ingIDs)
	if err != nil {
		return nil, err
	}
	ingByID := make(map[int64]entity.Ingredient, len(ings))
	for _, ing := range ings {
		ingByID[ing.ID] = ing
	}

	author, err := s.Users.GetByID(ctx, rec.AuthorID)
	if err != nil {
		return nil, err
	}

	view := &RecipeView{
		ID:          rec.ID,
		Name:        rec.Name,
		Image:       rec.ImageURL,
		Text:        rec.Description,
		CookingTime: rec.CookingTime,
		Tags:        make([]TagView, 0, len(tags)),
		Ingredients: make([]IngredientInRecipeView, 0, len(rec.LineItems)),
		Author: UserView{
			ID:        author.ID,
			Username:  author.Username,
			FirstName: author.FirstName,
			LastName:  author.LastName,
			Email:     author.Email,
			Avatar:    author.AvatarURL,
		},
	}
	for _, t := range tags {
		view.Tags = append(view.Tags, TagView{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	for _, li := range rec.LineItems {
		ing := ingByID[li.IngredientID]
		view.Ingredients = append(view.Ingredients, IngredientInRecipeView{
			ID:              li.IngredientID,
			Name:            ing.Name,
			MeasurementUnit: ing.MeasurementUnit,
			Amount:          li.Amount,
		})
	}

	// Anonymous viewers always see false flags; the lookups never fail the
	// projection.
	if viewerID != nil {
		if fav, err := s.Memberships.Contains(ctx, entity.MembershipFavorite, *viewerID, rec.ID); err == nil {
			view.IsFavorited = fav
		}
		if cart, err := s.Memberships.Contains(ctx, entity.MembershipCart, *viewerID, rec.ID); err == nil {
			view.IsInShoppingCart = cart
		}
		if sub, err := s.Subs.Exists(ctx, *viewerID, rec.AuthorID); err == nil {
			view.Author.IsSubscribed = sub
		}
	}
	return view, nil
}

// publishRecipe enqueues the subscriber-notification event. Best effort:
// a broker outage must not fail the create.
func (s *RecipeService) publishRecipe(ctx context.Context, rec *entity.Recipe, author UserView) {
	if s.Pub == nil {
		return
	}
	evt := mailer.RecipePublished{
		RecipeID:    rec.ID,
		RecipeName:  rec.Name,
		RecipeURL:   s.recipeURL(rec.ID),
		AuthorID:    rec.AuthorID,
		AuthorName:  author.Username,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.Pub.PublishJSON(ctx, evt); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("recipe_id", rec.ID).Warn("publish recipe event failed")
	}
}

func (s *RecipeService) indexRecipe(ctx context.Context, rec *entity.Recipe) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":           rec.ID,
		"author_id":    rec.AuthorID,
		"name":         rec.Name,
		"text":         rec.Description,
		"cooking_time": rec.CookingTime,
		"updated_at":   rec.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      s.ESIndex,
		DocumentID: strconv.FormatInt(rec.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", rec.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("recipe_id", rec.ID).Warn("es index response error")
	}
}

func (s *RecipeService) deindexRecipe(ctx context.Context, recipeID int64) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(recipeID, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("recipe_id", recipeID).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over name and text.
func (s *RecipeService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "text"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
