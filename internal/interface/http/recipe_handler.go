package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/config"
	"github.com/RaiderT63/foodgram/internal/application"
	"github.com/RaiderT63/foodgram/internal/domain/entity"
	"github.com/RaiderT63/foodgram/pkg/response"
	"github.com/RaiderT63/foodgram/pkg/validation"
)

type RecipeHandler struct {
	Recipes     *application.RecipeService
	Memberships *application.MembershipService
	Shopping    *application.ShoppingListService
	Logger      *logrus.Logger
	Cfg         *config.Config
}

func NewRecipeHandler(recipes *application.RecipeService, memberships *application.MembershipService, shopping *application.ShoppingListService, logger *logrus.Logger, cfg *config.Config) *RecipeHandler {
	return &RecipeHandler{Recipes: recipes, Memberships: memberships, Shopping: shopping, Logger: logger, Cfg: cfg}
}

type recipeIngredientRequest struct {
	ID     int64 `json:"id" binding:"required"`
	Amount int   `json:"amount" binding:"required"`
}

type recipeRequest struct {
	Name        string                    `json:"name" binding:"required,recipename"`
	Image       string                    `json:"image"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Tags        []int64                   `json:"tags"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

func (r recipeRequest) toDraft() application.RecipeDraft {
	d := application.RecipeDraft{
		Name:        r.Name,
		Image:       r.Image,
		Description: r.Text,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
	}
	for _, ing := range r.Ingredients {
		d.Ingredients = append(d.Ingredients, application.DraftIngredient{ID: ing.ID, Amount: ing.Amount})
	}
	return d
}

func recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error[any](c, http.StatusNotFound, "not found", nil)
		return 0, false
	}
	return id, true
}

// Create POST /api/recipes
func (h *RecipeHandler) Create(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	view, err := h.Recipes.Create(c, uid, req.toDraft())
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "recipe created", nil)
}

// Update PATCH /api/recipes/:id
func (h *RecipeHandler) Update(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	view, err := h.Recipes.Update(c, id, uid, req.toDraft())
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "recipe updated", nil)
}

// Delete DELETE /api/recipes/:id
func (h *RecipeHandler) Delete(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.Recipes.Delete(c, id, uid); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get GET /api/recipes/:id
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	view, err := h.Recipes.Get(c, id, viewerID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "recipe", nil)
}

// List GET /api/recipes
func (h *RecipeHandler) List(c *gin.Context) {
	p := parsePage(c, h.Cfg.PageSize, h.Cfg.MaxPageSize)
	params := application.ListParams{
		AuthorID:         c.Query("author"),
		IsFavorited:      c.Query("is_favorited") == "1",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1",
		Limit:            p.Limit,
		Offset:           p.Offset,
	}
	if tags := c.QueryArray("tags"); len(tags) > 0 {
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				params.TagSlugs = append(params.TagSlugs, t)
			}
		}
	}
	views, total, err := h.Recipes.List(c, params, viewerID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, views, "recipes", pageMeta(p, total))
}

// GetLink GET /api/recipes/:id/get-link
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if _, err := h.Recipes.Get(c, id, nil); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"short-link": h.Recipes.ShortLink(id)}, "short link", nil)
}

// Search GET /api/recipes/search?q=
func (h *RecipeHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "validation failed", gin.H{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Recipes.Search(c, q, size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

// Favorite POST /api/recipes/:id/favorite
func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.addMembership(c, entity.MembershipFavorite)
}

// Unfavorite DELETE /api/recipes/:id/favorite
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.removeMembership(c, entity.MembershipFavorite)
}

// AddToCart POST /api/recipes/:id/shopping_cart
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addMembership(c, entity.MembershipCart)
}

// RemoveFromCart DELETE /api/recipes/:id/shopping_cart
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeMembership(c, entity.MembershipCart)
}

func (h *RecipeHandler) addMembership(c *gin.Context, kind entity.MembershipKind) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	view, err := h.Memberships.Add(c, kind, uid, id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "added", nil)
}

func (h *RecipeHandler) removeMembership(c *gin.Context, kind entity.MembershipKind) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.Memberships.Remove(c, kind, uid, id); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart GET /api/recipes/download_shopping_cart
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	list, err := h.Shopping.Export(c, uid)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+application.ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}

// ShortLinkRedirect GET /s/:id
func (h *RecipeHandler) ShortLinkRedirect(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if _, err := h.Recipes.Get(c, id, nil); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Redirect(http.StatusFound, "/api/recipes/"+strconv.FormatInt(id, 10))
}
