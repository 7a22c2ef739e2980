package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RaiderT63/foodgram/internal/container"
	handlers "github.com/RaiderT63/foodgram/internal/interface/http"
	"github.com/RaiderT63/foodgram/internal/interface/middleware"
)

// RecipeModule wires the recipe CRUD, membership sets, and the shopping
// list export.
type RecipeModule struct {
	Handler *handlers.RecipeHandler
}

func NewRecipeModule(h *handlers.RecipeHandler) *RecipeModule {
	return &RecipeModule{Handler: h}
}

func (m *RecipeModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	// Reads are public; flags resolve against the viewer when present.
	public := rg.Group("/")
	public.Use(middleware.OptionalAuth(rdb, jwt))
	{
		public.GET("/recipes", m.Handler.List)
		public.GET("/recipes/search", m.Handler.Search)
		public.GET("/recipes/:id", m.Handler.Get)
		public.GET("/recipes/:id/get-link", m.Handler.GetLink)
	}

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, jwt))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/recipes", m.Handler.Create)
		auth.PATCH("/recipes/:id", m.Handler.Update)
		auth.DELETE("/recipes/:id", m.Handler.Delete)

		auth.POST("/recipes/:id/favorite", m.Handler.Favorite)
		auth.DELETE("/recipes/:id/favorite", m.Handler.Unfavorite)
		auth.POST("/recipes/:id/shopping_cart", m.Handler.AddToCart)
		auth.DELETE("/recipes/:id/shopping_cart", m.Handler.RemoveFromCart)
		auth.GET("/recipes/download_shopping_cart", m.Handler.DownloadShoppingCart)
	}
}
