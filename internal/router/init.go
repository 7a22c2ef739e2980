package router

import (
	"github.com/RaiderT63/foodgram/internal/application"
	"github.com/RaiderT63/foodgram/internal/container"
	pginfra "github.com/RaiderT63/foodgram/internal/infrastructure/postgres"
	handlers "github.com/RaiderT63/foodgram/internal/interface/http"
	"github.com/RaiderT63/foodgram/internal/router/modules"
	"github.com/RaiderT63/foodgram/pkg/helpers"
)

// InitModules builds the repositories, services, and handlers from the
// container singletons and registers every feature module. Called once
// during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	catalog := pginfra.NewCatalogRepository(pool)
	recipes := pginfra.NewRecipeRepository(pool)
	memberships := pginfra.NewMembershipRepository(pool)
	subs := pginfra.NewSubscriptionRepository(pool)

	images := application.NewGCSImageStore(container.GetGCS(), cfg.GCSBucket)

	userSvc := &application.UserService{
		Users:  users,
		Subs:   subs,
		JWT:    container.GetJWT(),
		Redis:  container.GetRedis(),
		Images: images,
		Logger: logger,
	}
	subSvc := &application.SubscriptionService{
		Subs:    subs,
		Users:   users,
		Recipes: recipes,
	}
	recipeSvc := &application.RecipeService{
		Recipes:     recipes,
		Catalog:     catalog,
		Users:       users,
		Memberships: memberships,
		Subs:        subs,
		Images:      images,
		Pub:         container.GetRabbitPub(),
		ES:          container.GetES(),
		ESIndex:     cfg.ESRecipesIndex,
		Logger:      logger,
		BaseURL:     cfg.BaseURL,
	}
	membershipSvc := &application.MembershipService{
		Memberships: memberships,
		Recipes:     recipes,
	}
	shoppingSvc := &application.ShoppingListService{Memberships: memberships}
	catalogSvc := &application.CatalogService{Catalog: catalog}

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	userHandler := handlers.NewUserHandler(userSvc, subSvc, cookies, logger, cfg)
	recipeHandler := handlers.NewRecipeHandler(recipeSvc, membershipSvc, shoppingSvc, logger, cfg)
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, logger)

	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewRecipeModule(recipeHandler))
	r.Add(modules.NewCatalogModule(catalogHandler))

	// Short-link redirects live outside /api on the engine root.
	r.Engine.GET("/s/:id", recipeHandler.ShortLinkRedirect)
}
