package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RaiderT63/foodgram/internal/container"
	handlers "github.com/RaiderT63/foodgram/internal/interface/http"
	"github.com/RaiderT63/foodgram/internal/interface/middleware"
)

// UserModule wires registration, auth, profile, and subscription routes.
// Public: POST /api/users, POST /api/auth/login, POST /api/auth/refresh
// Optional auth: GET /api/users, GET /api/users/:id
// Protected: everything under /api/users/me and the subscription graph.
type UserModule struct {
	Handler *handlers.UserHandler
}

func NewUserModule(h *handlers.UserHandler) *UserModule {
	return &UserModule{Handler: h}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	jwt := container.GetJWT()

	registerLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", refreshLimiter, m.Handler.Refresh)

	// Reads are viewer-relative but never require auth.
	public := rg.Group("/")
	public.Use(middleware.OptionalAuth(rdb, jwt))
	{
		public.GET("/users", m.Handler.List)
		public.GET("/users/:id", m.Handler.Get)
	}

	auth := rg.Group("/")
	auth.Use(middleware.Auth(rdb, jwt))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/users/me", m.Handler.Me)
		auth.PUT("/users/me/avatar", m.Handler.UpdateAvatar)
		auth.DELETE("/users/me/avatar", m.Handler.DeleteAvatar)

		auth.GET("/users/subscriptions", m.Handler.Subscriptions)
		auth.POST("/users/:id/subscribe", m.Handler.Subscribe)
		auth.DELETE("/users/:id/subscribe", m.Handler.Unsubscribe)
	}
}
