package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/config"
	"github.com/RaiderT63/foodgram/internal/application"
	"github.com/RaiderT63/foodgram/pkg/helpers"
	"github.com/RaiderT63/foodgram/pkg/response"
	"github.com/RaiderT63/foodgram/pkg/validation"
)

type UserHandler struct {
	Users   *application.UserService
	Subs    *application.SubscriptionService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
	Cfg     *config.Config
}

func NewUserHandler(users *application.UserService, subs *application.SubscriptionService, cookies *helpers.Manager, logger *logrus.Logger, cfg *config.Config) *UserHandler {
	return &UserHandler{Users: users, Subs: subs, Cookies: cookies, Logger: logger, Cfg: cfg}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,pwd"`
}

// Register POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	view, err := h.Users.Register(c, application.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "registered", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Users.Login(c, req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email, "username": u.Username}, "logged in", nil)
}

// Refresh POST /api/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie("refresh_token")
	if err != nil || token == "" {
		response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}
	pair, uid, err := h.Users.Refresh(c, token)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, gin.H{"user_id": uid}, "refreshed", nil)
}

// Logout POST /api/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	h.Users.Logout(c, uid)
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "logged out", nil)
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	view, err := h.Users.GetProfile(c, uid)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "profile", nil)
}

// Get GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	view, err := h.Users.GetUser(c, c.Param("id"), viewerID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, view, "user", nil)
}

// List GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	p := parsePage(c, h.Cfg.PageSize, h.Cfg.MaxPageSize)
	views, total, err := h.Users.ListUsers(c, p.Limit, p.Offset, viewerID(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, views, "users", pageMeta(p, total))
}

type avatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// UpdateAvatar PUT /api/users/me/avatar
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "validation failed", validation.ToDetails(err))
		return
	}
	url, err := h.Users.UpdateAvatar(c, uid, req.Avatar)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar": url}, "avatar updated", nil)
}

// DeleteAvatar DELETE /api/users/me/avatar
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.Users.DeleteAvatar(c, uid); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipesLimit caps the recipe preview on subscription payloads.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Subscribe POST /api/users/:id/subscribe
func (h *UserHandler) Subscribe(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	view, err := h.Subs.Subscribe(c, uid, c.Param("id"), recipesLimit(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, view, "subscribed", nil)
}

// Unsubscribe DELETE /api/users/:id/subscribe
func (h *UserHandler) Unsubscribe(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.Subs.Unsubscribe(c, uid, c.Param("id")); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions GET /api/users/subscriptions
func (h *UserHandler) Subscriptions(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	p := parsePage(c, h.Cfg.PageSize, h.Cfg.MaxPageSize)
	views, total, err := h.Subs.ListSubscriptions(c, uid, p.Limit, p.Offset, recipesLimit(c))
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, views, "subscriptions", pageMeta(p, total))
}
