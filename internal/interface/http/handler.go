package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/RaiderT63/foodgram/internal/apperr"
	"github.com/RaiderT63/foodgram/internal/application"
	"github.com/RaiderT63/foodgram/pkg/response"
)

// viewerID returns the authenticated user id, or nil for anonymous
// requests that passed through the optional-auth middleware.
func viewerID(c *gin.Context) *string {
	uid := c.GetString("userID")
	if uid == "" {
		return nil
	}
	return &uid
}

// mustUserID is used under the required-auth middleware, where an empty id
// means the middleware chain is miswired rather than a client mistake.
func mustUserID(c *gin.Context) (string, bool) {
	uid := c.GetString("userID")
	if uid == "" {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return "", false
	}
	return uid, true
}

// writeServiceError translates the service error taxonomy onto HTTP.
// Unknown errors become a logged 500 without leaking internals.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	if ve, ok := apperr.AsValidation(err); ok {
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrConflict):
		response.Error[any](c, http.StatusBadRequest, "already exists", nil)
	case errors.Is(err, apperr.ErrNotInSet):
		response.Error[any](c, http.StatusBadRequest, "not in the set", nil)
	case errors.Is(err, apperr.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, apperr.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		if logger != nil {
			logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

type pageParams struct {
	Page   int
	Limit  int
	Offset int
}

// parsePage reads ?page and ?limit with the configured defaults and cap.
func parsePage(c *gin.Context, defaultLimit, maxLimit int) pageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return pageParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// pageMeta is the pagination block attached to list responses.
func pageMeta(p pageParams, total int) gin.H {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return gin.H{"page": p.Page, "limit": p.Limit, "total": total, "pages": pages}
}
