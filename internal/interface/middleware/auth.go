package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/RaiderT63/foodgram/pkg/helpers"
	"github.com/RaiderT63/foodgram/pkg/response"
)

// Auth validates the access token and requires a live Redis session whose
// sid matches the token, so logout and refresh rotation invalidate older
// tokens immediately. Sets userID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAccessCookie(c, jwt)
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.Abort()
			return
		}
		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session expired", nil)
				c.Abort()
				return
			}
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// OptionalAuth sets userID when a valid token and session are present and
// lets the request through anonymously otherwise. Read-only endpoints use
// it to compute viewer-relative fields.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseAccessCookie(c, jwt)
		if !ok {
			c.Next()
			return
		}
		if rdb != nil {
			data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
			if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
				c.Next()
				return
			}
		}
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

func parseAccessCookie(c *gin.Context, jwt *helpers.JWTManager) (*helpers.Claims, bool) {
	token, err := c.Cookie("access_token")
	if err != nil || token == "" {
		return nil, false
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}
