package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/models"
	"github.com/PunitTak2005/Smart-Academic-Calendar/internal/util"
)

// CurrentUserKey is the gin context key the authenticated user is stored
// under.
const CurrentUserKey = "currentUser"

// AuthMiddleware verifies the bearer token, loads the account and attaches
// it to the request context. A ?token= query parameter is accepted as a
// fallback for download links that cannot set headers.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = parts[1]
			}
		}
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, "No Bearer token")
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				util.Error(c, http.StatusUnauthorized, "Token expired - login again")
			case errors.Is(err, jwt.ErrTokenMalformed),
				errors.Is(err, jwt.ErrTokenSignatureInvalid):
				util.Error(c, http.StatusUnauthorized, "Invalid token")
			default:
				util.Error(c, http.StatusUnauthorized, "Auth failed")
			}
			c.Abort()
			return
		}

		user, err := models.FindUserByID(db, claims.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				util.Error(c, http.StatusUnauthorized, "User inactive")
			} else {
				util.Error(c, http.StatusInternalServerError, "Server error")
			}
			c.Abort()
			return
		}
		if !user.IsActive {
			util.Error(c, http.StatusUnauthorized, "User inactive")
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser fetches the authenticated user placed by AuthMiddleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
