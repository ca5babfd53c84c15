package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	config "github.com/ansarhub/donation-tracker-go/config"
	utils "github.com/ansarhub/donation-tracker-go/utils"
)

// AccessTokenCookie is the cookie the login handler sets.
const AccessTokenCookie = "accessToken"

// Protect requires a valid access token, from the auth cookie or a Bearer
// header, and stores user_id/role on the request context.
func Protect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenStr == "" {
			authz := c.GetHeader("Authorization")
			if strings.HasPrefix(authz, "Bearer ") {
				tokenStr = strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := utils.ValidateAccessToken(cfg.JWTSecret, tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		sub, _ := claims["sub"].(string)
		role, _ := claims["role"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", sub)
		c.Set("role", role)
		c.Next()
	}
}

// AdminOnly gates mutating routes. Must run after Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
