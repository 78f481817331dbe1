package middleware

import (
	"net/http"
	"strings"

	"lockbox/backend/common"
	"lockbox/backend/service"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the Bearer token and puts the caller's identity into the
// request context. This is the identity collaborator for the whole folder
// core: handlers only ever read user_id / username / display_name from here.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.RespErrorStr(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.RespErrorStr(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			common.RespErrorStr(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		if common.RedisEnabled {
			blacklisted, _ := common.RDB.Exists(c, "jwt:blacklist:"+tokenString).Result()
			if blacklisted > 0 {
				common.RespErrorStr(c, http.StatusUnauthorized, "Token has been invalidated")
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("display_name", claims.DisplayName)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AdminAuth requires JWTAuth to have run first.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			common.RespErrorStr(c, http.StatusInternalServerError, "Role information not found")
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok || roleInt < common.RoleAdminUser {
			common.RespErrorStr(c, http.StatusForbidden, "Admin privileges required")
			c.Abort()
			return
		}

		c.Next()
	}
}
