package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/pkg/jwtutil"
	"campus-assist/internal/transport/http/response"
)

const (
	ContextEmailKey    = "email"
	ContextUserTypeKey = "user_type"
)

// AuthJWT accepts the login token either as the session cookie (browser
// flow) or as a bearer Authorization header (API clients).
func AuthJWT(secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c, cookieName)
		if token == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing credentials")
			c.Abort()
			return
		}

		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Set(ContextUserTypeKey, claims.UserType)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	const prefix = "Bearer "
	if strings.HasPrefix(authHeader, prefix) {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
	}
	return ""
}
