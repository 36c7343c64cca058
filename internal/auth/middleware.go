package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie is set on a successful login and carries the signed token.
const SessionCookie = "ghichat_session"

type ctxKey string

const CtxUserID ctxKey = "uid"

// Middleware gates a route group on the session cookie.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(SessionCookie)
		if err != nil || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not logged in"})
			return
		}

		claims, err := ParseToken(secret, tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid session"})
			return
		}

		c.Set(string(CtxUserID), claims.UserID)
		c.Next()
	}
}

func MustUserID(c *gin.Context) int64 {
	if v, ok := c.Get(string(CtxUserID)); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
