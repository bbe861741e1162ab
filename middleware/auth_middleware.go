package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"folio/api/analytics"
)

// Context keys set by AuthRequired.
const (
	ContextUserID = "user_id"
	TokenCookie   = "jwt_token"
)

// AuthRequired resolves the bearer token (or the login cookie) to a subject
// and stores it under ContextUserID. Unresolvable callers get 401.
func AuthRequired(tokens analytics.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := analytics.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			cookie, err := c.Cookie(TokenCookie)
			if err != nil || cookie == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
				return
			}
			tokenString = cookie
		}

		subject, err := tokens.Subject(tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ContextUserID, subject)
		c.Next()
	}
}
