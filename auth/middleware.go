package auth

import (
	"net/http"

	"chat-messages/errors"

	"github.com/gin-gonic/gin"
)

// Middleware is the gin counterpart of UnaryInterceptor: it rejects requests
// without a valid bearer token and stores the caller on the request context.
func Middleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authorization token is missing",
				"kind":  errors.KindUnauthenticated,
			})
			return
		}
		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired token",
				"kind":  errors.KindUnauthenticated,
			})
			return
		}
		c.Set(string(UserIDKey), claims.UserID)
		c.Request = c.Request.WithContext(WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}
