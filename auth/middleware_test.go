package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chat-messages/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokens("test-secret", "chat-messages")

	router := gin.New()
	router.Use(auth.Middleware(tokens))
	router.GET("/whoami", func(c *gin.Context) {
		userID, _ := auth.UserIDFromContext(c.Request.Context())
		c.String(http.StatusOK, userID)
	})

	t.Run("should reject a request without token", func(t *testing.T) {
		req := require.New(t)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

		req.Equal(http.StatusUnauthorized, rec.Code)
		req.Contains(rec.Body.String(), "unauthenticated")
	})

	t.Run("should reject an invalid token", func(t *testing.T) {
		req := require.New(t)
		rec := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		request.Header.Set("Authorization", "Bearer nope")

		router.ServeHTTP(rec, request)

		req.Equal(http.StatusUnauthorized, rec.Code)
	})

	t.Run("should expose the caller to handlers", func(t *testing.T) {
		req := require.New(t)
		token, err := tokens.Generate("alice", nil, time.Hour)
		req.NoError(err)

		rec := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		request.Header.Set("Authorization", "Bearer "+token)

		router.ServeHTTP(rec, request)

		req.Equal(http.StatusOK, rec.Code)
		req.Equal("alice", rec.Body.String())
	})
}
