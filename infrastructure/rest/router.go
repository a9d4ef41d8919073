package rest

import (
	"log/slog"
	"net/http"
	"time"

	"chat-messages/auth"
	"chat-messages/services"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts the message routes under /api/messages behind the bearer
// token middleware. /healthz stays public.
func NewRouter(log *slog.Logger, tokens *auth.Tokens, service services.IMessageService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(log, service)
	messages := router.Group("/api/messages", auth.Middleware(tokens))
	messages.GET("/:chatId", h.ListMessages)
	messages.POST("", h.CreateMessage)
	messages.PUT("", h.EditMessage)
	messages.DELETE("", h.DeleteMessage)
	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
