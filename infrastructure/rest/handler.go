// Package rest is the HTTP+JSON binding of the Message Service.
package rest

import (
	"log/slog"
	"net/http"

	"chat-messages/auth"
	"chat-messages/domain/chat"
	"chat-messages/errors"
	"chat-messages/infrastructure/grpc/wire"
	"chat-messages/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	log     *slog.Logger
	service services.IMessageService
}

func NewHandler(log *slog.Logger, service services.IMessageService) *Handler {
	return &Handler{log: log, service: service}
}

// ListMessages answers GET /api/messages/:chatId with the enriched messages, oldest first.
func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), chat.ListMessagesCommand{
		ChatID:   c.Param("chatId"),
		CallerID: callerID(c),
	})
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, wire.FromEnrichedList(messages))
}

func (h *Handler) CreateMessage(c *gin.Context) {
	var req wire.CreateMessageRequest
	if !h.bind(c, &req) {
		return
	}
	created, err := h.service.CreateMessage(c.Request.Context(), chat.CreateMessageCommand{
		ChatID:      req.ChatID,
		CallerID:    callerID(c),
		Content:     req.Content,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.fail(c, err, gin.H{"message": wire.FromEnriched(created)})
		return
	}
	c.JSON(http.StatusOK, wire.FromEnriched(created))
}

func (h *Handler) EditMessage(c *gin.Context) {
	var req wire.EditMessageRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.service.EditMessage(c.Request.Context(), chat.EditMessageCommand{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		CallerID:  callerID(c),
		Content:   req.Content,
	})
	if err != nil {
		h.fail(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, wire.FromEditResult(result))
}

func (h *Handler) DeleteMessage(c *gin.Context) {
	var req wire.DeleteMessageRequest
	if !h.bind(c, &req) {
		return
	}
	result, err := h.service.DeleteMessage(c.Request.Context(), chat.DeleteMessageCommand{
		ChatID:    req.ChatID,
		MessageID: req.MessageID,
		CallerID:  callerID(c),
	})
	if err != nil {
		h.fail(c, err, gin.H{"response": wire.FromStored(result.Removed)})
		return
	}
	c.JSON(http.StatusOK, wire.FromDeleteResult(result))
}

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.log.Debug("Malformed request body", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body", "kind": errors.KindValidation})
		return false
	}
	return true
}

// fail writes the error body matching the error kind. A policy denial keeps
// the {status: reason} shape; a partial failure also carries the data that
// was written.
func (h *Handler) fail(c *gin.Context, err error, partial gin.H) {
	kind := errors.KindOf(err)
	var violation *errors.PolicyViolation
	if errors.As(err, &violation) {
		c.JSON(http.StatusBadRequest, gin.H{"status": violation.Reason})
		return
	}

	body := gin.H{"error": err.Error(), "kind": kind}
	if kind == errors.KindPartialFailure {
		for k, v := range partial {
			body[k] = v
		}
	}
	c.JSON(errors.HTTPStatus(err), body)
}

func callerID(c *gin.Context) string {
	userID, _ := auth.UserIDFromContext(c.Request.Context())
	return userID
}
