// Package wire holds the payloads exchanged over the message transports and
// the gRPC descriptor of messages.v1.MessageService.
package wire

import (
	"time"

	"chat-messages/domain/chat"

	"github.com/samber/lo"
)

const (
	StatusDeleted = "message deleted"
	StatusUpdated = "Message updated"
)

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Pic   string `json:"pic,omitempty"`
	Email string `json:"email,omitempty"`
}

type Chat struct {
	ID            string `json:"_id"`
	ChatName      string `json:"chatName"`
	IsGroupChat   bool   `json:"isGroupChat"`
	Users         []User `json:"users"`
	GroupAdmin    string `json:"groupAdmin,omitempty"`
	LatestMessage string `json:"latestMessage,omitempty"`
}

// Message is the enriched message view.
type Message struct {
	ID          string    `json:"_id"`
	Sender      User      `json:"sender"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	Chat        Chat      `json:"chat"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StoredMessage is a message as persisted, without joins.
type StoredMessage struct {
	ID          string    `json:"_id"`
	ChatID      string    `json:"chat"`
	SenderID    string    `json:"sender"`
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ListMessagesRequest struct {
	ChatID string `json:"chatId"`
}

type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

type CreateMessageRequest struct {
	ChatID      string `json:"chatId"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type CreateMessageResponse struct {
	Message Message `json:"message"`
}

type EditMessageRequest struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
}

type EditMessageResponse struct {
	PrevResponse       StoredMessage `json:"prev_response"`
	NewResponseContent string        `json:"new_response_content"`
	Status             string        `json:"status"`
}

type DeleteMessageRequest struct {
	ChatID    string `json:"chatId"`
	MessageID string `json:"messageId"`
}

type DeleteMessageResponse struct {
	Response StoredMessage `json:"response"`
	Status   string        `json:"status"`
}

func FromUser(u chat.UserView) User {
	return User{ID: u.ID, Name: u.Name, Pic: u.Picture, Email: u.Email}
}

func FromEnriched(m chat.EnrichedMessage) Message {
	return Message{
		ID:          m.ID,
		Sender:      FromUser(m.Sender),
		Content:     m.Content,
		ContentType: string(m.ContentType),
		Chat: Chat{
			ID:            m.Chat.ID,
			ChatName:      m.Chat.Name,
			IsGroupChat:   m.Chat.IsGroup,
			Users:         lo.Map(m.Chat.Users, func(u chat.UserView, _ int) User { return FromUser(u) }),
			GroupAdmin:    m.Chat.AdminID,
			LatestMessage: m.Chat.LatestMessageID,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromEnrichedList(messages []chat.EnrichedMessage) []Message {
	return lo.Map(messages, func(m chat.EnrichedMessage, _ int) Message { return FromEnriched(m) })
}

func FromStored(m chat.Message) StoredMessage {
	return StoredMessage{
		ID:          m.ID,
		ChatID:      m.ChatID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		ContentType: string(m.ContentType),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func FromEditResult(r chat.EditResult) EditMessageResponse {
	return EditMessageResponse{
		PrevResponse:       FromStored(r.Previous),
		NewResponseContent: r.NewContent,
		Status:             StatusUpdated,
	}
}

func FromDeleteResult(r chat.DeleteResult) DeleteMessageResponse {
	return DeleteMessageResponse{Response: FromStored(r.Removed), Status: StatusDeleted}
}
