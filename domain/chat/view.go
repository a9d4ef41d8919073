package chat

import "github.com/samber/lo"

// ChatView is the chat object joined into an enriched message.
type ChatView struct {
	ID              string
	Name            string
	IsGroup         bool
	AdminID         string
	Users           []UserView
	LatestMessageID string
}

// EnrichedMessage is a read-side join of a message with its sender and chat.
// It is never persisted.
type EnrichedMessage struct {
	Message
	Sender UserView
	Chat   ChatView
}

type EditResult struct {
	Previous   Message
	NewContent string
	Updated    Message
}

type DeleteResult struct {
	Removed Message
}

// Enrich joins messages with the display data of their chat and senders.
// Unknown senders keep only their id.
func Enrich(c Chat, users map[string]User, messages []Message) []EnrichedMessage {
	view := NewChatView(c, users)
	return lo.Map(messages, func(m Message, _ int) EnrichedMessage {
		sender, ok := users[m.SenderID]
		if !ok {
			sender = User{ID: m.SenderID}
		}
		return EnrichedMessage{Message: m, Sender: sender.View(), Chat: view}
	})
}

func NewChatView(c Chat, users map[string]User) ChatView {
	return ChatView{
		ID:      c.ID,
		Name:    c.Name,
		IsGroup: c.IsGroup,
		AdminID: c.AdminID,
		Users: lo.Map(c.Members, func(id string, _ int) UserView {
			if u, ok := users[id]; ok {
				return u.View()
			}
			return UserView{ID: id}
		}),
		LatestMessageID: c.LatestMessageID,
	}
}
