// Package chat contains the core concepts of the message core:
// messages, the chats that own them and the users that author them.
package chat

import (
	"strings"
	"time"

	"chat-messages/errors"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
	ContentVideo ContentType = "video"
	ContentFile  ContentType = "file"
	ContentLink  ContentType = "link"
)

var contentTypes = map[ContentType]struct{}{
	ContentText:  {},
	ContentImage: {},
	ContentVideo: {},
	ContentFile:  {},
	ContentLink:  {},
}

// ParseContentType is case-insensitive and rejects unknown tags.
func ParseContentType(raw string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := contentTypes[ct]; !ok {
		return "", errors.Validation("content_type %q is not supported", raw)
	}
	return ct, nil
}

// Message is one unit of communication in a chat.
// ID, ChatID, SenderID, ContentType and CreatedAt never change after creation.
type Message struct {
	ID          string
	ChatID      string
	SenderID    string
	Content     string
	ContentType ContentType
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (m Message) IsDeleted() bool {
	return m.DeletedAt != nil
}
