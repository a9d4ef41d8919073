package chat

import (
	"time"

	"github.com/samber/lo"
)

// Chat is owned by the chat directory. The message core only reads its
// members and moves LatestMessageID.
type Chat struct {
	ID              string
	Name            string
	IsGroup         bool
	Members         []string
	AdminID         string
	LatestMessageID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Chat) HasMember(userID string) bool {
	return lo.Contains(c.Members, userID)
}

type User struct {
	ID      string
	Name    string
	Picture string
	Email   string
}

// UserView is the display subset joined into responses.
type UserView struct {
	ID      string
	Name    string
	Picture string
	Email   string
}

func (u User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Picture: u.Picture, Email: u.Email}
}
