package main

import (
	"fmt"
	"io"
	"time"

	"chat-messages/domain/chat"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Fixture is the YAML document describing the chat directory to seed.
type Fixture struct {
	Users []UserFixture `yaml:"users" validate:"dive"`
	Chats []ChatFixture `yaml:"chats" validate:"dive"`
}

type UserFixture struct {
	ID      string `yaml:"id" validate:"required"`
	Name    string `yaml:"name" validate:"required"`
	Picture string `yaml:"picture"`
	Email   string `yaml:"email" validate:"omitempty,email"`
}

type ChatFixture struct {
	ID      string   `yaml:"id" validate:"required"`
	Name    string   `yaml:"name"`
	Group   bool     `yaml:"group"`
	Members []string `yaml:"members" validate:"min=1,dive,required"`
	Admin   string   `yaml:"admin"`
}

var validate = validator.New()

// LoadFixture decodes and checks a fixture: every chat member and admin must
// be a declared user.
func LoadFixture(r io.Reader) (Fixture, error) {
	var fixture Fixture
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&fixture); err != nil {
		return Fixture{}, fmt.Errorf("invalid fixture: %w", err)
	}
	if err := validate.Struct(fixture); err != nil {
		return Fixture{}, fmt.Errorf("invalid fixture: %w", err)
	}

	known := lo.SliceToMap(fixture.Users, func(u UserFixture) (string, struct{}) { return u.ID, struct{}{} })
	for _, c := range fixture.Chats {
		for _, member := range c.Members {
			if _, ok := known[member]; !ok {
				return Fixture{}, fmt.Errorf("chat %s: unknown member %s", c.ID, member)
			}
		}
		if c.Admin != "" && !lo.Contains(c.Members, c.Admin) {
			return Fixture{}, fmt.Errorf("chat %s: admin %s is not a member", c.ID, c.Admin)
		}
	}
	return fixture, nil
}

func (f Fixture) DomainUsers() []chat.User {
	return lo.Map(f.Users, func(u UserFixture, _ int) chat.User {
		return chat.User{ID: u.ID, Name: u.Name, Picture: u.Picture, Email: u.Email}
	})
}

func (f Fixture) DomainChats(at time.Time) []chat.Chat {
	return lo.Map(f.Chats, func(c ChatFixture, _ int) chat.Chat {
		return chat.Chat{
			ID:        c.ID,
			Name:      c.Name,
			IsGroup:   c.Group,
			Members:   c.Members,
			AdminID:   c.Admin,
			CreatedAt: at,
			UpdatedAt: at,
		}
	})
}
