package main

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "should accept a consistent directory",
			yaml: `
users:
  - {id: alice, name: Alice}
  - {id: bob, name: Bob}
chats:
  - {id: general, members: [alice, bob], admin: alice, group: true}
`,
		},
		{
			name: "should reject an unknown member",
			yaml: `
users:
  - {id: alice, name: Alice}
chats:
  - {id: general, members: [alice, ghost]}
`,
			wantErr: "unknown member ghost",
		},
		{
			name: "should reject an admin outside the chat",
			yaml: `
users:
  - {id: alice, name: Alice}
  - {id: bob, name: Bob}
chats:
  - {id: general, members: [alice], admin: bob}
`,
			wantErr: "admin bob is not a member",
		},
		{
			name: "should reject a chat without members",
			yaml: `
chats:
  - {id: general, members: []}
`,
			wantErr: "Members",
		},
		{
			name:    "should reject unknown fields",
			yaml:    "users:\n  - {id: alice, name: Alice, role: admin}\n",
			wantErr: "role",
		},
		{
			name:    "should reject a malformed email",
			yaml:    "users:\n  - {id: alice, name: Alice, email: nope}\n",
			wantErr: "Email",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := LoadFixture(strings.NewReader(tt.yaml))
			if tt.wantErr == "" {
				req.NoError(err)
				return
			}
			req.Error(err)
			req.Contains(err.Error(), tt.wantErr)
		})
	}
}

func TestBundledFixture_Maps_To_Domain(t *testing.T) {
	req := require.New(t)
	in, err := os.Open("fixtures.yaml")
	req.NoError(err)
	defer in.Close()

	fixture, err := LoadFixture(in)
	req.NoError(err)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	chats := fixture.DomainChats(at)
	req.Len(chats, 2)
	req.Equal("general", chats[0].ID)
	req.True(chats[0].IsGroup)
	req.Equal([]string{"alice", "bob", "clara"}, chats[0].Members)
	req.Equal(at, chats[0].CreatedAt)
	req.False(chats[1].IsGroup)

	users := fixture.DomainUsers()
	req.Len(users, 3)
	req.Equal("https://example.com/alice.png", users[0].Picture)
}
