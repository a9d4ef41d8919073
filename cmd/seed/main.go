package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"chat-messages/auth"
	"chat-messages/internal"
	"chat-messages/repositories"
	"chat-messages/repositories/postgres"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	file := flag.String("file", "cmd/seed/fixtures.yaml", "YAML fixture of users and chats")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the printed development tokens")
	flag.Parse()

	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	in, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer in.Close()
	fixture, err := LoadFixture(in)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var chats repositories.IChatRepository
	var users repositories.IUserRepository
	switch config.StorageDriver {
	case internal.DriverPostgres:
		db, err := postgres.Open(ctx, config.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err = postgres.Migrate(ctx, db); err != nil {
			return err
		}
		chats, users = postgres.NewChatRepository(db, logger), postgres.NewUserRepository(db)
	default:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLogger(nil))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer db.Close()
		chats, users = repositories.NewChatRepository(db, logger), repositories.NewUserRepository(db)
	}

	for _, u := range fixture.DomainUsers() {
		if err = users.SaveUser(ctx, u); err != nil {
			return err
		}
	}
	for _, c := range fixture.DomainChats(time.Now().UTC()) {
		if err = chats.SaveChat(ctx, c); err != nil {
			return err
		}
	}
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(
		fmt.Sprintf("  ====== Seeded %d users and %d chats ======", len(fixture.Users), len(fixture.Chats))))

	tokens := auth.NewTokens(config.AuthSecret, config.AuthIssuer)
	for _, u := range fixture.Users {
		token, err := tokens.Generate(u.ID, nil, *ttl)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", color.Cyan.Render(u.ID), token)
	}
	return nil
}
