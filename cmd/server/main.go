package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chat-messages/auth"
	"chat-messages/contract"
	"chat-messages/domain/mutability"
	"chat-messages/infrastructure/grpc/server"
	"chat-messages/infrastructure/rest"
	"chat-messages/internal"
	"chat-messages/repositories"
	"chat-messages/repositories/cache"
	"chat-messages/repositories/postgres"
	"chat-messages/runtime/workers"
	"chat-messages/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

type stores struct {
	messages repositories.IMessageRepository
	chats    repositories.IChatRepository
	users    repositories.IUserRepository
}

// run wires every component and blocks until a shutdown signal.
// Returning instead of exiting lets the deferred closes run.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	var st stores
	switch config.StorageDriver {
	case internal.DriverPostgres:
		db, err := postgres.Open(ctx, config.PostgresDSN)
		if err != nil {
			return exitRuntime, err
		}
		defer func() {
			logger.Info("Closing PostgreSQL...")
			_ = db.Close()
		}()
		if err = postgres.Migrate(ctx, db); err != nil {
			return exitRuntime, err
		}
		st = stores{
			messages: postgres.NewMessageRepository(db, logger),
			chats:    postgres.NewChatRepository(db, logger),
			users:    postgres.NewUserRepository(db),
		}
	default:
		db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			// Releases the directory lock and flushes the memtables.
			logger.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		if logger.Enabled(ctx, slog.LevelDebug) {
			endpoint := "/inspect"
			logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
			database.StartDebugServer(db, config.DebugPort, endpoint, RecordMapper)
		}
		st = stores{
			messages: repositories.NewMessageRepository(db, logger),
			chats:    repositories.NewChatRepository(db, logger),
			users:    repositories.NewUserRepository(db),
		}
	}

	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		defer func() { _ = client.Close() }()
		st.chats = cache.NewChatCache(logger, st.chats, client, config.ChatCacheTTL)
		logger.Info("Chat directory cache enabled", "address", config.RedisAddr, "ttl", config.ChatCacheTTL)
	}

	// 3. Services
	messageService := services.NewMessageService(logger,
		st.messages, st.chats, st.users,
		mutability.NewPolicy(config.MutabilityWindow),
		contract.SystemClock{},
		services.WithSoftDelete(config.SoftDelete),
		services.WithLinkRetry(config.LinkRetryAttempts, config.LinkRetryInterval),
	)
	tokens := auth.NewTokens(config.AuthSecret, config.AuthIssuer)

	// 4. Transports under supervision
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	sup.Add(
		workers.NewHttpServerWorker(logger, config.HttpAddress(),
			rest.NewRouter(logger, tokens, messageService), config.ShutdownTimeout),
		workers.NewGrpcServerWorker(logger, config.GrpcAddress(), func() *grpc.Server {
			return server.New(logger, tokens, server.NewMessageServer(logger, messageService))
		}, config.ShutdownTimeout),
	)

	logger.Info("Starting message core",
		"http", config.HttpAddress(), "grpc", config.GrpcAddress(),
		"storage", config.StorageDriver, "window", config.MutabilityWindow, "soft_delete", config.SoftDelete)

	// Blocks until the signal context is cancelled and every worker has drained.
	sup.Run(ctx)

	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// RecordMapper renders stored messages, chats and users in the debug inspector.
func RecordMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	record := repositories.DescribeRecord(key, val)
	row.Type = record.Type
	row.Detail = record.Detail
	return row
}
