package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`

	HttpHost string `env:"HTTP_HOST,default=0.0.0.0"`
	HttpPort int    `env:"HTTP_PORT,default=8080" validate:"gt=0,lt=65536"`
	GrpcHost string `env:"GRPC_HOST,default=0.0.0.0"`
	GrpcPort int    `env:"GRPC_PORT,default=50051" validate:"gt=0,lt=65536"`

	StorageDriver  string        `env:"STORAGE_DRIVER,default=badger" validate:"oneof=badger postgres"`
	BadgerFilepath string        `env:"BADGER_FILEPATH" validate:"required_if=StorageDriver badger"`
	PostgresDSN    string        `env:"POSTGRES_DSN" validate:"required_if=StorageDriver postgres"`
	RedisAddr      string        `env:"REDIS_ADDR"`
	ChatCacheTTL   time.Duration `env:"CHAT_CACHE_TTL,default=5m" validate:"gt=0"`

	MutabilityWindow  time.Duration `env:"MUTABILITY_WINDOW,default=30m" validate:"gt=0"`
	SoftDelete        bool          `env:"SOFT_DELETE,default=false"`
	LinkRetryAttempts int           `env:"LINK_RETRY_ATTEMPTS,default=3" validate:"gte=1"`
	LinkRetryInterval time.Duration `env:"LINK_RETRY_INTERVAL,default=50ms" validate:"gt=0"`

	AuthSecret string `env:"AUTH_SECRET,required=true" validate:"min=16"`
	AuthIssuer string `env:"AUTH_ISSUER,default=chat-messages" validate:"required"`

	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0"`
	DebugPort       int           `env:"DEBUG_PORT,default=8081" validate:"gt=0,lt=65536"`
}

var validate = validator.New()

// Validate checks the cross-field rules go-env cannot express.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c Config) HttpAddress() string {
	return fmt.Sprintf("%s:%d", c.HttpHost, c.HttpPort)
}

func (c Config) GrpcAddress() string {
	return fmt.Sprintf("%s:%d", c.GrpcHost, c.GrpcPort)
}
