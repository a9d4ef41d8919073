package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	GrpcAddr string `envconfig:"E2E_GRPC_ADDR"`
	// Tokens are minted locally, so the secret and issuer must match the server.
	AuthSecret string `envconfig:"AUTH_SECRET"`
	AuthIssuer string `envconfig:"AUTH_ISSUER" default:"chat-messages"`
	// E2E_CHAT_ID must be a seeded chat with E2E_MEMBER as member
	ChatID string `envconfig:"E2E_CHAT_ID" default:"general"`
	Member string `envconfig:"E2E_MEMBER" default:"alice"`
	// E2E_DEBUG_JSON allows dumping full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
