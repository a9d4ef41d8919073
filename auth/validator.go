package auth

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IssueRequest is what a token is minted from.
type IssueRequest struct {
	UserID string        `validate:"required"`
	TTL    time.Duration `validate:"gt=0"`
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
