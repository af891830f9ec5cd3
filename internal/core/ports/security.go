package ports

import (
	"context"
	"time"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// PasswordHasher turns secrets into salted one-way digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// TokenValidator decodes and verifies an access token.
type TokenValidator interface {
	Validate(token string) (domain.TokenClaims, error)
}

// TokenIssuer signs access tokens and can verify its own output.
type TokenIssuer interface {
	TokenValidator
	Issue(userID string, role domain.Role) (string, time.Time, error)
}

// AttemptLimiter throttles repeated attempts against a key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
