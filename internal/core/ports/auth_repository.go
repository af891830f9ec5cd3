package ports

import (
	"context"
	"time"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// UserRepository is the credential store. Implementations enforce email-key
// uniqueness themselves and report violations as domain.ErrUserExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) (*domain.User, error)
}

// SecretQuestionRepository stores the recovery questions.
type SecretQuestionRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.SecretQuestion, error)
	List(ctx context.Context) ([]domain.SecretQuestion, error)
	Upsert(ctx context.Context, q domain.SecretQuestion) error
}
