package ports

import (
	"context"
	"time"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// RegisterInput is the DTO passed from the transport layer to Register.
type RegisterInput struct {
	Email            string
	FirstName        string
	LastName         string
	Password         string
	SecretQuestionID int64
	SecretAnswer     string
}

// LoginInput carries login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// PasswordChangeInput carries the secret-question answer and the new password.
type PasswordChangeInput struct {
	SecurityQuestionID int64
	Answer             string
	NewPassword        string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	ForgotPassword(ctx context.Context, userID string, in PasswordChangeInput) (*domain.User, error)
	ValidateAuthToken(ctx context.Context, token string) domain.ValidationResult
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListSecretQuestions(ctx context.Context) ([]domain.SecretQuestion, error)
}
