package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cts/user-auth-service/internal/core/domain"
	"github.com/cts/user-auth-service/internal/core/ports"
)

// DefaultSecretQuestions is the catalogue seeded into a fresh store.
var DefaultSecretQuestions = []domain.SecretQuestion{
	{ID: 1, Question: "What is your pet's name?"},
	{ID: 2, Question: "In what city were you born?"},
	{ID: 3, Question: "What was the make of your first car?"},
	{ID: 4, Question: "What is your mother's maiden name?"},
	{ID: 5, Question: "What was the name of your first school?"},
}

// SeedSecretQuestions upserts qs. Running it twice is harmless.
func (s *AuthService) SeedSecretQuestions(ctx context.Context, qs []domain.SecretQuestion) error {
	for _, q := range qs {
		if q.ID <= 0 || q.Question == "" {
			return fmt.Errorf("seed question %d: id and text are required", q.ID)
		}
		if err := s.questions.Upsert(ctx, q); err != nil {
			return fmt.Errorf("seed question %d: %w", q.ID, err)
		}
	}
	s.logger.Info().Int("count", len(qs)).Msg("secret questions seeded")
	return nil
}

// EnsureAdmin creates an ADMIN account for in.Email, or returns the existing
// account when the email is already registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, in ports.RegisterInput) (*domain.User, bool, error) {
	user, err := s.register(ctx, in, domain.RoleAdmin)
	if errors.Is(err, domain.ErrUserExists) {
		existing, ferr := s.users.FindByEmail(ctx, in.Email)
		if ferr != nil {
			return nil, false, ferr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	s.record(domain.AuditUserRegistered, user.ID, user.Email, domain.OutcomeSuccess)
	s.logger.Info().Str("user_id", user.ID).Msg("admin account created")
	return user, true, nil
}
