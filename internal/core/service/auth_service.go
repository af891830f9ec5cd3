package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cts/user-auth-service/internal/core/domain"
	"github.com/cts/user-auth-service/internal/core/ports"
	"github.com/cts/user-auth-service/internal/pkg/metrics"
)

const bearerPrefix = "bearer "

// AuthService implements registration, login, secret-question password reset
// and token validation.
type AuthService struct {
	users     ports.UserRepository
	questions ports.SecretQuestionRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenIssuer
	limiter   ports.AttemptLimiter
	audit     ports.AuditRecorder
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures optional AuthService collaborators.
type Option func(*AuthService)

// WithAttemptLimiter throttles login and reset attempts.
func WithAttemptLimiter(l ports.AttemptLimiter) Option {
	return func(s *AuthService) { s.limiter = l }
}

// WithAuditRecorder emits an audit event for every register, login and reset.
func WithAuditRecorder(r ports.AuditRecorder) Option {
	return func(s *AuthService) { s.audit = r }
}

func NewAuthService(
	users ports.UserRepository,
	questions ports.SecretQuestionRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	logger zerolog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		users:     users,
		questions: questions,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a CUSTOMER account.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	defer observe("register", time.Now())

	user, err := s.register(ctx, in, domain.RoleCustomer)
	metrics.RegistrationsTotal.WithLabelValues(registerResult(err)).Inc()
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			s.record(domain.AuditUserRegistered, "", in.Email, "duplicate")
		}
		return nil, err
	}

	s.record(domain.AuditUserRegistered, user.ID, user.Email, domain.OutcomeSuccess)
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) register(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	var missing []string
	if in.Email == "" {
		missing = append(missing, "email is required")
	}
	if in.FirstName == "" {
		missing = append(missing, "firstName is required")
	}
	if in.LastName == "" {
		missing = append(missing, "lastName is required")
	}
	if in.Password == "" {
		missing = append(missing, "password is required")
	}
	if in.SecretQuestionID != 0 && domain.NormalizeAnswer(in.SecretAnswer) == "" {
		missing = append(missing, "answerToSecretQuestion is required")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	if in.SecretQuestionID != 0 {
		if _, err := s.questions.FindByID(ctx, in.SecretQuestionID); err != nil {
			return nil, err
		}
	}

	switch _, err := s.users.FindByEmail(ctx, in.Email); {
	case err == nil:
		return nil, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           s.newID(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		EmailKey:     domain.NormalizeEmail(in.Email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.SecretQuestionID != 0 {
		answerHash, err := s.hasher.Hash(domain.NormalizeAnswer(in.SecretAnswer))
		if err != nil {
			return nil, err
		}
		user.SecretQuestionID = in.SecretQuestionID
		user.SecretAnswerHash = answerHash
	}

	// The store's unique index is authoritative when registrations race.
	return s.users.Create(ctx, user)
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	defer observe("login", time.Now())

	res, userID, err := s.login(ctx, in)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	s.record(domain.AuditUserLogin, userID, in.Email, outcome(err))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, string, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, "", domain.NewValidationError("email and password are required")
	}

	limitKey := "login:" + domain.NormalizeEmail(in.Email)
	if !s.allow(ctx, limitKey) {
		return nil, "", domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, "", err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, user.ID, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, user.ID, err
	}
	s.resetLimit(ctx, limitKey)

	return &ports.LoginResult{Token: token, ExpiresAt: exp, User: user}, user.ID, nil
}

// ForgotPassword replaces the password of userID after checking the answer to
// the account's secret question.
func (s *AuthService) ForgotPassword(ctx context.Context, userID string, in ports.PasswordChangeInput) (*domain.User, error) {
	defer observe("forgot_password", time.Now())

	user, err := s.forgotPassword(ctx, userID, in)
	metrics.PasswordResetsTotal.WithLabelValues(loginResult(err)).Inc()

	email := ""
	if user != nil {
		email = user.Email
	}
	s.record(domain.AuditPasswordReset, userID, email, outcome(err))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Msg("password reset")
	return user, nil
}

func (s *AuthService) forgotPassword(ctx context.Context, userID string, in ports.PasswordChangeInput) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUserNotFound
	}
	if in.NewPassword == "" || domain.NormalizeAnswer(in.Answer) == "" {
		return nil, domain.NewValidationError("answer and newPassword are required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	limitKey := "reset:" + user.ID
	if !s.allow(ctx, limitKey) {
		return nil, domain.ErrTooManyAttempts
	}

	if !user.HasSecretQuestion() || in.SecurityQuestionID != user.SecretQuestionID {
		return nil, domain.ErrInvalidAnswer
	}
	if !s.hasher.Verify(domain.NormalizeAnswer(in.Answer), user.SecretAnswerHash) {
		return nil, domain.ErrInvalidAnswer
	}

	passwordHash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdatePassword(ctx, user.ID, passwordHash, s.now())
	if err != nil {
		return nil, err
	}
	s.resetLimit(ctx, limitKey)
	s.resetLimit(ctx, "login:"+updated.EmailKey)
	return updated, nil
}

// ValidateAuthToken answers whether raw (optionally "Bearer "-prefixed) is a
// valid access token. Failures are reported in the result, never as errors.
func (s *AuthService) ValidateAuthToken(_ context.Context, raw string) domain.ValidationResult {
	token := strings.TrimSpace(raw)
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	if token == "" {
		metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return domain.ValidationResult{Status: false}
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		s.logger.Debug().Err(err).Msg("token rejected")
		return domain.ValidationResult{Status: false}
	}

	metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return domain.ValidationResult{Status: true, UserID: claims.UserID, Role: claims.Role}
}

// GetUser returns the account with the given ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.users.FindByID(ctx, id)
}

// ListSecretQuestions returns the recovery questions offered at registration.
func (s *AuthService) ListSecretQuestions(ctx context.Context) ([]domain.SecretQuestion, error) {
	return s.questions.List(ctx)
}

// allow consults the limiter. Limiter outages fail open.
func (s *AuthService) allow(ctx context.Context, key string) bool {
	if s.limiter == nil {
		return true
	}
	ok, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("attempt limiter unavailable")
		return true
	}
	return ok
}

func (s *AuthService) resetLimit(ctx context.Context, key string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("attempt limiter reset failed")
	}
}

func (s *AuthService) record(t domain.AuditEventType, userID, email, result string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Type:       t,
		UserID:     userID,
		Email:      email,
		Outcome:    result,
		OccurredAt: s.now(),
	})
}

func observe(op string, start time.Time) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func registerResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrUserExists):
		return metrics.ResultDuplicate
	case errors.As(err, &ve), errors.Is(err, domain.ErrQuestionNotFound):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

func loginResult(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrUserNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, domain.ErrTooManyAttempts):
		return metrics.ResultThrottled
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidAnswer), errors.As(err, &ve):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}

// outcome is the audit outcome string for err.
func outcome(err error) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return domain.OutcomeSuccess
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return "invalid_answer"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	case errors.As(err, &ve):
		return "invalid_request"
	default:
		return "error"
	}
}
