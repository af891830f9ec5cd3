package handler

import (
	"time"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

// --- Request / Response types ---

type registrationRequest struct {
	Email            string `json:"email"                  validate:"required,email"`
	FirstName        string `json:"firstName"              validate:"required"`
	LastName         string `json:"lastName"               validate:"required"`
	SecretQuestionID int64  `json:"secretQuestionId"       validate:"required,gt=0"`
	SecretAnswer     string `json:"answerToSecretQuestion" validate:"required"`
	Password         string `json:"password"               validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type passwordChangeRequest struct {
	SecurityQuestionID int64  `json:"securityQuestionId" validate:"required,gt=0"`
	Answer             string `json:"answer"             validate:"required"`
	NewPassword        string `json:"newPassword"        validate:"required,password"`
}

type userResponse struct {
	UserID           string      `json:"userId"`
	Email            string      `json:"email"`
	FirstName        string      `json:"firstName"`
	LastName         string      `json:"lastName"`
	Role             domain.Role `json:"role"`
	SecretQuestionID int64       `json:"secretQuestionId,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

type userMessageResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type loginResponse struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	JWTToken  string      `json:"jwtToken"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type questionResponse struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:           u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             u.Role,
		SecretQuestionID: u.SecretQuestionID,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
