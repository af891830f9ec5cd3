package domain

import (
	"strings"
	"time"
)

// Role is the coarse permission tier attached to a user and embedded in tokens.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

func (r Role) String() string { return string(r) }

// User models a registered account.
type User struct {
	ID               string    `json:"userId"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	EmailKey         string    `json:"-"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	SecretQuestionID int64     `json:"secretQuestionId,omitempty"`
	SecretAnswerHash string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// HasSecretQuestion reports whether the account can use the recovery flow.
func (u *User) HasSecretQuestion() bool {
	return u.SecretQuestionID != 0 && u.SecretAnswerHash != ""
}

// SecretQuestion is a recovery question users pick at registration.
type SecretQuestion struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
}

// NormalizeEmail returns the key used for case-insensitive email uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeAnswer canonicalises a secret answer before hashing or comparison.
func NormalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}
