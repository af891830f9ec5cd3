package domain

import "time"

// TokenClaims is the identity decoded from a verified access token.
type TokenClaims struct {
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidationResult answers a token validation query. Identity fields are only
// populated when Status is true.
type ValidationResult struct {
	Status bool   `json:"status"`
	UserID string `json:"userId,omitempty"`
	Role   Role   `json:"role,omitempty"`
}
