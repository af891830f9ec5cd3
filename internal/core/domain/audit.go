package domain

import "time"

// AuditEventType names a security-relevant account action.
type AuditEventType string

const (
	AuditUserRegistered AuditEventType = "user.registered"
	AuditUserLogin      AuditEventType = "user.login"
	AuditPasswordReset  AuditEventType = "user.password_reset"
)

const (
	OutcomeSuccess = "success"
)

// AuditEvent records the outcome of a register, login or reset attempt.
type AuditEvent struct {
	Type       AuditEventType
	UserID     string // empty when the account could not be resolved
	Email      string
	Outcome    string
	OccurredAt time.Time
}

// ShardKey picks the field used to keep per-account ordering.
func (e AuditEvent) ShardKey() string {
	if e.UserID != "" {
		return e.UserID
	}
	return NormalizeEmail(e.Email)
}
