package entity

import "time"

// AuditLog is an append-only record of a security relevant account action.
type AuditLog struct {
	ID        string
	AccountID string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}

// Audit actions
const (
	AuditSignup          = "signup"
	AuditVerify          = "verify_email"
	AuditLogin           = "login"
	AuditLoginFailed     = "login_failed"
	AuditResetRequested  = "password_reset_requested"
	AuditPasswordChanged = "password_changed"
	AuditPaymentRecorded = "payment_recorded"
)
