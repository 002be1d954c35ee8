package domain

import "time"

// ResetToken is a single-use password reset token from the
// wachtwoord_reset_tokens table.
type ResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}
