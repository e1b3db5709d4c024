// File: internal/domain/password_reset.go
package domain

import "time"

// PasswordResetToken is a single-use token mailed (or logged) to the account owner.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"not null;index"`
	Token     string     `gorm:"not null;uniqueIndex;size:64"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	UsedAt    *time.Time `gorm:"default:null"`
	CreatedAt time.Time
}

// IsValid checks if the token is unused and not expired.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

// MarkUsed marks the token as consumed.
func (t *PasswordResetToken) MarkUsed(now time.Time) {
	t.UsedAt = &now
}
